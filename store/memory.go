package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process PostStore with the same observable semantics
// as MongoStore. It backs the embedded reference server, giving a fast,
// deterministic alternative to dropping a real database between tests.
type MemoryStore struct {
	lock  sync.Mutex
	posts map[string]BlogPost
	order []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{posts: make(map[string]BlogPost)}
}

func (m *MemoryStore) InsertMany(ctx context.Context, posts []*BlogPost) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, p := range posts {
		m.insertLocked(p)
	}
	return nil
}

func (m *MemoryStore) Insert(ctx context.Context, post *BlogPost) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.insertLocked(post)
	return nil
}

func (m *MemoryStore) insertLocked(post *BlogPost) {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if _, exists := m.posts[post.ID]; !exists {
		m.order = append(m.order, post.ID)
	}
	m.posts[post.ID] = *post
}

func (m *MemoryStore) FindByID(ctx context.Context, id string) (*BlogPost, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	post, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	return &post, nil
}

func (m *MemoryStore) FindOne(ctx context.Context) (*BlogPost, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if len(m.order) == 0 {
		return nil, nil
	}
	post := m.posts[m.order[0]]
	return &post, nil
}

func (m *MemoryStore) FindAll(ctx context.Context) ([]*BlogPost, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	posts := make([]*BlogPost, 0, len(m.order))
	for _, id := range m.order {
		post := m.posts[id]
		posts = append(posts, &post)
	}
	return posts, nil
}

func (m *MemoryStore) Count(ctx context.Context) (int64, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	return int64(len(m.posts)), nil
}

func (m *MemoryStore) Replace(ctx context.Context, post *BlogPost) (bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if _, ok := m.posts[post.ID]; !ok {
		return false, nil
	}
	m.posts[post.ID] = *post
	return true, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if _, ok := m.posts[id]; ok {
		delete(m.posts, id)
		for i, existing := range m.order {
			if existing == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (m *MemoryStore) Drop(ctx context.Context) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.posts = make(map[string]BlogPost)
	m.order = nil
	return nil
}

func (m *MemoryStore) Close(ctx context.Context) error {
	return nil
}
