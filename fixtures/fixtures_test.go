package fixtures

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dermio/blog-contract-tests/store"
)

func TestGeneratedPostIsComplete(t *testing.T) {
	g := NewGenerator(1)
	for i := 0; i < 50; i++ {
		post := g.BlogPost()
		assert.Empty(t, post.ID, "the store assigns IDs, not the generator")
		assert.NotEmpty(t, post.Author.FirstName)
		assert.NotEmpty(t, post.Author.LastName)
		assert.Contains(t, TitleVocabulary, post.Title)
		assert.NotEmpty(t, post.Content)
		assert.False(t, post.Created.IsZero())
	}
}

func TestRecentTimeIsWithinWindow(t *testing.T) {
	g := NewGenerator(2)
	now := time.Now().UTC()
	for i := 0; i < 100; i++ {
		created := g.RecentTime()
		assert.True(t, created.Before(now.Add(time.Second)), "created time %v is in the future", created)
		assert.True(t, created.After(now.Add(-recentWindow-time.Second)), "created time %v is too old", created)
	}
}

func TestContentHasMultipleSentences(t *testing.T) {
	g := NewGenerator(3)
	for i := 0; i < 20; i++ {
		content := g.Content()
		sentences := strings.Count(content, ".")
		assert.GreaterOrEqual(t, sentences, 3)
		assert.LessOrEqual(t, sentences, 6)
	}
}

func TestGeneratorIsDeterministicPerSeed(t *testing.T) {
	a, b := NewGenerator(42), NewGenerator(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, *a.BlogPost(), *b.BlogPost())
	}
}

func TestSeedInsertsExactlyTenPosts(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	seeded, err := Seed(ctx, s, NewGenerator(4))
	require.NoError(t, err)
	require.Len(t, seeded, SeedCount)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(SeedCount), count)

	for _, post := range seeded {
		assert.NotEmpty(t, post.ID, "InsertMany should have assigned IDs to the seeded posts")
	}
}
