package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const postsCollection = "blogposts"
const mongoConnectTimeout = time.Second * 10

// MongoStore is the PostStore implementation backed by a real MongoDB
// database. The whole suite shares one connection; each test drops the
// database afterwards for isolation.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	posts  *mongo.Collection
}

// NewMongoStore connects to MongoDB at the given URI and verifies the
// connection with a ping before returning.
func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB at %s: %w", uri, err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging MongoDB at %s: %w", uri, err)
	}

	db := client.Database(dbName)
	return &MongoStore{
		client: client,
		db:     db,
		posts:  db.Collection(postsCollection),
	}, nil
}

// storedID returns the value to use for a document's _id field. Ids in hex
// form are stored as real ObjectIds, matching how the service under test
// keys its own documents; the driver decodes ObjectId ids back into hex
// strings on reads.
func storedID(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

// idFilter matches a document whether its _id is stored as an ObjectId or as
// the raw string.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": []interface{}{oid, id}}}
	}
	return bson.M{"_id": id}
}

func insertDoc(p *BlogPost) bson.M {
	return bson.M{
		"_id":     storedID(p.ID),
		"author":  p.Author,
		"title":   p.Title,
		"content": p.Content,
		"created": p.Created,
	}
}

func (m *MongoStore) InsertMany(ctx context.Context, posts []*BlogPost) error {
	docs := make([]interface{}, 0, len(posts))
	ids := make([]interface{}, 0, len(posts))
	for _, p := range posts {
		if p.ID == "" {
			p.ID = primitive.NewObjectID().Hex()
		}
		docs = append(docs, insertDoc(p))
		ids = append(ids, storedID(p.ID))
	}
	if _, err := m.posts.InsertMany(ctx, docs); err != nil {
		// an ordered InsertMany commits the documents preceding the first
		// failure; remove them so a failed batch leaves nothing behind
		_, _ = m.posts.DeleteMany(context.Background(), bson.M{"_id": bson.M{"$in": ids}})
		return err
	}
	return nil
}

func (m *MongoStore) Insert(ctx context.Context, post *BlogPost) error {
	if post.ID == "" {
		post.ID = primitive.NewObjectID().Hex()
	}
	_, err := m.posts.InsertOne(ctx, insertDoc(post))
	return err
}

func (m *MongoStore) FindByID(ctx context.Context, id string) (*BlogPost, error) {
	var post BlogPost
	err := m.posts.FindOne(ctx, idFilter(id)).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (m *MongoStore) FindOne(ctx context.Context) (*BlogPost, error) {
	var post BlogPost
	err := m.posts.FindOne(ctx, bson.M{}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (m *MongoStore) FindAll(ctx context.Context) ([]*BlogPost, error) {
	cursor, err := m.posts.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var posts []*BlogPost
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (m *MongoStore) Count(ctx context.Context) (int64, error) {
	return m.posts.CountDocuments(ctx, bson.M{})
}

func (m *MongoStore) Replace(ctx context.Context, post *BlogPost) (bool, error) {
	// the replacement omits _id so the stored id keeps its representation
	replacement := bson.M{
		"author":  post.Author,
		"title":   post.Title,
		"content": post.Content,
		"created": post.Created,
	}
	result, err := m.posts.ReplaceOne(ctx, idFilter(post.ID), replacement)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (m *MongoStore) Delete(ctx context.Context, id string) error {
	_, err := m.posts.DeleteOne(ctx, idFilter(id))
	return err
}

func (m *MongoStore) Drop(ctx context.Context) error {
	return m.db.Drop(ctx)
}

func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
