package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStoredIDUsesObjectIDForHexIDs(t *testing.T) {
	oid := primitive.NewObjectID()
	assert.Equal(t, oid, storedID(oid.Hex()))
	assert.Equal(t, "not-a-hex-id", storedID("not-a-hex-id"))
}

func TestIDFilterMatchesBothIDRepresentations(t *testing.T) {
	oid := primitive.NewObjectID()

	filter := idFilter(oid.Hex())
	in, ok := filter["_id"].(bson.M)
	require.True(t, ok, "hex ids should produce an $in filter: %v", filter)
	assert.ElementsMatch(t, []interface{}{oid, oid.Hex()}, in["$in"])

	assert.Equal(t, bson.M{"_id": "plain"}, idFilter("plain"))
}

func TestInsertDocKeysByStoredID(t *testing.T) {
	post := testPost("doc")
	post.ID = primitive.NewObjectID().Hex()

	doc := insertDoc(post)
	assert.Equal(t, storedID(post.ID), doc["_id"])
	assert.Equal(t, post.Author, doc["author"])
	assert.Equal(t, post.Title, doc["title"])
	assert.Equal(t, post.Content, doc["content"])
	assert.Equal(t, post.Created, doc["created"])
}
