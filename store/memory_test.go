package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dermio/blog-contract-tests/servicedef"
)

func testPost(title string) *BlogPost {
	return &BlogPost{
		Author:  servicedef.AuthorName{FirstName: "Ernest", LastName: "Hemingway"},
		Title:   title,
		Content: "The quick brown fox jumps over the lazy dog.",
		Created: time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestMemoryStoreInsertAndFindByID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	post := testPost("first")
	require.NoError(t, s.Insert(ctx, post))
	require.NotEmpty(t, post.ID, "Insert should assign an ID")

	found, err := s.FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, *post, *found)
}

func TestMemoryStoreFindByIDReturnsNilForAbsence(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	found, err := s.FindByID(ctx, "no-such-id")
	assert.NoError(t, err, "absence must not be reported as an error")
	assert.Nil(t, found)
}

func TestMemoryStoreInsertManyAndCount(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	posts := []*BlogPost{testPost("a"), testPost("b"), testPost("c")}
	require.NoError(t, s.InsertMany(ctx, posts))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].Title, "FindAll should preserve insertion order")

	one, err := s.FindOne(ctx)
	require.NoError(t, err)
	require.NotNil(t, one)
}

func TestMemoryStoreReplace(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	post := testPost("original")
	require.NoError(t, s.Insert(ctx, post))

	updated := *post
	updated.Title = "replaced"
	updated.Author = servicedef.AuthorName{FirstName: "Harper", LastName: "Lee"}
	found, err := s.Replace(ctx, &updated)
	require.NoError(t, err)
	assert.True(t, found)

	stored, err := s.FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "replaced", stored.Title)
	assert.Equal(t, "Harper Lee", stored.Author.Display())

	missing := *post
	missing.ID = "no-such-id"
	found, err = s.Replace(ctx, &missing)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	post := testPost("doomed")
	require.NoError(t, s.Insert(ctx, post))

	require.NoError(t, s.Delete(ctx, post.ID))
	found, err := s.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	assert.NoError(t, s.Delete(ctx, post.ID), "deleting an absent document is not an error")
}

func TestMemoryStoreDrop(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.InsertMany(ctx, []*BlogPost{testPost("a"), testPost("b")}))
	require.NoError(t, s.Drop(ctx))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	one, err := s.FindOne(ctx)
	require.NoError(t, err)
	assert.Nil(t, one)
}

func TestAPIPostProjection(t *testing.T) {
	post := testPost("projection")
	post.ID = "abc123"

	api := post.APIPost()
	assert.Equal(t, "abc123", api.ID)
	assert.Equal(t, "Ernest Hemingway", api.Author)
	assert.Equal(t, "projection", api.Title)
	assert.Equal(t, post.Content, api.Content)
	assert.Equal(t, post.Created, api.Created)
}
