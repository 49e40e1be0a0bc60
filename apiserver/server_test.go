package apiserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dermio/blog-contract-tests/servicedef"
	"github.com/dermio/blog-contract-tests/store"
)

func newTestServer() (*Server, *store.MemoryStore) {
	posts := store.NewMemoryStore()
	return NewServer(posts, nil), posts
}

func doJSON(t *testing.T, s *Server, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer = bytes.NewBuffer(nil)
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(data)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func seedOne(t *testing.T, posts *store.MemoryStore) *store.BlogPost {
	t.Helper()
	post := &store.BlogPost{
		Author:  servicedef.AuthorName{FirstName: "Ernest", LastName: "Hemingway"},
		Title:   "Sir",
		Content: "Lorem ipsum dolor sit amet.",
		Created: time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, posts.Insert(context.Background(), post))
	return post
}

func TestListPostsReturnsAllDocuments(t *testing.T) {
	s, posts := newTestServer()
	first := seedOne(t, posts)
	second := seedOne(t, posts)

	rec := doJSON(t, s, http.MethodGet, "/posts", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out []servicedef.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, first.ID, out[0].ID)
	assert.Equal(t, second.ID, out[1].ID)
	assert.Equal(t, "Ernest Hemingway", out[0].Author)
}

func TestListPostsOnEmptyStoreReturnsEmptyArray(t *testing.T) {
	s, _ := newTestServer()
	rec := doJSON(t, s, http.MethodGet, "/posts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestCreatePost(t *testing.T) {
	s, posts := newTestServer()

	rec := doJSON(t, s, http.MethodPost, "/posts", servicedef.PostSubmission{
		Author:  servicedef.AuthorName{FirstName: "Ernest", LastName: "Hemingway"},
		Title:   "apple banana cherry",
		Content: "The quick brown fox...",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var out servicedef.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "Ernest Hemingway", out.Author)
	assert.Equal(t, "apple banana cherry", out.Title)
	assert.Equal(t, "The quick brown fox...", out.Content)
	assert.False(t, out.Created.IsZero(), "a default created time should have been assigned")

	stored, err := posts.FindByID(context.Background(), out.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "apple banana cherry", stored.Title)
}

func TestCreatePostKeepsSubmittedCreatedTime(t *testing.T) {
	s, _ := newTestServer()

	created := time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC)
	rec := doJSON(t, s, http.MethodPost, "/posts", servicedef.PostSubmission{
		Author:  servicedef.AuthorName{FirstName: "Harper", LastName: "Lee"},
		Title:   "Guru",
		Content: "Some content.",
		Created: &created,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var out servicedef.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, created.Equal(out.Created))
}

func TestCreatePostRejectsIncompletePayload(t *testing.T) {
	s, _ := newTestServer()

	rec := doJSON(t, s, http.MethodPost, "/posts", servicedef.PostSubmission{
		Author: servicedef.AuthorName{FirstName: "Ernest", LastName: "Hemingway"},
		Title:  "no content",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdatePostReplacesAllFields(t *testing.T) {
	s, posts := newTestServer()
	post := seedOne(t, posts)

	rec := doJSON(t, s, http.MethodPut, "/posts/"+post.ID, servicedef.PostUpdate{
		ID:      post.ID,
		Author:  servicedef.AuthorName{FirstName: "Harper", LastName: "Lee"},
		Title:   "Professor",
		Content: "Entirely new content.",
	})
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())

	stored, err := posts.FindByID(context.Background(), post.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Professor", stored.Title)
	assert.Equal(t, "Entirely new content.", stored.Content)
	assert.Equal(t, "Harper", stored.Author.FirstName)
	assert.Equal(t, "Lee", stored.Author.LastName)
	assert.True(t, post.Created.Equal(stored.Created), "update must not change the creation time")
}

func TestUpdatePostRejectsMismatchedIDs(t *testing.T) {
	s, posts := newTestServer()
	post := seedOne(t, posts)

	rec := doJSON(t, s, http.MethodPut, "/posts/"+post.ID, servicedef.PostUpdate{
		ID:      "some-other-id",
		Author:  servicedef.AuthorName{FirstName: "Harper", LastName: "Lee"},
		Title:   "Professor",
		Content: "Entirely new content.",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateUnknownPostReturns404(t *testing.T) {
	s, _ := newTestServer()

	rec := doJSON(t, s, http.MethodPut, "/posts/missing", servicedef.PostUpdate{
		ID:      "missing",
		Author:  servicedef.AuthorName{FirstName: "Harper", LastName: "Lee"},
		Title:   "Professor",
		Content: "Entirely new content.",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeletePost(t *testing.T) {
	s, posts := newTestServer()
	post := seedOne(t, posts)

	rec := doJSON(t, s, http.MethodDelete, "/posts/"+post.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())

	stored, err := posts.FindByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Nil(t, stored, "the document should be gone after DELETE")

	rec = doJSON(t, s, http.MethodDelete, "/posts/"+post.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code, "DELETE is idempotent")
}
