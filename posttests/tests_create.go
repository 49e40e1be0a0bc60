package posttests

import (
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dermio/blog-contract-tests/servicedef"
)

func DoCreateTests(t *T) {
	t.Run("returns the created post", func(t *T) {
		submission := t.NewSubmission()

		resp, err := t.Client().CreatePost(submission)
		t.RequireResponse(resp, err, http.StatusCreated)
		body := t.RequireJSONBody(resp)

		t.AssertPostShape(body)
		id := body.GetByKey("id").StringValue()
		require.NotEmpty(t, id, "the created post must have a non-null id")
		assert.Equal(t, submission.Title, body.GetByKey("title").StringValue())
		assert.Equal(t, submission.Content, body.GetByKey("content").StringValue())
		assert.Equal(t, submission.Author.Display(), body.GetByKey("author").StringValue(),
			"the author must be the concatenated display string")
	})

	t.Run("persists the submitted fields", func(t *T) {
		submission := t.NewSubmission()

		resp, err := t.Client().CreatePost(submission)
		t.RequireResponse(resp, err, http.StatusCreated)
		body := t.RequireJSONBody(resp)

		id := body.GetByKey("id").StringValue()
		require.NotEmpty(t, id)

		stored := t.RequireStoredPost(id)
		assert.Equal(t, submission.Title, stored.Title)
		assert.Equal(t, submission.Content, stored.Content)
		assert.Equal(t, submission.Author.FirstName, stored.Author.FirstName)
		assert.Equal(t, submission.Author.LastName, stored.Author.LastName)
	})

	t.Run("round-trips a known author and title", func(t *T) {
		resp, err := t.Client().CreatePost(servicedef.PostSubmission{
			Author:  servicedef.AuthorName{FirstName: "Ernest", LastName: "Hemingway"},
			Title:   "apple banana cherry",
			Content: "The quick brown fox...",
		})
		t.RequireResponse(resp, err, http.StatusCreated)
		body := t.RequireJSONBody(resp)

		assert.Equal(t, "Ernest Hemingway", body.GetByKey("author").StringValue())
		assert.Equal(t, "apple banana cherry", body.GetByKey("title").StringValue())
		assert.Equal(t, "The quick brown fox...", body.GetByKey("content").StringValue())
	})

	t.Run("assigns a default creation time when none is given", func(t *T) {
		submission := t.NewSubmission()
		submission.Created = nil

		resp, err := t.Client().CreatePost(submission)
		t.RequireResponse(resp, err, http.StatusCreated)
		body := t.RequireJSONBody(resp)

		t.AssertPostShape(body)
		assert.False(t, body.GetByKey("created").IsNull(),
			"the service should have filled in a default created time")
	})
}
