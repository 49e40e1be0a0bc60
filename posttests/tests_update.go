package posttests

import (
	"net/http"

	"github.com/stretchr/testify/assert"

	"github.com/dermio/blog-contract-tests/servicedef"
)

func DoUpdateTests(t *T) {
	t.Run("replaces every field of an existing post", func(t *T) {
		existing := t.RequireAnyStoredPost()
		update := servicedef.PostUpdate{
			ID:      existing.ID,
			Author:  servicedef.AuthorName{FirstName: "Ernest", LastName: "Hemingway"},
			Title:   "apple banana cherry",
			Content: "The quick brown fox jumps over the lazy dog.",
		}

		resp, err := t.Client().UpdatePost(existing.ID, update)
		t.RequireResponse(resp, err, http.StatusNoContent)
		assert.Empty(t, resp.Body, "a PUT response must have an empty body")

		stored := t.RequireStoredPost(existing.ID)
		t.assertStoredFieldsEqualUpdate(stored, update)
	})

	t.Run("is idempotent when repeated with the same payload", func(t *T) {
		existing := t.RequireAnyStoredPost()
		update := servicedef.PostUpdate{
			ID:      existing.ID,
			Author:  servicedef.AuthorName{FirstName: "Harper", LastName: "Lee"},
			Title:   "Professor",
			Content: "Entirely new content.",
		}

		for i := 0; i < 2; i++ {
			resp, err := t.Client().UpdatePost(existing.ID, update)
			t.RequireResponse(resp, err, http.StatusNoContent)
			assert.Empty(t, resp.Body)

			stored := t.RequireStoredPost(existing.ID)
			t.assertStoredFieldsEqualUpdate(stored, update)
		}
	})

	t.Run("does not change the number of stored posts", func(t *T) {
		before := t.StoreCount()

		existing := t.RequireAnyStoredPost()
		update := servicedef.PostUpdate{
			ID:      existing.ID,
			Author:  existing.Author,
			Title:   "Guru",
			Content: existing.Content,
		}
		resp, err := t.Client().UpdatePost(existing.ID, update)
		t.RequireResponse(resp, err, http.StatusNoContent)

		assert.Equal(t, before, t.StoreCount())
	})
}
