package posttests

import (
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoListTests(t *T) {
	t.Run("returns every stored post", func(t *T) {
		resp, err := t.Client().ListPosts()
		t.RequireResponse(resp, err, http.StatusOK)
		body := t.RequireJSONBody(resp)

		require.Equal(t, ldvalue.ArrayType, body.Type(), "expected a JSON array, got: %s", body.JSONString())
		assert.Equal(t, int(t.StoreCount()), body.Count(),
			"the list length must equal the store's document count")
	})

	t.Run("returns objects with exactly the contract keys", func(t *T) {
		resp, err := t.Client().ListPosts()
		t.RequireResponse(resp, err, http.StatusOK)
		body := t.RequireJSONBody(resp)

		require.Equal(t, ldvalue.ArrayType, body.Type())
		require.NotZero(t, body.Count(), "the seeded posts should be visible in the list")
		for i := 0; i < body.Count(); i++ {
			t.AssertPostShape(body.GetByIndex(i))
		}
	})

	t.Run("returns content matching the stored document", func(t *T) {
		resp, err := t.Client().ListPosts()
		t.RequireResponse(resp, err, http.StatusOK)
		body := t.RequireJSONBody(resp)

		require.Equal(t, ldvalue.ArrayType, body.Type())
		require.NotZero(t, body.Count())

		sampled := body.GetByIndex(0)
		id := sampled.GetByKey("id").StringValue()
		require.NotEmpty(t, id)

		stored := t.RequireStoredPost(id)
		assert.Equal(t, stored.ID, id)
		assert.Contains(t, sampled.GetByKey("author").StringValue(), stored.Author.LastName,
			"the author display string should contain the stored last name")
		assert.Equal(t, stored.Title, sampled.GetByKey("title").StringValue())
		assert.Equal(t, stored.Content, sampled.GetByKey("content").StringValue())
	})
}
