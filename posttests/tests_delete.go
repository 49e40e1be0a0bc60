package posttests

import (
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoDeleteTests(t *T) {
	t.Run("removes the post from the store", func(t *T) {
		existing := t.RequireAnyStoredPost()

		resp, err := t.Client().DeletePost(existing.ID)
		t.RequireResponse(resp, err, http.StatusNoContent)
		assert.Empty(t, resp.Body, "a DELETE response must have an empty body")

		absent := t.FindStoredPost(existing.ID)
		assert.Nil(t, absent, "the document must be gone after DELETE, lookup must report absence rather than an error")
	})

	t.Run("removes the post from a subsequent list", func(t *T) {
		countBefore := t.StoreCount()
		existing := t.RequireAnyStoredPost()

		resp, err := t.Client().DeletePost(existing.ID)
		t.RequireResponse(resp, err, http.StatusNoContent)

		listResp, err := t.Client().ListPosts()
		t.RequireResponse(listResp, err, http.StatusOK)
		body := t.RequireJSONBody(listResp)

		require.Equal(t, ldvalue.ArrayType, body.Type())
		assert.Equal(t, int(countBefore)-1, body.Count())
		for i := 0; i < body.Count(); i++ {
			assert.NotEqual(t, existing.ID, body.GetByIndex(i).GetByKey("id").StringValue(),
				"the deleted post must not appear in the list")
		}
	})
}
