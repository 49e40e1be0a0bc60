// Package posttests contains the contract test suite for the blog post CRUD
// API. Each test seeds the document store with fixture posts, exercises one
// API operation, verifies the response against the contract, cross-checks
// the stored documents, and drops the test database afterwards.
package posttests

import (
	"github.com/dermio/blog-contract-tests/client"
	"github.com/dermio/blog-contract-tests/fixtures"
	"github.com/dermio/blog-contract-tests/framework"
	"github.com/dermio/blog-contract-tests/store"
)

// RunTestSuite runs every contract test against the service reachable
// through apiClient, using posts for seeding and cross-checks. The client
// and the service must be talking to the same database.
func RunTestSuite(
	apiClient *client.APIClient,
	posts store.PostStore,
	gen *fixtures.Generator,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(filter, testLogger, func(ft *framework.T) {
		t := &T{
			T: ft,
			env: &environment{
				client: apiClient,
				store:  posts,
				gen:    gen,
			},
		}

		t.Group("list", DoListTests)
		t.Group("create", DoCreateTests)
		t.Group("update", DoUpdateTests)
		t.Group("delete", DoDeleteTests)
	})
}
