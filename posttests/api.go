package posttests

import (
	"context"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/dermio/blog-contract-tests/client"
	"github.com/dermio/blog-contract-tests/fixtures"
	"github.com/dermio/blog-contract-tests/framework"
	"github.com/dermio/blog-contract-tests/servicedef"
	"github.com/dermio/blog-contract-tests/store"
)

type environment struct {
	client *client.APIClient
	store  store.PostStore
	gen    *fixtures.Generator
}

// T represents a test or subtest in the blog API contract suite.
//
// It embeds the lower-level framework scope, so the assert and require
// packages can be used with it as if it were a *testing.T, and adds the
// blog-domain pieces every test needs: an API client that logs into the
// test's debug output, the fixture documents seeded for this test, and
// direct access to the document store for cross-checking responses.
type T struct {
	*framework.T
	env    *environment
	client *client.APIClient
	seeded []*store.BlogPost
}

// Group runs a named group of tests. Groups share no state and have no data
// lifecycle of their own; seeding and teardown happen per leaf test.
func (t *T) Group(name string, action func(*T)) {
	t.T.Run(name, func(ft *framework.T) {
		action(&T{T: ft, env: t.env})
	})
}

// Run runs one test with the full data lifecycle: the store is seeded with
// fixture posts before the test body, and the entire test database is
// dropped afterwards, unconditionally, so that no state leaks into the next
// test.
func (t *T) Run(name string, action func(*T)) {
	t.T.Run(name, func(ft *framework.T) {
		t1 := &T{T: ft, env: t.env}
		t1.client = t.env.client.WithLogger(ft.DebugLogger())

		// Teardown is registered before seeding so that it also runs when
		// seeding fails partway.
		ft.Defer(func() {
			if err := t.env.store.Drop(context.Background()); err != nil {
				ft.Errorf("teardown failed to drop the test database: %s", err)
			}
		})

		seeded, err := fixtures.Seed(context.Background(), t.env.store, t.env.gen)
		require.NoError(t1, err, "test setup failed")
		t1.seeded = seeded
		ft.Debug("seeded %d fixture posts", len(seeded))

		action(t1)
	})
}

// Client returns the API client for this test.
func (t *T) Client() *client.APIClient {
	return t.client
}

// SeededPosts returns the fixture documents that were inserted for this test.
func (t *T) SeededPosts() []*store.BlogPost {
	return t.seeded
}

// NewSubmission generates a random POST payload.
func (t *T) NewSubmission() servicedef.PostSubmission {
	return t.env.gen.Submission()
}

// RequireResponse fails the test immediately unless the request succeeded at
// the transport level and returned the expected status code.
func (t *T) RequireResponse(resp *client.APIResponse, err error, wantStatus int) *client.APIResponse {
	require.NoError(t, err, "request failed")
	require.Equal(t, wantStatus, resp.StatusCode,
		"unexpected response status (body: %s)", string(resp.Body))
	return resp
}

// RequireJSONBody fails the test immediately unless the response body parses
// as JSON.
func (t *T) RequireJSONBody(resp *client.APIResponse) ldvalue.Value {
	v, err := resp.JSONValue()
	require.NoError(t, err)
	return v
}

// AssertPostShape checks that a JSON value is an object with exactly the
// contract's key set {id, author, content, title, created}.
func (t *T) AssertPostShape(v ldvalue.Value) {
	if !assert.Equal(t, ldvalue.ObjectType, v.Type(), "expected a JSON object, got: %s", v.JSONString()) {
		return
	}
	assert.ElementsMatch(t, servicedef.PostKeys, v.Keys(),
		"post object does not have the contract's exact key set: %s", v.JSONString())
}

// StoreCount returns the number of documents currently in the store.
func (t *T) StoreCount() int64 {
	count, err := t.env.store.Count(context.Background())
	require.NoError(t, err)
	return count
}

// FindStoredPost looks up a document by ID, returning nil for absence.
func (t *T) FindStoredPost(id string) *store.BlogPost {
	post, err := t.env.store.FindByID(context.Background(), id)
	require.NoError(t, err, "store lookup for id %q failed", id)
	return post
}

// RequireStoredPost looks up a document by ID and fails the test if it is absent.
func (t *T) RequireStoredPost(id string) *store.BlogPost {
	post := t.FindStoredPost(id)
	require.NotNil(t, post, "expected a stored document with id %q", id)
	return post
}

// RequireAnyStoredPost returns an arbitrary existing document and fails the
// test if the store is empty.
func (t *T) RequireAnyStoredPost() *store.BlogPost {
	post, err := t.env.store.FindOne(context.Background())
	require.NoError(t, err)
	require.NotNil(t, post, "expected the store to contain at least one document")
	return post
}

// assertStoredFieldsEqualUpdate checks the stored document against a PUT
// payload on every replaceable field.
func (t *T) assertStoredFieldsEqualUpdate(stored *store.BlogPost, update servicedef.PostUpdate) {
	assert.Equal(t, update.Title, stored.Title)
	assert.Equal(t, update.Content, stored.Content)
	assert.Equal(t, update.Author.FirstName, stored.Author.FirstName)
	assert.Equal(t, update.Author.LastName, stored.Author.LastName)
}
