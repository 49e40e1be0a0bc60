// Package servicedef defines the JSON types of the blog API surface that the
// test harness communicates with. These types are the contract; the tests
// verify that the service's behavior matches them.
package servicedef

import "time"

// PostKeys is the exact set of keys that every post object returned by the
// service must have, no more and no less.
var PostKeys = []string{"id", "author", "content", "title", "created"}

// AuthorName is the structured author representation used in request
// payloads and in stored documents. The service never exposes this form in
// responses; it always projects it to a single display string.
type AuthorName struct {
	FirstName string `json:"firstName" bson:"firstName"`
	LastName  string `json:"lastName" bson:"lastName"`
}

// Display returns the externally visible author representation. This is the
// single point where the structured form is projected to a string.
func (a AuthorName) Display() string {
	return a.FirstName + " " + a.LastName
}

// PostSubmission is the request body for POST /posts. All fields except
// Created are required; the service fills in a default creation time when
// Created is omitted.
type PostSubmission struct {
	Author  AuthorName `json:"author"`
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Created *time.Time `json:"created,omitempty"`
}

// PostUpdate is the request body for PUT /posts/{id}. A full field set is
// required; partial updates are out of contract. The embedded ID must equal
// the id in the request path.
type PostUpdate struct {
	ID      string     `json:"id"`
	Author  AuthorName `json:"author"`
	Title   string     `json:"title"`
	Content string     `json:"content"`
}

// Post is the response representation of a blog post. Author is the
// concatenated "FirstName LastName" display string.
type Post struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Created time.Time `json:"created"`
}
