// Package store provides access to the document database that backs the blog
// API. The contract tests use it to seed fixture data, to cross-check API
// responses against stored documents, and to drop the test database between
// tests.
package store

import (
	"context"
	"time"

	"github.com/dermio/blog-contract-tests/servicedef"
)

// BlogPost is a blog post document as stored in the database. The author is
// kept in structured form; only the API response projects it to a string.
type BlogPost struct {
	ID      string                `bson:"_id,omitempty"`
	Author  servicedef.AuthorName `bson:"author"`
	Title   string                `bson:"title"`
	Content string                `bson:"content"`
	Created time.Time             `bson:"created"`
}

// APIPost returns the external representation of the document, applying the
// author projection.
func (p *BlogPost) APIPost() servicedef.Post {
	return servicedef.Post{
		ID:      p.ID,
		Author:  p.Author.Display(),
		Title:   p.Title,
		Content: p.Content,
		Created: p.Created,
	}
}

// PostStore is the document store interface used by both the test harness
// and the embedded reference server.
//
// Lookups signal absence by returning a nil document with a nil error;
// absence is an expected outcome, not a failure.
type PostStore interface {
	// InsertMany inserts a batch of documents, assigning an ID to each one
	// that does not have one. If it returns an error, the caller must assume
	// the batch was not committed.
	InsertMany(ctx context.Context, posts []*BlogPost) error

	// Insert inserts a single document, assigning an ID if it has none.
	Insert(ctx context.Context, post *BlogPost) error

	// FindByID returns the document with the given ID, or (nil, nil) if no
	// such document exists.
	FindByID(ctx context.Context, id string) (*BlogPost, error)

	// FindOne returns an arbitrary document, or (nil, nil) if the store is empty.
	FindOne(ctx context.Context) (*BlogPost, error)

	// FindAll returns every document in the store.
	FindAll(ctx context.Context) ([]*BlogPost, error)

	// Count returns the number of documents in the store.
	Count(ctx context.Context) (int64, error)

	// Replace overwrites every field of the document whose ID matches
	// post.ID. It returns false if no document has that ID.
	Replace(ctx context.Context, post *BlogPost) (bool, error)

	// Delete removes the document with the given ID. Deleting an absent
	// document is not an error.
	Delete(ctx context.Context, id string) error

	// Drop destroys the entire database, including the posts collection.
	Drop(ctx context.Context) error

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
