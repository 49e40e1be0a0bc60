// Package fixtures generates random but valid blog post documents and seeds
// them into the document store before each test.
package fixtures

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/dermio/blog-contract-tests/servicedef"
	"github.com/dermio/blog-contract-tests/store"
)

// SeedCount is the number of fixture documents inserted before each test.
const SeedCount = 10

// recentWindow bounds how far in the past a generated creation time can be.
const recentWindow = 30 * 24 * time.Hour

// TitleVocabulary is the fixed set of values a generated title is drawn from.
var TitleVocabulary = []string{
	"Mr.", "Mrs.", "Miss", "Your Majesty", "Sir",
	"Ninja", "Master", "Professor", "Guru", "Chef",
}

var firstNames = []string{
	"Ada", "Blake", "Carmen", "Dmitri", "Elena", "Felix", "Greta", "Hugo",
	"Ines", "Jasper", "Kira", "Lionel", "Mara", "Nils", "Olga", "Pavel",
	"Quinn", "Rosa", "Silas", "Tamsin",
}

var lastNames = []string{
	"Abernathy", "Bergström", "Castellano", "Dietrich", "Eastwood",
	"Fairbanks", "Grimaldi", "Holloway", "Ivanova", "Jarvis", "Kowalski",
	"Lindqvist", "Moreau", "Novak", "Okafor", "Pemberton", "Quintero",
	"Rasmussen", "Santiago", "Thackeray",
}

var loremWords = []string{
	"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing",
	"elit", "sed", "do", "eiusmod", "tempor", "incididunt", "ut", "labore",
	"et", "dolore", "magna", "aliqua", "enim", "ad", "minim", "veniam",
	"quis", "nostrud", "exercitation", "ullamco", "laboris", "nisi",
	"aliquip", "ex", "ea", "commodo", "consequat",
}

// Generator produces random blog post fixtures. It is deterministic for a
// given seed, which keeps test failures reproducible.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator returns a Generator seeded with the given value.
func NewGenerator(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// NewRandomized returns a Generator seeded from the current time.
func NewRandomized() *Generator {
	return NewGenerator(time.Now().UnixNano())
}

// AuthorName returns a random first/last name pair.
func (g *Generator) AuthorName() servicedef.AuthorName {
	return servicedef.AuthorName{
		FirstName: firstNames[g.rnd.Intn(len(firstNames))],
		LastName:  lastNames[g.rnd.Intn(len(lastNames))],
	}
}

// Title returns a uniformly random pick from TitleVocabulary.
func (g *Generator) Title() string {
	return TitleVocabulary[g.rnd.Intn(len(TitleVocabulary))]
}

// Sentence returns one lorem-style sentence of 5 to 12 words.
func (g *Generator) Sentence() string {
	n := 5 + g.rnd.Intn(8)
	words := make([]string, 0, n)
	for i := 0; i < n; i++ {
		words = append(words, loremWords[g.rnd.Intn(len(loremWords))])
	}
	s := strings.Join(words, " ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

// Content returns 3 to 6 lorem-style sentences.
func (g *Generator) Content() string {
	n := 3 + g.rnd.Intn(4)
	sentences := make([]string, 0, n)
	for i := 0; i < n; i++ {
		sentences = append(sentences, g.Sentence())
	}
	return strings.Join(sentences, " ")
}

// RecentTime returns a random timestamp within the last 30 days, truncated
// to milliseconds so that it survives a round trip through BSON unchanged.
func (g *Generator) RecentTime() time.Time {
	offset := time.Duration(g.rnd.Int63n(int64(recentWindow)))
	return time.Now().UTC().Add(-offset).Truncate(time.Millisecond)
}

// BlogPost returns one complete fixture document, without an ID; the store
// assigns the ID on insert.
func (g *Generator) BlogPost() *store.BlogPost {
	return &store.BlogPost{
		Author:  g.AuthorName(),
		Title:   g.Title(),
		Content: g.Content(),
		Created: g.RecentTime(),
	}
}

// Submission returns a fixture in request-payload form, for exercising POST.
func (g *Generator) Submission() servicedef.PostSubmission {
	created := g.RecentTime()
	return servicedef.PostSubmission{
		Author:  g.AuthorName(),
		Title:   g.Title(),
		Content: g.Content(),
		Created: &created,
	}
}

// Seed inserts exactly SeedCount generated fixtures into the store as one
// batch. If the batch insert fails, nothing is committed and the error
// propagates, failing the test's setup.
func Seed(ctx context.Context, s store.PostStore, g *Generator) ([]*store.BlogPost, error) {
	posts := make([]*store.BlogPost, 0, SeedCount)
	for i := 0; i < SeedCount; i++ {
		posts = append(posts, g.BlogPost())
	}
	if err := s.InsertMany(ctx, posts); err != nil {
		return nil, fmt.Errorf("seeding %d fixture posts: %w", SeedCount, err)
	}
	return posts, nil
}
