package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/dermio/blog-contract-tests/framework"
)

const defaultMongoURI = "mongodb://localhost:27017"
const defaultDatabase = "test-blog-app"

type commandParams struct {
	serviceURL       string
	embedded         bool
	embeddedPort     int
	mongoURI         string
	database         string
	filters          framework.RegexFilters
	stopServiceAtEnd bool
	debug            bool
	debugAll         bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&c.serviceURL, "url", "", "base URL of the blog API service under test")
	fs.BoolVar(&c.embedded, "embedded", false, "test the embedded reference server instead of an external service")
	fs.IntVar(&c.embeddedPort, "port", defaultEmbeddedPort, "port for the embedded reference server")
	fs.StringVar(&c.mongoURI, "mongo", envOr("MONGO_URI", defaultMongoURI), "MongoDB connection URI")
	fs.StringVar(&c.database, "db", envOr("TEST_DATABASE", defaultDatabase), "name of the test database")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.stopServiceAtEnd, "stop-service-at-end", false, "tell the service to exit after the test run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	if c.serviceURL == "" && !c.embedded {
		fmt.Fprintln(os.Stderr, "either -url or -embedded is required")
		fs.Usage()
		return false
	}
	if c.serviceURL != "" && c.embedded {
		fmt.Fprintln(os.Stderr, "-url and -embedded are mutually exclusive")
		fs.Usage()
		return false
	}
	return true
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// rerunFailedTestsCommand builds a command line that re-runs only the tests
// that failed, by turning each failed test ID into a -run pattern. The
// filter is applied at every scope level, so each ancestor group of a failed
// test needs its own pattern as well.
func rerunFailedTestsCommand(params commandParams, results framework.Results) string {
	var b commandBuilder
	b.add(os.Args[0])
	if params.embedded {
		b.add("-embedded")
	} else {
		b.add("-url", params.serviceURL)
		b.add("-mongo", params.mongoURI)
		b.add("-db", params.database)
	}
	seen := make(map[string]bool)
	for _, f := range results.Failures {
		for i := 1; i <= len(f.TestID.Path); i++ {
			id := framework.TestID{Path: f.TestID.Path[:i]}.String()
			if !seen[id] {
				seen[id] = true
				b.add("-run", "^"+regexp.QuoteMeta(id)+"$")
			}
		}
	}
	return b.String()
}
