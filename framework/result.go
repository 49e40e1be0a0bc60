package framework

import (
	"fmt"
	"strings"
)

// TestID identifies a test or subtest as the path of scope names leading
// to it, such as "create/returns the created post".
type TestID struct {
	Path []string
}

// Plus returns a TestID with one more path component appended.
func (t TestID) Plus(name string) TestID {
	return TestID{Path: append(append([]string(nil), t.Path...), name)}
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// Results accumulates the outcome of an entire suite run.
type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

// TestResult is the outcome of a single test scope.
type TestResult struct {
	TestID  TestID
	Errors  []error
	Skipped bool
}

// OK is true if no test failed.
func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// TestFailure pairs a test ID with one of its errors, for reporting.
type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}
