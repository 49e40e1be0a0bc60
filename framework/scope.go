package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// T represents a test scope. It implements the same basic functionality as
// Go's testing.T, but in an environment that is outside of the Go test
// runner, with extra features such as captured debug logging. It satisfies
// the TestingT interfaces of the assert and require packages, so standard
// assertion helpers can be used with it directly.
type T struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	cleanups    []func()
	errors      []error
}

// Run executes a top-level test scope and returns the accumulated results.
func Run(
	filter Filter,
	testLogger TestLogger,
	action func(*T),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	t := &T{env: env}
	t.run(action)
	return env.results
}

func (t *T) run(action func(*T)) {
	defer func() {
		if r := recover(); r != nil && !t.skipped {
			t.failed = true
			var addError error
			if _, ok := r.(*T); ok {
				if len(t.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				t.errors = append(t.errors, addError)
				t.env.testLogger.TestError(t.id, addError)
			}
		}
		for i := len(t.cleanups) - 1; i >= 0; i-- {
			t.cleanups[i]()
		}
		if len(t.id.Path) == 0 {
			// the root scope is not a test; only scopes entered via Run are recorded
			return
		}
		result := TestResult{TestID: t.id, Errors: t.errors, Skipped: t.skipped}
		t.env.results.Tests = append(t.env.results.Tests, result)
		if t.failed {
			t.env.results.Failures = append(t.env.results.Failures, result)
		}
	}()

	action(t)
}

// ID returns the full name of the current test.
func (t *T) ID() TestID {
	return t.id
}

// Run runs a subtest in its own scope, equivalent to Go's testing.T.Run.
func (t *T) Run(name string, action func(*T)) {
	id := t.id.Plus(name)

	t.env.testLogger.TestStarted(id)
	if t.env.filter != nil && !t.env.filter(id) {
		t.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	t1 := &T{
		id:  id,
		env: t.env,
	}
	t1.run(action)
	if t1.skipped {
		t.env.testLogger.TestSkipped(id, t1.skipReason)
	} else {
		t.env.testLogger.TestFinished(id, t1.failed, t1.debugLogger.Output())
	}
}

// Errorf reports a test failure without terminating the test. It is normally
// called indirectly through assertion helpers.
func (t *T) Errorf(format string, args ...interface{}) {
	t.failed = true
	err := fmt.Errorf(format, args...)
	t.errors = append(t.errors, err)
	t.env.testLogger.TestError(t.id, err)
}

// FailNow terminates the test immediately and marks it as failed. The
// helpers in the require package call FailNow.
func (t *T) FailNow() {
	panic(t)
}

// Skip terminates the test immediately and marks it as skipped.
func (t *T) Skip() {
	t.skipped = true
	panic(t)
}

// SkipWithReason is equivalent to Skip but provides a message.
func (t *T) SkipWithReason(reason string) {
	t.skipReason = reason
	t.Skip()
}

// Debug logs debug output for the test. The output is passed to the test
// logger at the end of the test.
func (t *T) Debug(message string, args ...interface{}) {
	t.debugLogger.Printf(message, args...)
}

// DebugLogger returns a Logger that writes to this test scope's captured output.
func (t *T) DebugLogger() Logger {
	return &t.debugLogger
}

// Defer schedules a cleanup function which is guaranteed to be called when
// this test scope exits for any reason, including failure and panic. Unlike
// a Go defer statement, Defer can be used from within helper functions.
func (t *T) Defer(cleanupFn func()) {
	t.cleanups = append(t.cleanups, cleanupFn)
}
