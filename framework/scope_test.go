package framework

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCollectsResults(t *testing.T) {
	results := Run(nil, nil, func(s *T) {
		s.Run("passes", func(s *T) {})
		s.Run("fails", func(s *T) {
			s.Errorf("deliberate failure")
		})
	})

	assert.False(t, results.OK())
	require.Len(t, results.Tests, 2)
	assert.Equal(t, "passes", results.Tests[0].TestID.String())
	assert.Equal(t, "fails", results.Tests[1].TestID.String())
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "fails", results.Failures[0].TestID.String())
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Equal(t, "deliberate failure", results.Failures[0].Errors[0].Error())
}

func TestFailNowStopsTestButNotSuite(t *testing.T) {
	reachedAfterFailNow := false
	ranNextTest := false
	results := Run(nil, nil, func(s *T) {
		s.Run("stops early", func(s *T) {
			s.Errorf("bad state")
			s.FailNow()
			reachedAfterFailNow = true
		})
		s.Run("still runs", func(s *T) {
			ranNextTest = true
		})
	})

	assert.False(t, reachedAfterFailNow)
	assert.True(t, ranNextTest)
	assert.Len(t, results.Failures, 1)
}

func TestUnexpectedPanicBecomesFailure(t *testing.T) {
	results := Run(nil, nil, func(s *T) {
		s.Run("panics", func(s *T) {
			panic(errors.New("boom"))
		})
	})

	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "boom")
}

func TestSkipDoesNotFail(t *testing.T) {
	results := Run(nil, nil, func(s *T) {
		s.Run("skipped", func(s *T) {
			s.SkipWithReason("not applicable")
			s.Errorf("should never get here")
		})
	})

	assert.True(t, results.OK())
	require.Len(t, results.Tests, 1)
	assert.True(t, results.Tests[0].Skipped)
}

func TestDeferRunsInReverseOrderOnAnyOutcome(t *testing.T) {
	var order []string
	_ = Run(nil, nil, func(s *T) {
		s.Run("failing test with cleanups", func(s *T) {
			s.Defer(func() { order = append(order, "first") })
			s.Defer(func() { order = append(order, "second") })
			s.Errorf("fail")
			s.FailNow()
		})
	})

	assert.Equal(t, []string{"second", "first"}, order)
}

func TestFilterExcludesTests(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustMatch.Set("^keep"))

	ranKept := false
	ranExcluded := false
	results := Run(filters.AsFilter, nil, func(s *T) {
		s.Run("keep this one", func(s *T) { ranKept = true })
		s.Run("drop this one", func(s *T) { ranExcluded = true })
	})

	assert.True(t, ranKept)
	assert.False(t, ranExcluded)
	assert.True(t, results.OK())
}
