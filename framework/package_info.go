// Package framework provides a simple mechanism for running a test suite
// outside of the Go test runner, with debug log capturing, regex-based test
// filtering, and console reporting. It contains no logic specific to the
// blog API; the domain-level test logic builds on top of it.
package framework
