// Package haltest is a test runner framework for HAL conformance suites. It provides a
// test scope type (T) resembling Go's testing.T, regex-based test filtering, capability
// gating with skip-not-fail semantics, and pluggable result logging.
//
// It deliberately does not use Go's own test runner, because the conformance suite is a
// standalone command whose test selection and reporting are controlled by command-line
// parameters rather than by "go test".
package haltest
