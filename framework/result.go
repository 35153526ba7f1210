package framework

import "strings"

// Results is the outcome of a test run. Every counted test appears in Tests; tests that did not
// pass also appear in exactly one of Failures, Errors, or Skipped.
type Results struct {
	Tests    []TestResult
	Failures []TestResult
	Errors   []TestResult
	Skipped  []TestResult
}

type TestResult struct {
	TestID     TestID
	Errors     []error
	Skipped    bool
	SkipReason string
}

// OK is true if nothing failed or errored. Skipped tests do not affect it.
func (r Results) OK() bool {
	return len(r.Failures) == 0 && len(r.Errors) == 0
}

func (r Results) Total() int {
	return len(r.Tests)
}

func (r Results) Passed() int {
	return len(r.Tests) - len(r.Failures) - len(r.Errors) - len(r.Skipped)
}

// ExitCode is the process exit status for this run: the number of failures plus errors.
func (r Results) ExitCode() int {
	return len(r.Failures) + len(r.Errors)
}

// ImplementationProgress is the percentage of tests that were attempted, meaning they were not
// skipped as pending, regardless of whether they passed. The second return value is false if no
// tests were run.
func (r Results) ImplementationProgress() (float64, bool) {
	total := r.Total()
	if total == 0 {
		return 0, false
	}
	attempted := r.Passed() + len(r.Failures) + len(r.Errors)
	return float64(attempted) / float64(total) * 100, true
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}
