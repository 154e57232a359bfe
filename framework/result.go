package framework

import (
	"strings"
)

// Status is the outcome of a single test.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID     TestID
	Errors     []error
	Skipped    bool
	SkipReason string
	Artifacts  map[string]string
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Status reports the outcome of the test. A test with errors is failed even if it later
// called Skip.
func (r TestResult) Status() Status {
	switch {
	case len(r.Errors) > 0:
		return StatusFailed
	case r.Skipped:
		return StatusSkipped
	default:
		return StatusPassed
	}
}

// ErrorText joins the messages of all errors reported by the test, one per line. It
// returns "" if the test had no errors.
func (r TestResult) ErrorText() string {
	if len(r.Errors) == 0 {
		return ""
	}
	lines := make([]string, 0, len(r.Errors))
	for _, err := range r.Errors {
		lines = append(lines, err.Error())
	}
	return strings.Join(lines, "\n")
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}
