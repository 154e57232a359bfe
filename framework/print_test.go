package framework

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPrintResults(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	failed := TestResult{
		TestID:    TestID{Path: []string{"login validation"}},
		Errors:    []error{errors.New("expected\nsomething else")},
		Artifacts: map[string]string{"video": "v.mjpeg", "screenshot": "s.png"},
	}
	results := Results{
		Tests: []TestResult{
			{TestID: TestID{Path: []string{"a"}}},
			failed,
			{TestID: TestID{Path: []string{"b"}}, Skipped: true},
		},
		Failures: []TestResult{failed},
	}

	var buf bytes.Buffer
	PrintResults(&buf, results)
	assert.Equal(t, "Ran 3 tests: 1 passed, 1 failed, 1 skipped\n"+
		"FAILED TESTS:\n"+
		"  * login validation\n"+
		"      expected\n"+
		"      something else\n"+
		"      screenshot: s.png\n"+
		"      video: v.mjpeg\n",
		buf.String())

	buf.Reset()
	PrintResults(&buf, Results{Tests: []TestResult{{TestID: TestID{Path: []string{"a"}}}}})
	assert.Equal(t, "Ran 1 tests: 1 passed, 0 failed, 0 skipped\nAll tests passed\n", buf.String())
}
