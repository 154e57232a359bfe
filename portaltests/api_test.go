package portaltests

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	helpers "github.com/launchdarkly/go-test-helpers/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qportal/e2e-tests/artifacts"
	"github.com/qportal/e2e-tests/framework"
	"github.com/qportal/e2e-tests/report"
)

type debugOutputLogger struct {
	output map[string]framework.CapturedOutput
}

func (l *debugOutputLogger) TestStarted(framework.TestID)         {}
func (l *debugOutputLogger) TestError(framework.TestID, error)    {}
func (l *debugOutputLogger) TestSkipped(framework.TestID, string) {}

func (l *debugOutputLogger) TestFinished(result framework.TestResult, debugOutput framework.CapturedOutput) {
	if l.output == nil {
		l.output = make(map[string]framework.CapturedOutput)
	}
	l.output[result.TestID.String()] = debugOutput
}

func readLog(t *testing.T, path string) string {
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestStepWritesEventLogAndDebugOutput(t *testing.T) {
	te := newTestEnvironment(t, newFakePage())
	var logger debugOutputLogger

	te.run(&logger, func(t *T) {
		t.Step("Creating user: %s", "e2e@sample.com")
	})

	assert.Contains(t, readLog(t, te.logPath), " - Creating user: e2e@sample.com\n")
	require.Len(t, logger.output["scenario"], 1)
	assert.Equal(t, "Creating user: e2e@sample.com", logger.output["scenario"][0].Message)
}

func TestSnapshotWritesPageContentToEventLog(t *testing.T) {
	page := newFakePage()
	te := newTestEnvironment(t, page)

	te.run(nil, func(t *T) {
		t.Snapshot("Page content before roles dropdown")
	})

	assert.Contains(t, readLog(t, te.logPath),
		"\nPage content before roles dropdown:\n<html><body>portal</body></html>\n")
}

func TestEachTopLevelTestGetsItsOwnPage(t *testing.T) {
	page1, page2 := newFakePage(), newFakePage()
	te := newTestEnvironment(t, page1, page2)
	var closedBeforeParentEnded bool

	framework.Run(nil, nil, func(c *framework.Context) {
		root := newTestScope(c, te.env)
		root.Run("first", func(t *T) {
			t.Navigate("https://x.test/a")
			t.Run("nested", func(t *T) {
				t.Navigate("https://x.test/b")
			})
			closedBeforeParentEnded = page1.closed
		})
		root.Run("second", func(t *T) {
			t.Navigate("https://x.test/c")
		})
	})

	assert.Equal(t, 2, te.opened)
	assert.Equal(t, []string{"Navigate https://x.test/a", "Navigate https://x.test/b"}, page1.calls)
	assert.Equal(t, []string{"Navigate https://x.test/c"}, page2.calls)
	assert.False(t, closedBeforeParentEnded)
	assert.True(t, page1.closed)
	assert.True(t, page2.closed)
}

func TestFailedActionCapturesArtifacts(t *testing.T) {
	page := newFakePage()
	page.errs["WaitVisible "+emailInput] = errors.New("context deadline exceeded")
	te := newTestEnvironment(t, page)
	reporter := report.NewReporter(filepath.Join(te.resultsDir, "json", "report.json"))

	results := te.run(reporter, func(t *T) {
		t.ExpectVisible(emailInput)
		t.Click(button("Login"))
	})

	require.Len(t, results.Failures, 1)
	result := results.Failures[0]
	screenshot := te.env.Capturer.ScreenshotPath("scenario")
	assert.Equal(t, map[string]string{
		artifacts.KindScreenshot: screenshot,
		artifacts.KindVideo:      page.video,
	}, result.Artifacts)
	assert.True(t, helpers.FilePathExists(screenshot))
	assert.NotContains(t, page.calls, "Click "+button("Login"))
	assert.True(t, page.closed)

	records := reporter.Records()
	require.Len(t, records, 1)
	assert.Equal(t, framework.StatusFailed, records[0].Status)
	assert.Contains(t, records[0].Error.StringValue(), "expected "+emailInput+" to be visible")
	assert.Contains(t, records[0].Error.StringValue(), "context deadline exceeded")

	log := readLog(t, te.logPath)
	assert.Contains(t, log, "Screenshot saved to "+screenshot)
	assert.Contains(t, log, "Video saved to "+page.video)
}

func TestPassingTestCapturesNothing(t *testing.T) {
	page := newFakePage()
	te := newTestEnvironment(t, page)

	results := te.run(nil, func(t *T) {
		t.ExpectVisible(emailInput)
	})

	require.Len(t, results.Tests, 1)
	assert.True(t, results.OK())
	assert.Nil(t, results.Tests[0].Artifacts)
	assert.NotContains(t, page.calls, "Screenshot ")
	assert.False(t, helpers.FilePathExists(filepath.Join(te.resultsDir, "screenshots")))
}

func TestScreenshotFailureDoesNotReplaceTestFailure(t *testing.T) {
	page := newFakePage()
	page.errs["Click "+ssoCheckbox] = errors.New("node not visible")
	page.errs["Screenshot "] = errors.New("target closed")
	te := newTestEnvironment(t, page)

	results := te.run(nil, func(t *T) {
		t.Click(ssoCheckbox)
	})

	require.Len(t, results.Failures, 1)
	result := results.Failures[0]
	assert.Contains(t, result.ErrorText(), "node not visible")
	assert.NotContains(t, result.ErrorText(), "target closed")
	assert.Equal(t, map[string]string{artifacts.KindVideo: page.video}, result.Artifacts)
}

func TestOpenPageFailureFailsTestWithoutArtifacts(t *testing.T) {
	te := newTestEnvironment(t)

	results := te.run(nil, func(t *T) {
		assert.Fail(t, "should not be reached")
	})

	require.Len(t, results.Failures, 1)
	result := results.Failures[0]
	assert.Contains(t, result.ErrorText(), "cannot open browser page")
	assert.NotContains(t, result.ErrorText(), "should not be reached")
	assert.Nil(t, result.Artifacts)
}

func TestExpectNoClassPassesWithoutClass(t *testing.T) {
	page := newFakePage()
	page.attributes[ssoCheckbox+" class"] = "q-checkbox cursor-pointer"
	te := newTestEnvironment(t, page)

	results := te.run(nil, func(t *T) {
		t.ExpectNoClass(ssoCheckbox, checkedCheckboxCSS)
	})

	assert.True(t, results.OK())
}

func TestExpectNoClassStopsTest(t *testing.T) {
	page := newFakePage()
	page.attributes[ssoCheckbox+" class"] = "q-checkbox cursor-pointer q-checkbox--checked"
	te := newTestEnvironment(t, page)

	results := te.run(nil, func(t *T) {
		t.ExpectNoClass(ssoCheckbox, checkedCheckboxCSS)
		t.Click(button("Login"))
	})

	require.Len(t, results.Failures, 1)
	assert.Equal(t, 1, strings.Count(results.Failures[0].ErrorText(), "has class"))
	assert.NotContains(t, page.calls, "Click "+button("Login"))
}
