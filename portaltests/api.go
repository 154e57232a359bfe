package portaltests

import (
	"fmt"

	"github.com/qportal/e2e-tests/artifacts"
	"github.com/qportal/e2e-tests/config"
	"github.com/qportal/e2e-tests/eventlog"
	"github.com/qportal/e2e-tests/framework"

	"github.com/stretchr/testify/require"
)

// Environment is what the scenarios need from the rest of the harness.
type Environment struct {
	Config   *config.Config
	Log      *eventlog.Logger
	Capturer *artifacts.Capturer
	// OpenPage starts a new browser page. It is called once for every top-level test.
	OpenPage func() (Page, error)
}

// T represents a test or subtest in the portal test suite.
//
// Like Go's testing.T, it can be passed to the assert and require packages. The methods that
// interact with the page fail the test and exit immediately if the page does not reach the
// expected state in time, so scenarios read as a plain sequence of steps.
//
// A top-level T owns a browser page, which its subtests share. If any of them fails, the
// artifact capturer saves a screenshot of that page before the failure is reported.
type T struct {
	context *framework.Context
	env     *Environment
	page    Page
}

func newTestScope(context *framework.Context, env *Environment) *T {
	return &T{context: context, env: env}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. A subtest of the root scope gets a new page, which is closed after the
// subtest's result has been reported; deeper subtests use their parent's page.
func (t *T) Run(name string, action func(*T)) {
	var opened Page
	t.context.Run(name, func(c *framework.Context) {
		t1 := &T{context: c, env: t.env, page: t.page}
		if t1.page == nil {
			p, err := t.env.OpenPage()
			require.NoError(t1, err, "cannot open browser page")
			opened, t1.page = p, p
		}
		c.OnFailure(t.env.Capturer.Hook(t1.page))
		action(t1)
	})
	if opened != nil {
		if err := opened.Close(); err != nil {
			t.env.Log.Printf("Could not close browser page of %q: %s", name, err)
		}
	}
}

// Debug logs some debug output for the test. The output is passed to the test logger at the
// end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Step records what the scenario is about to do, in the event log and the debug output.
func (t *T) Step(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	t.env.Log.Log(message)
	t.context.Debug("%s", message)
}

// Snapshot writes the current markup of the page to the event log.
func (t *T) Snapshot(label string) {
	content, err := t.page.Content()
	require.NoError(t, err, "cannot read page content")
	t.env.Log.LogRawSnapshot(label, content)
}

func (t *T) Config() *config.Config {
	return t.env.Config
}

func (t *T) Navigate(url string) {
	require.NoError(t, t.page.Navigate(url), "cannot navigate to %s", url)
}

func (t *T) Reload() {
	require.NoError(t, t.page.Reload(), "cannot reload page")
}

func (t *T) Click(sel string) {
	require.NoError(t, t.page.Click(sel), "cannot click %s", sel)
}

func (t *T) Fill(sel, value string) {
	require.NoError(t, t.page.Fill(sel, value), "cannot fill %s", sel)
}

func (t *T) Press(sel, key string) {
	require.NoError(t, t.page.Press(sel, key), "cannot press %q in %s", key, sel)
}

func (t *T) SetInputFiles(sel string, files ...string) {
	require.NoError(t, t.page.SetInputFiles(sel, files...), "cannot select files for %s", sel)
}

// Attribute returns the value of an attribute, or "" if the element does not have it.
func (t *T) Attribute(sel, name string) string {
	value, _, err := t.page.Attribute(sel, name)
	require.NoError(t, err, "cannot read attribute %q of %s", name, sel)
	return value
}

func (t *T) Text(sel string) string {
	text, err := t.page.Text(sel)
	require.NoError(t, err, "cannot read text of %s", sel)
	return text
}

func (t *T) Count(sel string) int {
	n, err := t.page.Count(sel)
	require.NoError(t, err, "cannot count %s", sel)
	return n
}

// AwaitVisible waits, as long as any page action may take, for an element to be visible.
func (t *T) AwaitVisible(sel string) {
	err := t.page.WaitVisible(sel, t.env.Config.ActionTimeout())
	require.NoError(t, err, "timed out waiting for %s to be visible", sel)
}

// AwaitHidden waits, as long as any page action may take, for an element to be hidden.
func (t *T) AwaitHidden(sel string) {
	err := t.page.WaitHidden(sel, t.env.Config.ActionTimeout())
	require.NoError(t, err, "timed out waiting for %s to be hidden", sel)
}

// AwaitFunction waits for a JavaScript predicate to hold, for at most the expectation timeout.
func (t *T) AwaitFunction(fn string, args ...interface{}) {
	err := t.page.WaitFunction(fn, t.env.Config.ExpectTimeout(), args...)
	require.NoError(t, err, "timed out waiting for %s", fn)
}

func (t *T) ExpectVisible(sel string) {
	err := t.page.WaitVisible(sel, t.env.Config.ExpectTimeout())
	require.NoError(t, err, "expected %s to be visible", sel)
}

func (t *T) ExpectHidden(sel string) {
	err := t.page.WaitHidden(sel, t.env.Config.ExpectTimeout())
	require.NoError(t, err, "expected %s to be hidden", sel)
}

func (t *T) ExpectValue(sel, want string) {
	err := t.page.ExpectValue(sel, want, t.env.Config.ExpectTimeout())
	require.NoError(t, err, "expected %s to have value %q", sel, want)
}

func (t *T) ExpectAttribute(sel, name, want string) {
	err := t.page.ExpectAttribute(sel, name, want, t.env.Config.ExpectTimeout())
	require.NoError(t, err, "expected %s to have %s=%q", sel, name, want)
}

// ExpectNoClass checks, without waiting, that an element does not have a CSS class.
func (t *T) ExpectNoClass(sel, class string) {
	require.NotContains(t, classList(t.Attribute(sel, "class")), class, "%s has class %q", sel, class)
}
