package portaltests

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/qportal/e2e-tests/artifacts"
	"github.com/qportal/e2e-tests/config"
	"github.com/qportal/e2e-tests/eventlog"
	"github.com/qportal/e2e-tests/framework"

	"github.com/stretchr/testify/require"
)

// fakePage records every call as "<method> <selector>" and answers from its maps. A call
// fails if errs has an entry for its key.
type fakePage struct {
	calls      []string
	errs       map[string]error
	attributes map[string]string
	texts      map[string]string
	counts     map[string]int
	content    string
	video      string
	closed     bool
}

func newFakePage() *fakePage {
	return &fakePage{
		errs:       make(map[string]error),
		attributes: make(map[string]string),
		texts:      make(map[string]string),
		counts:     make(map[string]int),
		content:    "<html><body>portal</body></html>",
		video:      "test-results/videos/1f2e.mjpeg",
	}
}

func (p *fakePage) call(method, sel string) error {
	key := method + " " + sel
	p.calls = append(p.calls, key)
	return p.errs[key]
}

func (p *fakePage) Screenshot() ([]byte, error) {
	return []byte("\x89PNG screenshot"), p.call("Screenshot", "")
}

func (p *fakePage) VideoPath() (string, error) {
	if p.video == "" {
		return "", errors.New("no video")
	}
	return p.video, nil
}

func (p *fakePage) Navigate(url string) error { return p.call("Navigate", url) }
func (p *fakePage) Reload() error             { return p.call("Reload", "") }
func (p *fakePage) Click(sel string) error    { return p.call("Click", sel) }

func (p *fakePage) Fill(sel, value string) error { return p.call("Fill", sel) }
func (p *fakePage) Press(sel, key string) error  { return p.call("Press", sel) }

func (p *fakePage) SetInputFiles(sel string, files ...string) error {
	return p.call("SetInputFiles", sel)
}

func (p *fakePage) Attribute(sel, name string) (string, bool, error) {
	value, ok := p.attributes[sel+" "+name]
	return value, ok, p.call("Attribute", sel)
}

func (p *fakePage) Text(sel string) (string, error) {
	return p.texts[sel], p.call("Text", sel)
}

func (p *fakePage) Count(sel string) (int, error) {
	return p.counts[sel], p.call("Count", sel)
}

func (p *fakePage) Content() (string, error) {
	return p.content, p.call("Content", "")
}

func (p *fakePage) WaitVisible(sel string, timeout time.Duration) error {
	return p.call("WaitVisible", sel)
}

func (p *fakePage) WaitHidden(sel string, timeout time.Duration) error {
	return p.call("WaitHidden", sel)
}

func (p *fakePage) WaitFunction(fn string, timeout time.Duration, args ...interface{}) error {
	return p.call("WaitFunction", fn)
}

func (p *fakePage) ExpectValue(sel, want string, timeout time.Duration) error {
	return p.call("ExpectValue", sel)
}

func (p *fakePage) ExpectAttribute(sel, name, want string, timeout time.Duration) error {
	return p.call("ExpectAttribute", sel)
}

func (p *fakePage) Close() error {
	p.closed = true
	return nil
}

type testEnvironment struct {
	env        *Environment
	resultsDir string
	logPath    string
	opened     int
}

// newTestEnvironment returns an environment whose OpenPage hands out the pages in order.
func newTestEnvironment(t *testing.T, pages ...*fakePage) *testEnvironment {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "e2e-log.txt")
	log, err := eventlog.New(logPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Close() })

	te := &testEnvironment{resultsDir: dir, logPath: logPath}
	te.env = &Environment{
		Config: &config.Config{
			AppURL:          "https://x.test",
			User:            "a@x.test",
			Password:        "p",
			UniqueContext:   "ctx1",
			ResultsDir:      dir,
			ActionTimeoutMS: 1000,
			ExpectTimeoutMS: 100,
		},
		Log:      log,
		Capturer: artifacts.NewCapturer(dir, log),
		OpenPage: func() (Page, error) {
			if te.opened >= len(pages) {
				return nil, errors.New("no more pages")
			}
			p := pages[te.opened]
			te.opened++
			return p, nil
		},
	}
	return te
}

// run runs action as a top-level test named "scenario".
func (te *testEnvironment) run(testLogger framework.TestLogger, action func(*T)) framework.Results {
	return framework.Run(nil, testLogger, func(c *framework.Context) {
		newTestScope(c, te.env).Run("scenario", action)
	})
}
