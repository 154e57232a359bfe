// Package browser runs a Chrome instance through chromedp for one test at a time. Every
// session records a screencast from the moment it opens, so that a video is available if
// the test fails.
package browser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

// Keys that can be passed to Press.
const (
	KeyTab   = kb.Tab
	KeyEnter = kb.Enter
)

const (
	defaultActionTimeout = 30 * time.Second
	stopRecordingTimeout = 5 * time.Second
)

var errNotRecording = errors.New("no video is being recorded for this session")

// Options controls how the browser is launched.
type Options struct {
	// Headless runs Chrome without a window.
	Headless bool
	// SlowMo is a delay before every page action, so a person can follow along.
	SlowMo         time.Duration
	ViewportWidth  int
	ViewportHeight int
	// ActionTimeout bounds every action that does not take its own timeout.
	ActionTimeout time.Duration
	// VideoDir is where the screencast is written. No video is recorded if it is empty.
	VideoDir string
	// ExecPath overrides the Chrome binary that chromedp would find on its own.
	ExecPath string
}

// Session is one browser with one page.
type Session struct {
	ctx       context.Context
	cancel    context.CancelFunc
	opts      Options
	recorder  *recorder
	closeOnce sync.Once
}

// NewSession launches a browser and opens a page with the configured viewport. The browser
// is closed when Close is called or parent is cancelled.
func NewSession(parent context.Context, opts Options) (*Session, error) {
	if opts.ActionTimeout <= 0 {
		opts.ActionTimeout = defaultActionTimeout
	}
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.WindowSize(opts.ViewportWidth, opts.ViewportHeight),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, allocOpts...)
	ctx, cancelBrowser := chromedp.NewContext(allocCtx)
	s := &Session{
		ctx:  ctx,
		opts: opts,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
	}

	if err := chromedp.Run(ctx,
		chromedp.EmulateViewport(int64(opts.ViewportWidth), int64(opts.ViewportHeight)),
	); err != nil {
		s.cancel()
		return nil, fmt.Errorf("cannot start browser: %w", err)
	}
	if opts.VideoDir != "" {
		r, err := startRecording(ctx, opts.VideoDir, opts.ViewportWidth, opts.ViewportHeight)
		if err != nil {
			s.cancel()
			return nil, fmt.Errorf("cannot start video recording: %w", err)
		}
		s.recorder = r
	}
	return s, nil
}

// Close stops the recording and the browser. It is safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.recorder != nil {
			ctx, cancel := context.WithTimeout(s.ctx, stopRecordingTimeout)
			err = s.recorder.stop(ctx)
			cancel()
		}
		s.cancel()
	})
	return err
}

// VideoPath returns the file that the screencast of this session is written to.
func (s *Session) VideoPath() (string, error) {
	if s.recorder == nil {
		return "", errNotRecording
	}
	return s.recorder.path, nil
}

// Screenshot captures the visible part of the page as PNG. It is not slowed down by SlowMo.
func (s *Session) Screenshot() ([]byte, error) {
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.ActionTimeout)
	defer cancel()
	var buf []byte
	if err := chromedp.Run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *Session) run(timeout time.Duration, actions ...chromedp.Action) error {
	if s.opts.SlowMo > 0 {
		actions = append([]chromedp.Action{chromedp.Sleep(s.opts.SlowMo)}, actions...)
	}
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

func (s *Session) Navigate(url string) error {
	return s.run(s.opts.ActionTimeout, chromedp.Navigate(url))
}

func (s *Session) Reload() error {
	return s.run(s.opts.ActionTimeout, chromedp.Reload())
}

// Click waits for the element to be visible and clicks it.
func (s *Session) Click(sel string) error {
	return s.run(s.opts.ActionTimeout, chromedp.Click(sel, by(sel), chromedp.NodeVisible))
}

// Fill replaces the value of an input by typing into it, so that the page sees the same
// input events as it would from a user.
func (s *Session) Fill(sel, value string) error {
	return s.run(s.opts.ActionTimeout,
		chromedp.WaitVisible(sel, by(sel)),
		chromedp.SetValue(sel, "", by(sel)),
		chromedp.SendKeys(sel, value, by(sel)),
	)
}

// Press sends a single key, such as KeyTab, to the element.
func (s *Session) Press(sel, key string) error {
	return s.run(s.opts.ActionTimeout, chromedp.SendKeys(sel, key, by(sel)))
}

// Attribute returns the value of an attribute and whether the element has it at all.
func (s *Session) Attribute(sel, name string) (string, bool, error) {
	var value string
	var ok bool
	err := s.run(s.opts.ActionTimeout, chromedp.AttributeValue(sel, name, &value, &ok, by(sel)))
	return value, ok, err
}

func (s *Session) Text(sel string) (string, error) {
	var text string
	err := s.run(s.opts.ActionTimeout, chromedp.Text(sel, &text, by(sel)))
	return text, err
}

// Count returns how many elements currently match, without waiting for any to appear.
func (s *Session) Count(sel string) (int, error) {
	var nodes []*cdp.Node
	err := s.run(s.opts.ActionTimeout, chromedp.Nodes(sel, &nodes, byAll(sel), chromedp.AtLeast(0)))
	return len(nodes), err
}

// Content returns the markup of the whole document.
func (s *Session) Content() (string, error) {
	var html string
	err := s.run(s.opts.ActionTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

// SetInputFiles selects files for a file input. Relative paths are resolved against the
// working directory.
func (s *Session) SetInputFiles(sel string, files ...string) error {
	abs := make([]string, 0, len(files))
	for _, f := range files {
		p, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		abs = append(abs, p)
	}
	return s.run(s.opts.ActionTimeout, chromedp.SetUploadFiles(sel, abs, by(sel)))
}

func (s *Session) WaitVisible(sel string, timeout time.Duration) error {
	return s.run(timeout, chromedp.WaitVisible(sel, by(sel)))
}

// WaitHidden waits until the element is either not in the document or not rendered.
func (s *Session) WaitHidden(sel string, timeout time.Duration) error {
	return s.poll(hiddenPredicate, timeout, sel, isXPath(sel))
}

// WaitFunction waits until a JavaScript function, called with args, returns a truthy value.
func (s *Session) WaitFunction(fn string, timeout time.Duration, args ...interface{}) error {
	return s.poll(fn, timeout, args...)
}

// ExpectValue waits until an input's value equals want.
func (s *Session) ExpectValue(sel, want string, timeout time.Duration) error {
	return s.poll(valuePredicate, timeout, sel, isXPath(sel), want)
}

// ExpectAttribute waits until an element has the attribute with the value want.
func (s *Session) ExpectAttribute(sel, name, want string, timeout time.Duration) error {
	return s.poll(attributePredicate, timeout, sel, isXPath(sel), name, want)
}

func (s *Session) poll(fn string, timeout time.Duration, args ...interface{}) error {
	var res interface{}
	err := s.run(timeout+s.opts.SlowMo+time.Second, chromedp.PollFunction(fn, &res,
		chromedp.WithPollingArgs(args...),
		chromedp.WithPollingInterval(100*time.Millisecond),
		chromedp.WithPollingTimeout(timeout),
	))
	if errors.Is(err, chromedp.ErrPollingTimeout) {
		return fmt.Errorf("condition not met within %s", timeout)
	}
	return err
}

// isXPath tells XPath expressions apart from CSS selectors.
func isXPath(sel string) bool {
	return strings.HasPrefix(sel, "/") || strings.HasPrefix(sel, "(")
}

func by(sel string) chromedp.QueryOption {
	if isXPath(sel) {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

func byAll(sel string) chromedp.QueryOption {
	if isXPath(sel) {
		return chromedp.BySearch
	}
	return chromedp.ByQueryAll
}
