package portaltests

import (
	"time"

	"github.com/qportal/e2e-tests/artifacts"
	"github.com/qportal/e2e-tests/browser"
)

// Page is the browser page that a scenario drives. It is implemented by *browser.Session.
type Page interface {
	artifacts.Source

	Navigate(url string) error
	Reload() error
	Click(sel string) error
	Fill(sel, value string) error
	Press(sel, key string) error
	SetInputFiles(sel string, files ...string) error

	Attribute(sel, name string) (string, bool, error)
	Text(sel string) (string, error)
	Count(sel string) (int, error)
	Content() (string, error)

	WaitVisible(sel string, timeout time.Duration) error
	WaitHidden(sel string, timeout time.Duration) error
	WaitFunction(fn string, timeout time.Duration, args ...interface{}) error
	ExpectValue(sel, want string, timeout time.Duration) error
	ExpectAttribute(sel, name, want string, timeout time.Duration) error

	Close() error
}

var _ Page = (*browser.Session)(nil)
