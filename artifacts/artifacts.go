// Package artifacts saves diagnostics for failed tests: a screenshot of the page at the
// moment of failure, and the location of the video that was being recorded.
package artifacts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/qportal/e2e-tests/framework"
)

const (
	KindScreenshot = "screenshot"
	KindVideo      = "video"
)

// Source is whatever can provide diagnostics for a test, normally its browser page.
type Source interface {
	Screenshot() ([]byte, error)
	VideoPath() (string, error)
}

// Artifact holds the paths of the files captured for one failed test. A path is empty if it
// could not be captured.
type Artifact struct {
	ScreenshotPath string
	VideoPath      string
}

// Capturer derives artifact paths from test names under a results directory.
type Capturer struct {
	resultsDir string
	logger     framework.Logger
}

// NewCapturer creates a Capturer that writes screenshots to <resultsDir>/screenshots and
// reports what it captured to logger.
func NewCapturer(resultsDir string, logger framework.Logger) *Capturer {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Capturer{resultsDir: resultsDir, logger: logger}
}

var unsafeFileNameChars = regexp.MustCompile(`[^A-Za-z0-9._ -]+`)

// FileName converts a test name to a file name, replacing path separators and other
// characters that are not safe in file names with underscores.
func FileName(testName string) string {
	name := unsafeFileNameChars.ReplaceAllString(testName, "_")
	name = strings.Trim(name, " .")
	if name == "" {
		return "_"
	}
	return name
}

// ScreenshotPath is where the screenshot for a failure of the named test is saved.
func (c *Capturer) ScreenshotPath(testName string) string {
	return filepath.Join(c.resultsDir, "screenshots", FileName(testName)+".png")
}

// Capture saves a screenshot for the named test and looks up the path of its video. It
// tries both even if one fails, and returns whatever it managed to capture along with an
// error describing what it could not.
func (c *Capturer) Capture(testName string, src Source) (Artifact, error) {
	var artifact Artifact
	var errs []error

	path := c.ScreenshotPath(testName)
	if err := c.saveScreenshot(path, src); err != nil {
		errs = append(errs, fmt.Errorf("screenshot: %w", err))
	} else {
		artifact.ScreenshotPath = path
		c.logger.Printf("Screenshot saved to %s", path)
	}

	videoPath, err := src.VideoPath()
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("video: %w", err))
	case videoPath == "":
		errs = append(errs, errors.New("video: no recording in progress"))
	default:
		artifact.VideoPath = videoPath
		c.logger.Printf("Video saved to %s", videoPath)
	}

	return artifact, errors.Join(errs...)
}

func (c *Capturer) saveScreenshot(path string, src Source) error {
	data, err := src.Screenshot()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Hook returns a failure hook that captures artifacts for the test it is registered on. The
// paths are attached to the test result. A capture failure is logged as a secondary problem
// and never replaces the test's own errors.
func (c *Capturer) Hook(src Source) func(*framework.Context) {
	return func(ctx *framework.Context) {
		name := ctx.ID().String()
		artifact, err := c.Capture(name, src)
		if artifact.ScreenshotPath != "" {
			ctx.AddArtifact(KindScreenshot, artifact.ScreenshotPath)
		}
		if artifact.VideoPath != "" {
			ctx.AddArtifact(KindVideo, artifact.VideoPath)
		}
		if err != nil {
			c.logger.Printf("Could not capture all artifacts for %q: %s", name, err)
			ctx.Debug("artifact capture failed: %s", err)
		}
	}
}
