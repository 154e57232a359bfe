package framework

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const appProbeInterval = time.Millisecond * 250
const appProbeRequestTimeout = time.Second * 5

// TestHarness describes the application under test once it has been found to be reachable.
type TestHarness struct {
	appBaseURL string
	appInfo    AppInfo
}

// AppInfo is what the harness learned about the application from its first successful
// response.
type AppInfo struct {
	StatusCode int
	Server     string
}

// NewTestHarness creates a TestHarness instance, and verifies that the application is
// responding by querying its base URL until it returns something other than a server error
// or the timeout expires. Progress is written to startupOutput.
func NewTestHarness(
	appBaseURL string,
	statusQueryTimeout time.Duration,
	debugLogger Logger,
	startupOutput io.Writer,
) (*TestHarness, error) {
	if debugLogger == nil {
		debugLogger = NullLogger()
	}
	if startupOutput == nil {
		startupOutput = io.Discard
	}
	u, err := url.Parse(appBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid application URL %q: %w", appBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid application URL %q: scheme must be http or https", appBaseURL)
	}

	info, err := awaitApplication(appBaseURL, statusQueryTimeout, debugLogger, startupOutput)
	if err != nil {
		return nil, err
	}
	return &TestHarness{appBaseURL: appBaseURL, appInfo: info}, nil
}

func (h *TestHarness) AppBaseURL() string {
	return h.appBaseURL
}

func (h *TestHarness) AppInfo() AppInfo {
	return h.appInfo
}

func awaitApplication(appURL string, timeout time.Duration, logger Logger, output io.Writer) (AppInfo, error) {
	fmt.Fprintf(output, "Connecting to application at %s", appURL)

	client := &http.Client{Timeout: appProbeRequestTimeout}
	deadline := time.Now().Add(timeout)
	var lastErr error
	for {
		fmt.Fprintf(output, ".")
		resp, err := client.Get(appURL)
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode < 500 {
				fmt.Fprintln(output)
				logger.Printf("Application responded with status %d", resp.StatusCode)
				return AppInfo{StatusCode: resp.StatusCode, Server: resp.Header.Get("Server")}, nil
			}
			lastErr = fmt.Errorf("application returned status code %d", resp.StatusCode)
		} else {
			lastErr = err
		}
		if !time.Now().Before(deadline) {
			fmt.Fprintln(output)
			return AppInfo{}, fmt.Errorf("timed out waiting for application, result of last query was: %w", lastErr)
		}
		time.Sleep(appProbeInterval)
	}
}
