package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/qportal/e2e-tests/artifacts"
	"github.com/qportal/e2e-tests/browser"
	"github.com/qportal/e2e-tests/config"
	"github.com/qportal/e2e-tests/eventlog"
	"github.com/qportal/e2e-tests/framework"
	"github.com/qportal/e2e-tests/portaltests"
	"github.com/qportal/e2e-tests/report"
)

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}
	os.Exit(run(params))
}

func run(params commandParams) int {
	cfg, err := config.LoadAndApply(params.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %s\n", err)
		return 1
	}
	params.applyOverrides(cfg)

	eventLog, err := eventlog.New(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open event log: %s\n", err)
		return 1
	}
	defer eventLog.Close()
	fmt.Printf("Writing event log to %s\n", eventLog.Path())

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	harness, err := framework.NewTestHarness(cfg.AppURL, params.appTimeout, mainDebugLogger, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %s\n", err)
		return 1
	}
	appInfo := harness.AppInfo()
	eventLog.Printf("Application at %s responded with status %d (server %q)",
		harness.AppBaseURL(), appInfo.StatusCode, appInfo.Server)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := portaltests.Environment{
		Config:   cfg,
		Log:      eventLog,
		Capturer: artifacts.NewCapturer(cfg.ResultsDir, framework.MultiLogger(eventLog, log.New(os.Stdout, "", 0))),
		OpenPage: func() (portaltests.Page, error) {
			s, err := browser.NewSession(ctx, browser.Options{
				Headless:       cfg.Headless,
				SlowMo:         cfg.SlowMo(),
				ViewportWidth:  cfg.ViewportWidth,
				ViewportHeight: cfg.ViewportHeight,
				ActionTimeout:  cfg.ActionTimeout(),
				VideoDir:       cfg.VideoDir(),
			})
			if err != nil {
				return nil, err
			}
			return s, nil
		},
	}
	reporter := report.NewReporter(cfg.ReportPath())

	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, params.filters)

	fmt.Println("Running test suite")

	testLogger := &ConsoleTestLogger{
		Out:                  os.Stdout,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := portaltests.RunTestSuite(env, params.filters.AsFilter, framework.TestLoggers{testLogger, reporter})

	status := 0
	if path, err := reporter.WriteReport(); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot write report: %s\n", err)
		status = 1
	} else {
		fmt.Printf("Report written to %s\n", path)
	}

	fmt.Println()
	framework.PrintResults(os.Stdout, results)
	if !results.OK() {
		fmt.Println()
		fmt.Println("To run the failed tests again:")
		for _, cmd := range params.rerunCommands(os.Args[0], results) {
			fmt.Printf("  %s\n", cmd)
		}
		status = 1
	}
	return status
}
