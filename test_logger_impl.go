package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/qportal/e2e-tests/framework"

	"github.com/fatih/color"
)

type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	fmt.Fprintf(c.Out, "[%s]\n", id)
}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(c.Out, "  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(result framework.TestResult, debugOutput framework.CapturedOutput) {
	failed := result.Status() == framework.StatusFailed
	if failed {
		fmt.Fprintln(c.Out, color.RedString("  FAILED: %s", result.TestID))
		kinds := make([]string, 0, len(result.Artifacts))
		for kind := range result.Artifacts {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			fmt.Fprintf(c.Out, "    %s: %s\n", kind, result.Artifacts[kind])
		}
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.Out, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	if reason == "" {
		fmt.Fprintln(c.Out, color.YellowString("  SKIPPED: %s", id))
	} else {
		fmt.Fprintln(c.Out, color.YellowString("  SKIPPED: %s (%s)", id, reason))
	}
}
