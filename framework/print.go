package framework

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// PrintResults writes a summary of the run: counts by status, then every failed test with
// its errors and any artifacts captured for it.
func PrintResults(out io.Writer, results Results) {
	var passed, skipped int
	for _, t := range results.Tests {
		switch t.Status() {
		case StatusPassed:
			passed++
		case StatusSkipped:
			skipped++
		}
	}
	fmt.Fprintf(out, "Ran %d tests: %d passed, %d failed, %d skipped\n",
		len(results.Tests), passed, len(results.Failures), skipped)
	if results.OK() {
		fmt.Fprintln(out, color.GreenString("All tests passed"))
		return
	}
	fmt.Fprintln(out, color.RedString("FAILED TESTS:"))
	for _, f := range results.Failures {
		fmt.Fprintf(out, "  * %s\n", f.TestID)
		for _, err := range f.Errors {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(out, "      %s\n", line)
			}
		}
		for _, kind := range sortedKeys(f.Artifacts) {
			fmt.Fprintf(out, "      %s: %s\n", kind, f.Artifacts[kind])
		}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
