// Package portaltests contains the end-to-end scenarios for the portal, and the T type that
// they are written against.
//
// Every top-level scenario gets its own browser page. If a test fails, a screenshot of that
// page and the path of its video are attached to the test result before it is reported.
// Each step is written to the event log, so the log file tells the story of a run even when
// nothing failed.
package portaltests
