package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context is the low-level state of a running test. Domain-specific test APIs wrap it and
// delegate Errorf/FailNow to it, so that testify assertions work as they do with *testing.T.
type Context struct {
	env          *environment
	id           TestID
	debugLogger  CapturingLogger
	failed       bool
	skipped      bool
	skipReason   string
	errors       []error
	artifacts    map[string]string
	failureHooks []func(*Context)
}

// Run executes a root test action. Tests are defined by calling Context.Run from within
// the action; the root itself is only recorded if it fails outside of any test.
func Run(
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	if c.failed {
		result := c.result()
		result.TestID = suiteTestID
		env.results.Tests = append(env.results.Tests, result)
		env.results.Failures = append(env.results.Failures, result)
		testLogger.TestStarted(result.TestID)
		testLogger.TestFinished(result, c.debugLogger.Output())
	}
	return env.results
}

// suiteTestID identifies failures of the root action that happened outside of any test.
var suiteTestID = TestID{Path: []string{"(suite)"}}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			if c.skipped && r == c {
				return
			}
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				if len(c.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.testLogger.TestError(c.id, addError)
			}
		}
	}()

	action(c)
}

func (c *Context) result() TestResult {
	return TestResult{
		TestID:     c.id,
		Errors:     c.errors,
		Skipped:    c.skipped && !c.failed,
		SkipReason: c.skipReason,
		Artifacts:  c.artifacts,
	}
}

func (c *Context) ID() TestID {
	return c.id
}

// Run runs a subtest. The subtest's result is recorded, and passed to the test logger,
// only after any failure hooks it registered have run.
func (c *Context) Run(name string, action func(*Context)) {
	id := TestID{Path: append(append([]string(nil), c.id.Path...), name)}

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.results.Tests = append(c.env.results.Tests,
			TestResult{TestID: id, Skipped: true, SkipReason: skippedByFilter})
		c.env.testLogger.TestSkipped(id, skippedByFilter)
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	if c1.failed {
		c1.runFailureHooks()
	}

	result := c1.result()
	c.env.results.Tests = append(c.env.results.Tests, result)
	if c1.failed {
		c.env.results.Failures = append(c.env.results.Failures, result)
	}
	if result.Skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(result, c1.debugLogger.Output())
	}
}

const skippedByFilter = "excluded by filter parameters"

func (c *Context) runFailureHooks() {
	for _, hook := range c.failureHooks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.Debug("failure hook panicked: %+v", r)
				}
			}()
			hook(c)
		}()
	}
}

// OnFailure registers a function to be called if this test fails. Hooks run after the test
// action has returned, before the result is reported. They must not report errors; a hook
// that panics is logged to the debug output and otherwise ignored.
func (c *Context) OnFailure(hook func(*Context)) {
	c.failureHooks = append(c.failureHooks, hook)
}

// AddArtifact associates a file produced for this test, such as a screenshot, with its result.
func (c *Context) AddArtifact(kind, path string) {
	if c.artifacts == nil {
		c.artifacts = make(map[string]string)
	}
	c.artifacts[kind] = path
}

func (c *Context) Failed() bool {
	return c.failed
}

func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := reformatError(fmt.Errorf(format, args...))
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

func (c *Context) FailNow() {
	panic(c)
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

// reformatError strips the stack trace that testify adds to assertion failures, since it
// only points into the test API and not at the failing step.
func reformatError(err error) error {
	message := err.Error()
	if !strings.Contains(message, "Error Trace:") {
		return err
	}
	var kept []string
	inTrace := false
	for _, line := range strings.Split(message, "\n") {
		label, content, found := strings.Cut(strings.TrimPrefix(line, "\t"), "\t")
		label = strings.TrimSpace(label)
		content = strings.TrimSpace(content)
		if found && label == "" {
			if !inTrace && content != "" {
				kept = append(kept, content)
			}
			continue
		}
		inTrace = label == "Error Trace:"
		switch {
		case inTrace || strings.TrimSpace(line) == "":
		case found:
			kept = append(kept, label+" "+content)
		default:
			kept = append(kept, strings.TrimSpace(line))
		}
	}
	return errors.New(strings.Join(kept, "\n"))
}
