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

// Context is the framework's equivalent of *testing.T. A domain-specific test API wraps it.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	errored     bool
	skipped     bool
	skipReason  string
	hasSubtests bool
	errors      []error
}

func Run(
	filter func(TestID) bool,
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
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			var addError error
			if _, ok := r.(*Context); ok {
				if !c.skipped && len(c.errors) == 0 {
					c.failed = true
					addError = errors.New("test failed with no failure message")
				}
			} else {
				c.errored = true
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.testLogger.TestError(c.id, addError)
			}
		}
		c.record()
	}()

	action(c)
}

// record adds this test to the results. Groups of subtests, including the root, are only
// counted if something went wrong in the group itself.
func (c *Context) record() {
	broken := c.failed || c.errored
	if (len(c.id.Path) == 0 || c.hasSubtests) && !broken {
		return
	}
	result := TestResult{TestID: c.id, Errors: c.errors}
	if c.skipped && !broken {
		result.Skipped = true
		result.SkipReason = c.skipReason
	}
	results := &c.env.results
	results.Tests = append(results.Tests, result)
	switch {
	case c.errored:
		results.Errors = append(results.Errors, result)
	case c.failed:
		results.Failures = append(results.Failures, result)
	case result.Skipped:
		results.Skipped = append(results.Skipped, result)
	}
}

func (c *Context) ID() TestID {
	return c.id
}

// Run runs a subtest, unless the filter excludes it.
func (c *Context) Run(name string, action func(*Context)) {
	c.runChild(name, true, action)
}

// Group runs a set of subtests. The filter is applied to each subtest rather than to the group,
// so a pattern that names one test inside the group still reaches it.
func (c *Context) Group(name string, action func(*Context)) {
	c.runChild(name, false, action)
}

func (c *Context) runChild(name string, filtered bool, action func(*Context)) {
	id := TestID{Path: append(append([]string(nil), c.id.Path...), name)}
	c.hasSubtests = true

	c.env.testLogger.TestStarted(id)
	if filtered && c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	if c1.skipped && !c1.failed && !c1.errored {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(id, c1.failed || c1.errored, c1.debugLogger.Output())
	}
}

func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, reformatError(err))
}

func (c *Context) FailNow() {
	panic(c)
}

// ErrorNow records an unexpected error, as opposed to an assertion failure, and exits the test.
func (c *Context) ErrorNow(err error) {
	c.errored = true
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
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

// reformatError drops the "Error Trace" section that testify adds to assertion messages, since
// the stack locations inside the harness are not useful to someone reading test output.
func reformatError(err error) error {
	var kept []string
	inTrace := false
	for _, line := range strings.Split(err.Error(), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "Error Trace:") {
			inTrace = true
			continue
		}
		if inTrace {
			if !strings.HasPrefix(trimmed, "Error:") {
				continue
			}
			inTrace = false
		}
		if trimmed == "" {
			continue
		}
		kept = append(kept, strings.TrimRight(line, " \t"))
	}
	if len(kept) == 0 {
		return err
	}
	return errors.New(strings.Join(kept, "\n"))
}

// TestLogger receives progress notifications while tests run.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, failed bool, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (nullTestLogger) TestStarted(TestID)                        {}
func (nullTestLogger) TestError(TestID, error)                   {}
func (nullTestLogger) TestFinished(TestID, bool, CapturedOutput) {}
func (nullTestLogger) TestSkipped(TestID, string)                {}
