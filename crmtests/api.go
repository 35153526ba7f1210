package crmtests

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/claimconnectors/crm-contract-tests/crmapi"
	"github.com/claimconnectors/crm-contract-tests/framework"

	"github.com/oliveagle/jsonpath"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// T represents a test or subtest in the CRM contract test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is outside
// of the Go test runner, with debug logging provided by the lower-level framework package. To make
// test assertions, use the assert and require packages, passing the *T as if it were a *testing.T.
//
// It also gives access to the backend under test, and has helpers for the checks that every
// contract test makes: that the operation exists at all, that the status code is right, and that
// the JSON body has the expected shape.
type T struct {
	context *framework.Context
	ctx     context.Context
	backend crmapi.Backend
}

func newTestScope(ctx context.Context, c *framework.Context, backend crmapi.Backend) *T {
	return &T{context: c, ctx: framework.ContextWithDebugLogger(ctx, c.DebugLogger()), backend: backend}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(newTestScope(t.ctx, c, t.backend))
	})
}

// Group runs a group of subtests. Test filters apply to the subtests, not to the group name.
func (t *T) Group(name string, action func(*T)) {
	t.context.Group(name, func(c *framework.Context) {
		action(newTestScope(t.ctx, c, t.backend))
	})
}

func (t *T) ID() framework.TestID {
	return t.context.ID()
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Context is passed to every backend call. It carries this test's debug logger.
func (t *T) Context() context.Context {
	return t.ctx
}

func (t *T) Leads() crmapi.LeadService         { return t.backend.Leads }
func (t *T) Documents() crmapi.DocumentService { return t.backend.Documents }
func (t *T) Calls() crmapi.CallService         { return t.backend.Calls }

// RequireImplemented skips the test as pending if the collaborator reported that the operation
// is not implemented, either with crmapi.ErrNotImplemented or with the legacy 404 placeholder.
// Any other error ends the test as an error rather than a failure.
func (t *T) RequireImplemented(function string, resp crmapi.Response, err error) crmapi.Response {
	if errors.Is(err, crmapi.ErrNotImplemented) || (err == nil && resp.IsNotImplementedSentinel()) {
		t.context.SkipWithReason(function + " not implemented yet")
	}
	if err != nil {
		t.context.ErrorNow(fmt.Errorf("%s: %w", function, err))
	}
	t.Debug("%s returned HTTP %d: %s", function, resp.StatusCode, string(resp.Body))
	return resp
}

// RequireStatus fails the test and exits immediately if the status code is not the expected one.
func (t *T) RequireStatus(resp crmapi.Response, expected int, description string) {
	require.Equal(t, expected, resp.StatusCode, "Should return %d %s status", expected, description)
}

// RequireJSONObject parses the response body, failing the test immediately if it is not a JSON object.
func (t *T) RequireJSONObject(resp crmapi.Response) ldvalue.Value {
	require.True(t, json.Valid(resp.Body), "response body should be valid JSON, was: %q", string(resp.Body))
	body := ldvalue.Parse(resp.Body)
	require.Equal(t, ldvalue.ObjectType, body.Type(), "response body should be a JSON object, was: %s", body)
	return body
}

// AssertHasFields checks that each JSONPath expression matches something in the body.
func (t *T) AssertHasFields(body ldvalue.Value, paths ...string) {
	data := body.AsArbitraryValue()
	for _, path := range paths {
		_, err := jsonpath.JsonPathLookup(data, path)
		assert.NoError(t, err, "Response should contain %s", path)
	}
}

// AssertEchoed checks that a top-level string property of the body equals the value that was sent.
func (t *T) AssertEchoed(body ldvalue.Value, key string, expected string) {
	actual := body.GetByKey(key)
	if assert.Equal(t, ldvalue.StringType, actual.Type(), "Response should contain string property %s", key) {
		assert.Equal(t, expected, actual.StringValue(), "Response should echo %s", key)
	}
}
