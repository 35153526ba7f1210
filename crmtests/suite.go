// Package crmtests contains the CRM contract tests themselves and their supporting API.
//
// Test harness infrastructure that is not specific to the CRM domain, such as the test context
// and result reporting, is in the lower-level framework package.
package crmtests

import (
	"context"

	"github.com/claimconnectors/crm-contract-tests/crmapi"
	"github.com/claimconnectors/crm-contract-tests/framework"
)

// RunTestSuite runs every contract test against the backend. Services missing from the backend
// are replaced by not-implemented stand-ins, so their tests are skipped.
func RunTestSuite(
	ctx context.Context,
	backend crmapi.Backend,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	backend = backend.WithDefaults()
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := newTestScope(ctx, c, backend)

		t.Group("leads", DoLeadTests)
		t.Group("documents", DoDocumentTests)
		t.Group("call integration", DoCallIntegrationTests)
	})
}
