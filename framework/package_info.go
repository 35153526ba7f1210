// Package framework contains the low-level implementation of test harness infrastructure
// that is not specific to the CRM domain.
//
// The general model is:
//
// 1. The test harness may communicate with a CRM service, which exposes a root endpoint
// for querying its status (GET), including the list of capabilities it implements, and for
// being told to shut down (DELETE).
//
// 2. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// pass/fail/error/skip results.
//
// 3. The results of a run can be printed as a colored summary and exported as Prometheus
// metrics.
//
// The domain-specific code that knows what is being tested is responsible for calling the
// service and for providing a domain-specific test API on top of the test context.
package framework
