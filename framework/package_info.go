// Package framework contains the low-level implementation of test harness infrastructure
// that can be reused for different kinds of end-to-end tests.
//
// The general model is:
//
// 1. The test harness talks to an application under test, which must answer on its base URL
// before any tests are run.
//
// 2. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results. A test can register failure hooks that run after it has failed,
// for instance to capture diagnostics while the browser is still open.
//
// 3. Test loggers observe the lifecycle of every test. The console output and the JSON
// report are both test loggers.
//
// The domain-specific code that knows what is being tested provides a test API on top of
// the test context, and owns whatever resources (such as a browser page) each test needs.
package framework
