package portaltests

import (
	"github.com/qportal/e2e-tests/framework"
)

// RunTestSuite runs all scenarios in order. The users created by "authentication and
// authorization" are the ones that "profile editing" logs in as.
func RunTestSuite(
	env Environment,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := newTestScope(c, &env)

		t.Run("login validation", DoLoginValidationTests)
		t.Run("authentication and authorization", DoAuthenticationAndAuthorizationTests)
		t.Run("profile editing", DoProfileEditingTests)
	})
}
