package portaltests

import (
	"fmt"
	"strings"

	"github.com/qportal/e2e-tests/browser"
	"github.com/qportal/e2e-tests/config"
)

const (
	RoleAllReports         = "REPORT_READ_ALL"
	RolePhysicianAllFields = "REPORT_READ_PHYSICIAN-ALL-FIELDS"
)

// roleSelectedPredicate is true once the roles control displays the role.
const roleSelectedPredicate = `role => document.querySelector("div.q-field__native span").innerText.includes(role)`

// User is an account that the scenarios create through the Users page.
type User struct {
	Email     string
	FirstName string
	LastName  string
	Role      string
	Password  string
}

// testUser returns a user whose email is unique to this run's context, so that reruns
// against the same application edit the same accounts instead of accumulating new ones.
func testUser(cfg *config.Config, name, role string) User {
	return User{
		Email:     fmt.Sprintf("e2e+%s+%s@sample.com", name, cfg.UniqueContext),
		FirstName: "e2e",
		LastName:  name,
		Role:      role,
		Password:  cfg.Password,
	}
}

func allReportsUser(cfg *config.Config) User {
	return testUser(cfg, "allreports", RoleAllReports)
}

func physicianUser(cfg *config.Config) User {
	return testUser(cfg, "physician_all_fields", RolePhysicianAllFields)
}

// CreateOrEditUser makes sure that a user exists with the given properties. It must be called
// on the Users page. If a row for the email already exists it is edited, otherwise a new user
// is added. Single sign-on is always turned off, so that the user can log in with the password.
func CreateOrEditUser(t *T, user User) {
	t.Step("Creating user: %s", user.Email)

	t.Step("Waiting for search bar to be visible")
	t.AwaitVisible(searchInput)
	t.Fill(searchInput, user.Email)

	t.Step("Waiting for loading spinner to disappear")
	t.AwaitHidden(blurredForm)

	if t.Count(userRow(user.Email)) == 0 {
		t.Step("User not found, clicking Add button")
		t.Click(button("Add"))
	} else {
		t.Step("User found, clicking Edit button")
		t.Click(editButtonInRow(user.Email))
	}

	t.Step("Waiting for form to unblur")
	t.AwaitHidden(blurredForm)

	t.Step("Verifying user form fields are visible")
	for _, sel := range []string{emailInput, firstNameInput, lastNameInput, passwordInput, ssoCheckbox, rolesSelect} {
		t.ExpectVisible(sel)
	}

	t.Snapshot("Page content before roles dropdown")

	t.Step("Filling user form fields")
	t.Fill(emailInput, user.Email)
	t.Fill(firstNameInput, user.FirstName)
	t.Fill(lastNameInput, user.LastName)
	if t.Attribute(ssoCheckbox, "aria-checked") == "true" {
		t.Click(ssoCheckbox)
	}
	t.Fill(passwordInput, user.Password)

	t.Step("Pressing Tab from Password field to navigate to roles dropdown")
	t.Press(passwordInput, browser.KeyTab)
	t.Step("Pressing Enter to expand roles dropdown")
	t.Press(rolesInput, browser.KeyEnter)

	t.Snapshot("Page content after roles dropdown expansion")

	t.Step("Selecting role")
	if !strings.Contains(t.Text(selectedRoles), user.Role) {
		t.Click(roleOption(user.Role))
		t.AwaitFunction(roleSelectedPredicate, user.Role)
	}

	t.Step("Ensuring dropdown is closed")
	t.Click("body")

	t.Step("Clicking Save button")
	t.AwaitVisible(saveButton())
	t.Click(saveButton())
}

func classList(class string) []string {
	return strings.Fields(class)
}
