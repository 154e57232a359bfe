package portaltests

import (
	"time"
)

const (
	invalidEmail       = "anything@sample.com"
	invalidCredentials = "Invalid credentials or unsupported provider"
	passwordRequired   = "Password is required"

	// ProfilePicture is uploaded on the Profile page. The path is relative to the working
	// directory.
	ProfilePicture = "resources/e2e.png"

	savedAtLayout = "2006-01-02T15:04:05"
)

func openLoginPage(t *T) {
	t.Step("Navigating to app URL")
	t.Navigate(t.Config().AppURL)
	t.AwaitHidden(blurredPage)
}

func logIn(t *T, email, password string) {
	t.Step("Logging in as %s", email)
	t.Fill(emailInput, email)
	t.Fill(passwordInput, password)
	t.Click(button("Login"))
}

func logOff(t *T) {
	t.Step("Logging off")
	t.AwaitVisible(menuItem("Logoff"))
	t.Click(menuItem("Logoff"))
}

// DoLoginValidationTests checks the error paths of the login form without logging in.
func DoLoginValidationTests(t *T) {
	openLoginPage(t)

	t.Step("Checking visibility of Email and Password fields")
	t.ExpectVisible(emailInput)
	t.ExpectVisible(passwordInput)
	t.ExpectNoClass(ssoCheckbox, checkedCheckboxCSS)

	t.Step("Clicking on Login button without filling fields")
	t.Click(button("Login"))
	t.ExpectVisible(errorMessage(passwordRequired))

	t.Step("Checking Use SSO checkbox and verifying Password field hides")
	t.Click(ssoCheckbox)
	t.ExpectHidden(passwordInput)

	t.Step("Clicking on Login button with SSO checked")
	t.Click(button("Login"))
	t.ExpectVisible(errorMessage(invalidCredentials))

	t.Step("Entering invalid email and clicking Login")
	t.Fill(emailInput, invalidEmail)
	t.Click(button("Login"))
	t.ExpectVisible(errorMessage(invalidCredentials))
}

// DoAuthenticationAndAuthorizationTests logs in as the configured administrator, creates the
// test users, and checks that a user with a restricted role only sees its own menu items
// and reports.
func DoAuthenticationAndAuthorizationTests(t *T) {
	cfg := t.Config()
	openLoginPage(t)
	logIn(t, cfg.User, cfg.Password)

	t.Step("Waiting for Users menu item and clicking it")
	t.AwaitVisible(menuItem("Users"))
	t.Click(menuItem("Users"))

	t.Step("Creating first user")
	CreateOrEditUser(t, allReportsUser(cfg))
	t.Step("Creating second user")
	physician := physicianUser(cfg)
	CreateOrEditUser(t, physician)

	logOff(t)
	logIn(t, physician.Email, physician.Password)

	t.Step("Checking menu items of the restricted role")
	t.ExpectVisible(menuItem("Reports"))
	t.ExpectVisible(menuItem("Profile"))
	t.ExpectHidden(menuItem("Users"))

	t.Step("Navigating to Reports")
	t.Click(menuItem("Reports"))
	t.AwaitHidden(blurredForm)
	t.ExpectVisible(tableCell(physician.LastName))
}

// DoProfileEditingTests changes the profile of the restricted user and checks that the change
// survives a reload.
func DoProfileEditingTests(t *T) {
	physician := physicianUser(t.Config())
	openLoginPage(t)
	logIn(t, physician.Email, physician.Password)

	t.Step("Navigating to Profile")
	t.AwaitVisible(menuItem("Profile"))
	t.Click(menuItem("Profile"))
	t.Step("Waiting for profile loading spinner to disappear")
	t.AwaitHidden(blurredForm)

	t.ExpectAttribute(emailInput, "readonly", "")

	t.Step("Updating Profile information")
	t.Fill(firstNameInput, "e2e physician_all_fields")
	savedAt := time.Now().Format(savedAtLayout)
	t.Fill(lastNameInput, savedAt)

	t.Step("Uploading file")
	t.SetInputFiles(fileInput, ProfilePicture)
	t.Click(button("Save"))
	t.AwaitHidden(blurredForm)

	t.Step("Refreshing page")
	t.Reload()
	t.AwaitHidden(blurredForm)

	t.ExpectValue(lastNameInput, savedAt)

	logOff(t)
}
