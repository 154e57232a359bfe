package portaltests

import (
	"fmt"
	"strings"
)

const (
	blurredPage        = ".blurred-page"
	blurredForm        = ".blurred-form"
	emailInput         = `input[aria-label="Email"]`
	passwordInput      = `input[aria-label="Password"]`
	firstNameInput     = `input[aria-label="First Name"]`
	lastNameInput      = `input[aria-label="Last Name"]`
	searchInput        = `input.q-field__native[placeholder="Search"]`
	rolesInput         = `input[role="combobox"][aria-label="Roles"]`
	selectedRoles      = "div.q-field__native span"
	ssoCheckbox        = ".q-checkbox"
	rolesSelect        = ".q-select"
	fileInput          = `input[type="file"]`
	checkedCheckboxCSS = "q-checkbox--checked"
)

// withText returns an XPath expression for elements with the tag, optionally with a CSS
// class, whose text contains text.
func withText(tag, class, text string) string {
	var b strings.Builder
	b.WriteString("//")
	b.WriteString(tag)
	if class != "" {
		fmt.Fprintf(&b, `[contains(concat(" ", normalize-space(@class), " "), " %s ")]`, class)
	}
	fmt.Fprintf(&b, "[contains(., %s)]", xpathLiteral(text))
	return b.String()
}

func menuItem(label string) string {
	return withText("div", "q-item__section", label)
}

func button(label string) string {
	return withText("button", "", label)
}

func errorMessage(text string) string {
	return withText("*", "text-negative", text)
}

func userRow(email string) string {
	return withText("tr", "", email)
}

func editButtonInRow(email string) string {
	return userRow(email) + button("Edit")
}

func roleOption(role string) string {
	return fmt.Sprintf(`//div[@role="option"][contains(., %s)]`, xpathLiteral(role))
}

func saveButton() string {
	return "//button" + withText("span", "block", "Save")
}

func tableCell(text string) string {
	return withText("td", "", text)
}

// xpathLiteral quotes s as an XPath 1.0 string literal, which has no escape sequences.
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `'"'`)
		}
		if p != "" {
			quoted = append(quoted, `"`+p+`"`)
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
