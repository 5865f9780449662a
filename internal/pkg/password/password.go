// Package password enforces the account password strength policy.
package password

import "unicode"

const minLength = 8

// Validate checks the password against the strength policy and returns the
// unmet rules. When withDetails is false and the password fails, a single
// generic reason is returned instead of the itemized list.
func Validate(raw string, withDetails bool) (ok bool, reasons []string) {
	var details []string
	if len(raw) < minLength {
		details = append(details, "Password must be at least 8 characters long.")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range raw {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if !hasUpper {
		details = append(details, "Password must contain at least one uppercase letter.")
	}
	if !hasLower {
		details = append(details, "Password must contain at least one lowercase letter.")
	}
	if !hasDigit {
		details = append(details, "Password must contain at least one number.")
	}
	if !hasSpecial {
		details = append(details, "Password must contain at least one special character.")
	}

	if len(details) == 0 {
		return true, nil
	}
	if !withDetails {
		return false, []string{"Password is not strong enough."}
	}
	return false, details
}
