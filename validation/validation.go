package validation

import (
	"errors"
	"regexp"
	"strings"
)

// Field-level limits mirrored by the form inputs.
const (
	MaxEmailLength    = 254
	MinPasswordLength = 6
	MaxPasswordLength = 128
)

// Errors reported by ValidateEmail and ValidatePassword.
var (
	ErrEmailRequired    = errors.New("Email is required")
	ErrEmailInvalid     = errors.New("Please enter a valid email address")
	ErrEmailTooLong     = errors.New("Email is too long")
	ErrPasswordRequired = errors.New("Password is required")
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters long")
	ErrPasswordTooLong  = errors.New("Password is too long")
	ErrPasswordLower    = errors.New("Password must contain at least one lowercase letter")
	ErrPasswordUpper    = errors.New("Password must contain at least one uppercase letter")
	ErrPasswordDigit    = errors.New("Password must contain at least one number")
	ErrPasswordSpecial  = errors.New("Password must contain at least one special character")
)

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	lowerRe    = regexp.MustCompile(`[a-z]`)
	upperRe    = regexp.MustCompile(`[A-Z]`)
	digitRe    = regexp.MustCompile(`\d`)
	specialSet = `!@#$%^&*(),.?":{}|<>`
)

// ValidationErrors maps a form field name to its error message. A missing
// key means the field passed. Rebuilt on every validation pass.
type ValidationErrors map[string]string

// Valid reports whether no field failed.
func (v ValidationErrors) Valid() bool {
	return len(v) == 0
}

// ValidateEmail checks a sanitized email address.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if !emailRe.MatchString(email) {
		return ErrEmailInvalid
	}
	if len(email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	return nil
}

// ValidatePassword checks a password. The strict rules apply on the sign-up
// path only. When several character classes are missing, the first failing
// one in the order lowercase, uppercase, digit, special is reported; the
// caller sees exactly one deterministic message per pass.
func ValidatePassword(password string, strict bool) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if strict {
		if !lowerRe.MatchString(password) {
			return ErrPasswordLower
		}
		if !upperRe.MatchString(password) {
			return ErrPasswordUpper
		}
		if !digitRe.MatchString(password) {
			return ErrPasswordDigit
		}
		if !strings.ContainsAny(password, specialSet) {
			return ErrPasswordSpecial
		}
	}
	return nil
}

// Strength is the advisory password strength tier shown on the sign-up
// form. It never blocks submission.
type Strength int

const (
	Weak Strength = iota
	Medium
	Strong
)

func (s Strength) String() string {
	switch s {
	case Strong:
		return "strong"
	case Medium:
		return "medium"
	default:
		return "weak"
	}
}

// ComputeStrength counts how many of the five checks (length, lowercase,
// uppercase, digit, special) pass: 0-2 weak, 3-4 medium, 5 strong.
func ComputeStrength(password string) Strength {
	passed := 0
	if len(password) >= MinPasswordLength {
		passed++
	}
	if lowerRe.MatchString(password) {
		passed++
	}
	if upperRe.MatchString(password) {
		passed++
	}
	if digitRe.MatchString(password) {
		passed++
	}
	if strings.ContainsAny(password, specialSet) {
		passed++
	}
	switch {
	case passed == 5:
		return Strong
	case passed >= 3:
		return Medium
	default:
		return Weak
	}
}

// ValidateTaskForm checks the create-task form. All four fields are
// required; a create must not reach the store while any of them is blank.
func ValidateTaskForm(title, description, status, priority string) ValidationErrors {
	errs := ValidationErrors{}
	if strings.TrimSpace(title) == "" {
		errs["title"] = "Title is required"
	}
	if strings.TrimSpace(description) == "" {
		errs["description"] = "Description is required"
	}
	if strings.TrimSpace(status) == "" {
		errs["status"] = "Status is required"
	}
	if strings.TrimSpace(priority) == "" {
		errs["priority"] = "Priority is required"
	}
	return errs
}

// ValidateTaskEdit checks the three fields editable after creation.
// Priority, tags and due date are not re-validated here because the edit
// flow cannot change them.
func ValidateTaskEdit(title, description, status string) bool {
	return strings.TrimSpace(title) != "" &&
		strings.TrimSpace(description) != "" &&
		strings.TrimSpace(status) != ""
}
