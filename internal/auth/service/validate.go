package service

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	msgFirstNameRequired = "First name must be specified."
	msgFirstNameAlnum    = "First name has non-alphanumeric characters."
	msgLastNameRequired  = "Last name must be specified."
	msgLastNameAlnum     = "Last name has non-alphanumeric characters."
	msgEmailRequired     = "Email must be specified."
	msgEmailInvalid      = "Email must be a valid email address."
	msgEmailInUse        = "E-mail already in use"
	msgPasswordLength    = "Password must be 6 characters or greater."
	msgPasswordRequired  = "Password must be specified."
	msgOTPRequired       = "OTP must be specified."

	minPasswordLength = 6
)

var reAlnum = regexp.MustCompile(`^[A-Za-z0-9]+$`)

func validateName(errs *ValidationErrors, field, value, required, alnum string) {
	switch {
	case value == "":
		errs.add(field, required)
	case !reAlnum.MatchString(value):
		errs.add(field, alnum)
	}
}

// validateEmailSyntax reports whether the email passed; callers may run
// further checks only when it did.
func validateEmailSyntax(errs *ValidationErrors, email string) bool {
	switch {
	case email == "":
		errs.add("email", msgEmailRequired)
		return false
	case !isEmail(email):
		errs.add("email", msgEmailInvalid)
		return false
	}
	return true
}

// isEmail accepts a bare addr-spec whose domain has at least one dot.
func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	domain := s[at+1:]
	return strings.Contains(domain, ".") &&
		!strings.HasPrefix(domain, ".") &&
		!strings.HasSuffix(domain, ".")
}

func validateRequired(errs *ValidationErrors, field, value, message string) {
	if value == "" {
		errs.add(field, message)
	}
}

func validatePasswordLength(errs *ValidationErrors, password string) {
	if utf8.RuneCountInString(password) < minPasswordLength {
		errs.add("password", msgPasswordLength)
	}
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// sanitize HTML-escapes a trimmed input field.
func sanitize(s string) string {
	return htmlEscaper.Replace(s)
}
