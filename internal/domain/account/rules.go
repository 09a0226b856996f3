package account

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLength = 6
	RegNumberLength   = 7
)

var regNumberPattern = regexp.MustCompile(`^\d{7}$`)

// EmailRules encodes the institutional address policy: students sign up as
// u#######@domain, one reserved admin address bypasses the pattern, and login
// accepts any address under the domain.
type EmailRules struct {
	domain         string
	adminEmail     string
	studentPattern *regexp.Regexp
}

func NewEmailRules(domain, adminEmail string) EmailRules {
	domain = strings.ToLower(strings.TrimSpace(domain))
	return EmailRules{
		domain:         domain,
		adminEmail:     NormalizeEmail(adminEmail),
		studentPattern: regexp.MustCompile(`^u\d{7}@` + regexp.QuoteMeta(domain) + `$`),
	}
}

func (r EmailRules) Domain() string {
	return r.domain
}

func (r EmailRules) IsAdminEmail(email string) bool {
	return r.adminEmail != "" && NormalizeEmail(email) == r.adminEmail
}

func (r EmailRules) ValidateSignUp(email string) error {
	email = NormalizeEmail(email)
	if r.IsAdminEmail(email) {
		return nil
	}
	if !r.studentPattern.MatchString(email) {
		return fmt.Errorf("%w: student email must be in format u#######@%s", ErrInvalidEmail, r.domain)
	}
	return nil
}

func (r EmailRules) ValidateLogin(email string) error {
	email = NormalizeEmail(email)
	if r.IsAdminEmail(email) {
		return nil
	}
	local, found := strings.CutSuffix(email, "@"+r.domain)
	if !found || local == "" || strings.Contains(local, "@") {
		return fmt.Errorf("%w: only @%s emails are allowed", ErrInvalidEmail, r.domain)
	}
	return nil
}

func (r EmailRules) EmailForRegNumber(regNumber string) (string, error) {
	if err := ValidateRegNumber(regNumber); err != nil {
		return "", err
	}
	return "u" + strings.TrimSpace(regNumber) + "@" + r.domain, nil
}

// RoleFor is the role assigned when an account is first seen.
func (r EmailRules) RoleFor(email string) string {
	if r.IsAdminEmail(email) {
		return RoleAdmin
	}
	return RoleStudent
}

func ValidateRegNumber(regNumber string) error {
	if !regNumberPattern.MatchString(strings.TrimSpace(regNumber)) {
		return ErrInvalidRegNumber
	}
	return nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooShort, MinPasswordLength)
	}
	return nil
}

func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleAdmin
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
