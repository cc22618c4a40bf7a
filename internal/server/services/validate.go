package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
)

// emailPattern is a pragmatic local@domain check; the store's unique index
// remains the authority on duplicates.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validateRegistration checks field presence and shape for a new account.
// All inputs are expected to be trimmed already.
func validateRegistration(fullName, email, username, password string) error {
	for field, value := range map[string]string{
		"fullName": fullName,
		"email":    email,
		"username": username,
		"password": password,
	} {
		if value == "" {
			return fmt.Errorf("%w: %s is required", common.ErrorValidation, field)
		}
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	return validatePassword(password)
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	return nil
}

// validatePassword enforces the strength policy: at least 8 characters,
// at least one letter and one digit.
func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", common.ErrorValidation)
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("%w: password must contain a letter and a digit", common.ErrorValidation)
	}
	return nil
}

// normalize lower-cases and trims identifiers the way they are stored.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
