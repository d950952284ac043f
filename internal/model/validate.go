package model

import (
	"fmt"
	"regexp"
)

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 8

var emailRe = regexp.MustCompile(`^[\w.\-]+@([\w\-]+\.)+[\w\-]{2,}$`)

// ValidatePassword checks password strength requirements.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}
	return nil
}

// ValidateEmail checks that email looks like an email address.
func ValidateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return fmt.Errorf("%q is not a valid email address", email)
	}
	return nil
}
