package service

import (
	"fmt"
	"unicode"
)

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

// PasswordPolicy is the configurable strength rule for new passwords.
type PasswordPolicy struct {
	MinLength int
	MixedCase bool
	Numbers   bool
	Symbols   bool
}

func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{MinLength: 8}
}

// Check returns one message per violated rule.
func (p PasswordPolicy) Check(password string) []string {
	var msgs []string
	if password == "" {
		return []string{"The password field is required."}
	}
	if n := len([]rune(password)); p.MinLength > 0 && n < p.MinLength {
		msgs = append(msgs, fmt.Sprintf("The password field must be at least %d characters.", p.MinLength))
	}
	if len(password) > MaxPasswordBytes {
		msgs = append(msgs, fmt.Sprintf("The password field must not be greater than %d bytes.", MaxPasswordBytes))
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	if p.MixedCase && !(upper && lower) {
		msgs = append(msgs, "The password field must contain at least one uppercase and one lowercase letter.")
	}
	if p.Numbers && !digit {
		msgs = append(msgs, "The password field must contain at least one number.")
	}
	if p.Symbols && !symbol {
		msgs = append(msgs, "The password field must contain at least one symbol.")
	}
	return msgs
}
