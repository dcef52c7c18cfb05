package security

import (
	"fmt"
	"unicode"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

const (
	defaultMinPasswordLength = 8
	defaultMinZxcvbnScore    = 2
)

// PasswordRule validates a password according to a specific policy rule.
type PasswordRule interface {
	Validate(password string) error
}

// PasswordRuleFunc adapts a function to be used as a PasswordRule.
type PasswordRuleFunc func(password string) error

// Validate executes the underlying rule function.
func (f PasswordRuleFunc) Validate(password string) error {
	return f(password)
}

// PasswordPolicy applies a sequence of password rules.
type PasswordPolicy struct {
	rules []PasswordRule
}

// NewPasswordPolicy constructs a policy with the provided rules.
func NewPasswordPolicy(rules ...PasswordRule) *PasswordPolicy {
	copied := make([]PasswordRule, len(rules))
	copy(copied, rules)
	return &PasswordPolicy{rules: copied}
}

// DefaultPasswordPolicy enforces the portal's registration requirements:
// minimum length, at least one letter and digit, and a zxcvbn strength floor.
func DefaultPasswordPolicy() *PasswordPolicy {
	return NewPasswordPolicy(
		MinLengthRule(defaultMinPasswordLength),
		RequireLetterAndDigitRule(),
		RequireStrengthRule(defaultMinZxcvbnScore),
	)
}

// Validate executes all rules and returns the first encountered violation.
func (p *PasswordPolicy) Validate(password string, userInputs ...string) error {
	if p == nil {
		return fmt.Errorf("password policy not configured")
	}
	for _, rule := range p.rules {
		if contextual, ok := rule.(contextualRule); ok {
			if err := contextual.ValidateWithContext(password, userInputs); err != nil {
				return err
			}
			continue
		}
		if err := rule.Validate(password); err != nil {
			return err
		}
	}
	return nil
}

type contextualRule interface {
	ValidateWithContext(password string, userInputs []string) error
}

// MinLengthRule rejects passwords shorter than min runes.
func MinLengthRule(min int) PasswordRule {
	return PasswordRuleFunc(func(password string) error {
		if len([]rune(password)) < min {
			return fmt.Errorf("password must be at least %d characters", min)
		}
		return nil
	})
}

// RequireLetterAndDigitRule rejects passwords lacking a letter or a digit.
func RequireLetterAndDigitRule() PasswordRule {
	return PasswordRuleFunc(func(password string) error {
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
			return fmt.Errorf("password must contain both letters and digits")
		}
		return nil
	})
}

type strengthRule struct {
	minScore int
}

// RequireStrengthRule rejects passwords scoring below minScore on zxcvbn's
// 0-4 scale, feeding the caller's contextual inputs (username, email) into
// the estimator.
func RequireStrengthRule(minScore int) PasswordRule {
	return &strengthRule{minScore: minScore}
}

func (r *strengthRule) Validate(password string) error {
	return r.ValidateWithContext(password, nil)
}

func (r *strengthRule) ValidateWithContext(password string, userInputs []string) error {
	result := zxcvbn.PasswordStrength(password, userInputs)
	if result.Score < r.minScore {
		return fmt.Errorf("password is too weak")
	}
	return nil
}
