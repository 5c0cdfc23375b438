package service

import (
	"unicode"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/config"
)

// validatePassword 按密码策略校验明文密码
func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	minLength := policy.MinLength
	if minLength <= 0 {
		minLength = 8
	}
	if len(password) < minLength {
		return ErrInvalidPassword
	}
	hasUpper, hasLower, hasNumber := false, false, false
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasNumber = true
		}
	}
	if policy.RequireUpper && !hasUpper {
		return ErrInvalidPassword
	}
	if policy.RequireLower && !hasLower {
		return ErrInvalidPassword
	}
	if policy.RequireNumber && !hasNumber {
		return ErrInvalidPassword
	}
	return nil
}
