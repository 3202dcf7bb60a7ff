package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost = 10
	// MinRegistrationPasswordLength applies at sign-up.
	MinRegistrationPasswordLength = 6
	// MinResetPasswordLength applies when choosing a new password.
	MinResetPasswordLength = 8
	resetTokenBytes        = 32
)

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var specialCharacter = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)

// PasswordStrengthErrors lists every strength rule password fails; empty means strong.
func PasswordStrengthErrors(password string) []string {
	var failed []string
	if len([]rune(password)) < MinResetPasswordLength {
		failed = append(failed, fmt.Sprintf("password must be at least %d characters", MinResetPasswordLength))
	}
	if !strings.ContainsFunc(password, unicode.IsUpper) {
		failed = append(failed, "password must contain an uppercase letter")
	}
	if !strings.ContainsFunc(password, unicode.IsLower) {
		failed = append(failed, "password must contain a lowercase letter")
	}
	if !strings.ContainsFunc(password, unicode.IsDigit) {
		failed = append(failed, "password must contain a digit")
	}
	if !specialCharacter.MatchString(password) {
		failed = append(failed, "password must contain a special character")
	}
	return failed
}

// GenerateResetToken returns 32 random bytes, hex encoded.
func GenerateResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
