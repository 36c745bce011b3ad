package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash for storage. The cost is bcrypt's
// default; raising it later only affects newly set passwords.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether plaintext matches the stored hash.
func CheckPasswordHash(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
