package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the 10-round work factor used for all stored hashes.
const bcryptCost = 10

// HashPassword generates a salted bcrypt hash of the plaintext. Hashing the
// same plaintext twice yields different hashes; both verify.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(h), err
}

// VerifyPassword reports whether plaintext matches the stored hash. Any
// compare error, including a malformed hash, is treated as a mismatch.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
