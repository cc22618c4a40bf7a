package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the work factor the account store was provisioned with.
const bcryptCost = 10

// HashPassword produces a salted one-way hash of the plaintext password.
// Callers invoke it only when the password is first set or changed; an
// already-hashed value must never be passed back in.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored hash.
// A mismatch is a normal boolean outcome, not an error.
func CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
