package helpers

import "golang.org/x/crypto/bcrypt"

// hashCost matches the work factor used when the accounts were first created.
const hashCost = 10

// HashPassword hashes the plain text password using bcrypt. bcrypt salts
// every call, so hashing the same password twice yields different values.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword compares a bcrypt hash with a plain password.
// A malformed stored hash compares as false rather than erroring out.
func CheckPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
