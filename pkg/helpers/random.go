package helpers

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenUsernameSuffix generates the 6-character random suffix appended to
// usernames synthesized from an email local part on first OAuth sign-in.
func GenUsernameSuffix() (string, error) {
	b := make([]byte, 6)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(suffixAlphabet))))
		if err != nil {
			return "", err
		}
		b[i] = suffixAlphabet[n.Int64()]
	}
	return string(b), nil
}

// GenVerifyCode generates a secure random 6-digit verification code
// as a zero-padded string.
func GenVerifyCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// GenToken generates an opaque URL-safe random token of n bytes entropy.
func GenToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
