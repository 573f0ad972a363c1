package utils

import (
	"crypto/rand"
	"math/big"
	"regexp"
)

const referralCodeLength = 8

var referralCodeAlphabet = []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")

// referralCodePattern matches the codes accepted at signup. Kept permissive
// so codes issued by older builds keep validating.
var referralCodePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// GenerateReferralCode creates a random referral code. The alphabet skips
// ambiguous characters (0/O, 1/I) since users retype these by hand.
func GenerateReferralCode() string {
	b := make([]rune, referralCodeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referralCodeAlphabet))))
		if err != nil {
			b[i] = referralCodeAlphabet[0]
			continue
		}
		b[i] = referralCodeAlphabet[n.Int64()]
	}
	return string(b)
}

// IsWellFormedReferralCode reports whether a code has the accepted shape.
func IsWellFormedReferralCode(code string) bool {
	return code != "" && referralCodePattern.MatchString(code)
}
