package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

var referencePattern = regexp.MustCompile(`^BK-\d{4}-\d{4}-\d{4}$`)

// NewBookingReference returns a human readable booking reference of the
// form BK-<year>-<4 digits>-<4 digits>.  The digits come from crypto/rand.
func NewBookingReference(now time.Time) (string, error) {
	a, err := randomDigits()
	if err != nil {
		return "", err
	}
	b, err := randomDigits()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("BK-%04d-%04d-%04d", now.Year(), a, b), nil
}

// ValidBookingReference reports whether ref has the booking reference shape.
func ValidBookingReference(ref string) bool {
	return referencePattern.MatchString(ref)
}

func randomDigits() (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return 0, fmt.Errorf("booking reference: %w", err)
	}
	return n.Int64(), nil
}
