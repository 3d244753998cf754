// utils/valid.go
package utils

import (
	"regexp"
	"strings"
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	mobileRegex = regexp.MustCompile(`^[0-9]{10}$`)
	gstRegex    = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	ifscRegex   = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	pinRegex    = regexp.MustCompile(`^[0-9]{6}$`)
	userIDRegex = regexp.MustCompile(`^[0-9]{6}$`)
)

// SanitizeEmail lower-cases and trims an email before storage or lookup
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail checks basic email shape
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidMobile requires exactly 10 digits
func IsValidMobile(mobile string) bool {
	return mobileRegex.MatchString(mobile)
}

// IsValidGST validates the 15-character GST number format
func IsValidGST(gst string) bool {
	return gstRegex.MatchString(gst)
}

// IsValidIFSC validates the 11-character IFSC code format
func IsValidIFSC(ifsc string) bool {
	return ifscRegex.MatchString(ifsc)
}

// IsValidPin requires a 6-digit postal code
func IsValidPin(pin string) bool {
	return pinRegex.MatchString(pin)
}

// IsValidMemberID matches the 6-digit public member id
func IsValidMemberID(id string) bool {
	return userIDRegex.MatchString(id)
}

// IsValidAccountNumber requires at least 9 characters
func IsValidAccountNumber(account string) bool {
	return len(strings.TrimSpace(account)) >= 9
}
