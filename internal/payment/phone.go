package payment

import (
	"errors"
	"regexp"
	"strings"
)

// Safaricom/Airtel mobile numbers: 07xx/01xx national, 7xx/1xx bare, or 254 international.
var kenyanMobile = regexp.MustCompile(`^(?:\+?254|0)?[17]\d{8}$`)

var ErrInvalidPhone = errors.New("please enter a valid Kenyan phone number")

func cleanPhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
}

func ValidatePhone(phone string) error {
	if !kenyanMobile.MatchString(cleanPhone(phone)) {
		return ErrInvalidPhone
	}
	return nil
}

// NormalizePhone rewrites a valid number to the 254XXXXXXXXX form the push API
// expects. Call ValidatePhone first; other input is returned cleaned but
// otherwise unchanged.
func NormalizePhone(phone string) string {
	p := strings.TrimPrefix(cleanPhone(phone), "+")
	switch {
	case strings.HasPrefix(p, "254"):
		return p
	case strings.HasPrefix(p, "0"):
		return "254" + p[1:]
	case len(p) == 9:
		return "254" + p
	}
	return p
}
