package contact

import (
	"regexp"
	"strings"
)

// Info holds contact details detected in a single message.
// Empty fields mean nothing was found.
type Info struct {
	Phone string
	Email string
}

// Phone patterns are tried in order; the first match wins.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{3}[\s-]?\d{3}[\s-]?\d{3}\b`),
	regexp.MustCompile(`\b\d{9}\b`),
	regexp.MustCompile(`\+48[\s-]?\d{3}[\s-]?\d{3}[\s-]?\d{3}\b`),
}

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneStrip   = regexp.MustCompile(`[\s\-+]`)
)

// Extract detects a phone number and an email address in free text.
// Only the first match per field is kept. Phone numbers are normalized
// to a bare digit string with any leading 48 country code removed; no
// further validity checking is performed.
func Extract(message string) Info {
	var info Info

	for _, p := range phonePatterns {
		if m := p.FindString(message); m != "" {
			phone := phoneStrip.ReplaceAllString(m, "")
			phone = strings.TrimPrefix(phone, "48")
			info.Phone = phone
			break
		}
	}

	if m := emailPattern.FindString(message); m != "" {
		info.Email = strings.ToLower(m)
	}

	return info
}
