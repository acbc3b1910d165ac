package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPhone(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"spaced groups", "mój telefon to 603 693 023", "603693023"},
		{"hyphenated groups", "dzwońcie: 603-693-023", "603693023"},
		{"bare nine digits", "603693023", "603693023"},
		{"country code with plus", "numer +48603693023", "603693023"},
		{"country code with separators", "tel. +48 603 693 023", "603693023"},
		{"no phone", "chciałbym wycenę okien", ""},
		{"too few digits", "kod 12345", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.message).Phone)
		})
	}
}

func TestExtractEmail(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"plain", "piszcie na jan.kowalski@example.com", "jan.kowalski@example.com"},
		{"uppercase lowered", "Jan.Kowalski@Example.COM", "jan.kowalski@example.com"},
		{"with plus tag", "adres: jan+okna@firma.pl", "jan+okna@firma.pl"},
		{"no email", "telefon 603693023", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.message).Email)
		})
	}
}

func TestExtractBoth(t *testing.T) {
	info := Extract("Jan, tel 603 693 023, mail jan@wp.pl")
	assert.Equal(t, "603693023", info.Phone)
	assert.Equal(t, "jan@wp.pl", info.Email)
}

func TestExtractKeepsFirstMatchOnly(t *testing.T) {
	info := Extract("603693023 albo 693375868")
	assert.Equal(t, "603693023", info.Phone)
}
