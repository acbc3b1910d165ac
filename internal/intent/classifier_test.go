package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wafam/salesbot/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		message string
		want    domain.Intent
	}{
		{"Chcę umówić pomiar", domain.IntentMeasurement},
		{"Ile kosztują okna?", domain.IntentPrice},
		{"Jaki jest wasz telefon?", domain.IntentContact},
		{"Jakie macie drzwi w ofercie?", domain.IntentProducts},
		{"Co polecacie do sypialni?", domain.IntentRecommendation},
		{"Dlaczego okna trzyszybowe?", domain.IntentExplanation},
		{"Przygotuj mi ofertę", domain.IntentQuote},
		{"Dzień dobry", domain.IntentGeneral},
		{"", domain.IntentGeneral},
		// Case-insensitive matching.
		{"POMIAR proszę", domain.IntentMeasurement},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.message))
		})
	}
}

func TestClassifyBucketOrderWins(t *testing.T) {
	// "pomiar" sits in an earlier bucket than "cena", so a message with
	// both keywords classifies as measurement.
	assert.Equal(t, domain.IntentMeasurement, Classify("jaka cena za pomiar?"))
	// "ile" (price) precedes "telefon" (contact).
	assert.Equal(t, domain.IntentPrice, Classify("ile kosztuje? podam telefon"))
}
