package intent

import (
	"strings"

	"github.com/wafam/salesbot/internal/domain"
)

type bucket struct {
	label    domain.Intent
	keywords []string
}

// Buckets are tested in order and the first hit wins, so a message that
// mentions both a measurement and a price is classified as measurement.
// The order is part of the observable behavior and must not be resorted.
var buckets = []bucket{
	{domain.IntentMeasurement, []string{"pomiar", "umówić", "wizyta", "przyjechać"}},
	{domain.IntentPrice, []string{"cena", "koszt", "ile", "kosztuje", "drogo", "tanio"}},
	{domain.IntentContact, []string{"kontakt", "telefon", "zadzwonić", "email", "adres", "gdzie jesteście"}},
	{domain.IntentProducts, []string{"jakie macie", "co macie", "oferta", "produkty", "asortyment"}},
	{domain.IntentRecommendation, []string{"polecasz", "polecacie", "doradzisz", "co wybrać", "która", "który"}},
	{domain.IntentExplanation, []string{"dlaczego", "czemu", "po co"}},
	{domain.IntentQuote, []string{"wycena", "ofertę", "przygotuj"}},
}

// Classify assigns a coarse intent bucket to a user message by substring
// keyword matching over the lowercased text.
func Classify(message string) domain.Intent {
	lower := strings.ToLower(message)
	for _, b := range buckets {
		for _, kw := range b.keywords {
			if strings.Contains(lower, kw) {
				return b.label
			}
		}
	}
	return domain.IntentGeneral
}
