package domain

// Intent is the coarse purpose bucket assigned to a user message.
type Intent string

const (
	IntentMeasurement    Intent = "pomiar"
	IntentPrice          Intent = "cena"
	IntentContact        Intent = "kontakt"
	IntentProducts       Intent = "produkty"
	IntentRecommendation Intent = "rekomendacja"
	IntentExplanation    Intent = "wyjasnienie"
	IntentQuote          Intent = "wycena"
	IntentGeneral        Intent = "ogolne"
)
