package service

import (
	"fmt"
	"strings"

	"github.com/wafam/salesbot/internal/domain"
	"github.com/wafam/salesbot/internal/session"
)

// SystemPrompt is the fixed persona and policy prompt for the sales
// assistant.
const SystemPrompt = `Jesteś asystentem WAFAM (okna, drzwi, rolety, bramy) ze Świętochłowic.

JAK ODPOWIADAĆ:
1. Przeczytaj pytanie klienta
2. Odpowiedz KONKRETNIE na to pytanie (2-3 zdania)
3. Zadaj JEDNO pytanie pomocnicze

WAŻNE:
- NIE ignoruj pytań klienta
- NIE zmieniaj tematu
- NIE powtarzaj się
- Pamiętaj o czym była rozmowa

PRODUKTY:
- Okna: standardowe (DECCO 82, Ideal 7000) i premium (Salamander, DECCO 83)
- Drzwi: pełne (bezpieczne) i przeszklone (estetyczne)
- Rolety: podtynkowe (nowe budynki) i nadstawne (modernizacja)
- Bramy garażowe, żaluzje fasadowe

CENY: Nie podawaj. Wycena indywidualna i bezpłatna.

WYCENA - pytaj o: produkt, ilość, wymiary, miejscowość, montaż, kontakt (telefon/email)

KONTAKT: Marcin 603693023, Aleksandra 693375868 | inwestycje@wafam.pl | ul. Chorzowska 121, Świętochłowice | pn-pt 8-17, sb 8-14

SOCIAL MEDIA:
- Facebook: [WAFAM na Facebooku](https://www.facebook.com/WafamOknaPcv)
- Opinie Google: [Zobacz opinie](https://maps.google.com/?q=WAFAM+Świętochłowice)

POMIAR: Umawiamy bezpłatny pomiar. Potrzebujemy: miejscowość, kontakt, kiedy pasuje termin.

GDY KLIENT PODA TELEFON LUB EMAIL: Podziękuj i potwierdź że handlowiec oddzwoni/odpisze w ciągu 24h.`

// noKnowledgeFound is used when no retrieved passage passes the
// acceptance threshold.
const noKnowledgeFound = "Brak szczegółowych danych w bazie."

// buildUserPrompt assembles the structured final turn: detected intent,
// collected customer data, retrieved knowledge, and the verbatim
// question, closed with a fixed instruction.
func buildUserPrompt(intent domain.Intent, collected, knowledge, message string) string {
	if knowledge == "" {
		knowledge = noKnowledgeFound
	}
	return fmt.Sprintf(`INTENCJA KLIENTA: %s
%s

DANE Z BAZY:
%s

PYTANIE KLIENTA: %s

Odpowiedz KONKRETNIE na pytanie klienta. Nie zmieniaj tematu.`, intent, collected, knowledge, message)
}

// slot labels in the order they are rendered into the prompt.
var slotOrder = []struct {
	key   string
	label string
}{
	{session.SlotProduct, "Produkt"},
	{session.SlotLocation, "Miejscowość"},
	{session.SlotPhone, "Telefon"},
	{session.SlotEmail, "Email"},
}

// buildCollectedSummary renders the non-empty collected slots as a
// single prompt line, or an empty string when nothing is known yet.
func buildCollectedSummary(slots map[string]string) string {
	var parts []string
	for _, s := range slotOrder {
		if v := slots[s.key]; v != "" {
			parts = append(parts, s.label+": "+v)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "ZEBRANE DANE: " + strings.Join(parts, ", ")
}

// truncateRunes bounds a string by rune count so multibyte text is
// never split mid-character.
func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
