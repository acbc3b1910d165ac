package query

import (
	"strings"

	"github.com/wafam/salesbot/internal/session"
)

// Short acknowledgment vocabulary: a message of at most four tokens
// containing one of these is treated as an elliptical follow-up.
var shortResponses = []string{
	"tak", "nie", "podaj", "link", "chcę", "poproszę", "dawaj", "ok", "okej", "dobrze",
}

// Product keywords that make a message worth remembering as the topic.
var productKeywords = []string{
	"okna", "okno", "drzwi", "rolety", "roleta", "bramy", "brama", "żaluzje", "taras", "przesuwne",
}

// Expand rewrites a short follow-up ("tak", "poproszę") by attaching the
// session's remembered topic as parenthetical context, so that vector
// retrieval can resolve it. Longer messages mentioning a product update
// the remembered topic instead and pass through unchanged. The expanded
// form is meant for retrieval only; history keeps the raw message.
func Expand(message string, sess *session.Session) string {
	lower := strings.ToLower(strings.TrimSpace(message))

	isShort := false
	if len(strings.Fields(lower)) <= 4 {
		for _, w := range shortResponses {
			if strings.Contains(lower, w) {
				isShort = true
				break
			}
		}
	}

	if isShort {
		if topic, ok := sess.Topic(); ok {
			return message + " (kontekst: " + topic + ")"
		}
	}

	for _, kw := range productKeywords {
		if strings.Contains(lower, kw) {
			sess.SetTopic(message)
			break
		}
	}

	return message
}
