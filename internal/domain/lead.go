package domain

// LeadStatusNew is the status assigned to every freshly captured lead.
const LeadStatusNew = "nowy"

// Lead is a persisted record of a prospective customer's contact details.
// At most one lead may exist per phone number and per email address.
// Phone and Email are pointers so an absent contact field serializes
// as null rather than disappearing from the response.
type Lead struct {
	ID        int64   `json:"id"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Product   string  `json:"product"`
	SessionID string  `json:"session_id"`
	CreatedAt string  `json:"created_at"`
	Status    string  `json:"status"`
}
