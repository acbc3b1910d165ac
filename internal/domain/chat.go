package domain

// Message is a single turn in a conversation history.
type Message struct {
	Role    string `json:"role"` // user, assistant
	Content string `json:"content"`
}

// ChatRequest is the request to send a chat message
type ChatRequest struct {
	Text      string `json:"text" binding:"required"`
	SessionID string `json:"session_id"`
}

// ChatResponse is the response from a chat message
type ChatResponse struct {
	Bot     string   `json:"bot"`
	Sources []string `json:"sources"`
}

// SearchHit is a single knowledge-base passage returned by the retriever.
// Score is a distance: lower means more similar.
type SearchHit struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`
	Title   string  `json:"title"`
}

// SearchResult is a passage with its source title as exposed on the
// raw search endpoint.
type SearchResult struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}
