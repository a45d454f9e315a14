package models

// Result is the outcome of one extraction attempt.
type Result struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	Text        string `json:"text"`
	Status      int    `json:"status"`
	ElapsedMS   int    `json:"elapsed_ms"`
}
