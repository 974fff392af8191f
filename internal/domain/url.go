package domain

// URLRecord is the stored mapping between a numeric id and a full URL.
// Ids start at 1; 0 is reserved because it encodes to the codec's zero
// glyph. The short code is derived from ID on demand, never stored.
type URLRecord struct {
	ID      int64
	FullURL string
}

// ShortenRequest is the JSON payload for POST /shorten.
type ShortenRequest struct {
	URL string `json:"url"`
}

// ShortenResponse is the JSON payload returned on successful allocation.
type ShortenResponse struct {
	ShortURL string `json:"short_url"`
}

// ErrorResponse is the JSON payload returned for client and server errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
