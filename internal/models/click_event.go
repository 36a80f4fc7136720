package models

// ClickEvent is the wire message carried from the redirect path to the
// analytics pipeline. It is ephemeral: the transport gives no delivery
// guarantee and consumers tolerate missing optional fields.
type ClickEvent struct {
	ShortCode string `json:"shortCode"`
	IPAddress string `json:"ipAddress,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
	Referer   string `json:"referer,omitempty"`
	Timestamp string `json:"timestamp"` // ISO-8601, assigned by the producer
}
