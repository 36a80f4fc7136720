package entities

import "time"

// URLMapping represents a short code to destination URL binding in the database
type URLMapping struct {
	ID          int64      `json:"id"`
	ShortCode   string     `json:"short_code"`
	OriginalURL string     `json:"original_url"`
	IsCustom    bool       `json:"is_custom"` // true when the code came from a caller-supplied alias
	ClickCount  int64      `json:"click_count"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"` // Pointer allows nil (no expiration set)
	CreatedAt   time.Time  `json:"created_at"`
}

// IsExpired reports whether the mapping is past its expiration time
func (u *URLMapping) IsExpired() bool {
	return u.ExpiresAt != nil && time.Now().After(*u.ExpiresAt)
}
