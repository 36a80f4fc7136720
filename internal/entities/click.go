package entities

import "time"

// ClickAnalytics is the durable, enriched record of a single click event.
// Rows are append-only; nothing in the service updates or deletes them.
type ClickAnalytics struct {
	ID             int64     `json:"id"`
	ShortCode      string    `json:"short_code"`
	Timestamp      time.Time `json:"timestamp"` // producer-assigned click time
	IPAddress      string    `json:"ip_address"`
	UserAgent      string    `json:"user_agent"`
	Referer        string    `json:"referer"`
	Country        *string   `json:"country,omitempty"` // nil when the lookup came back unknown
	City           *string   `json:"city,omitempty"`
	DeviceType     string    `json:"device_type"` // Mobile, Tablet or Desktop
	Browser        string    `json:"browser"`
	BrowserVersion string    `json:"browser_version"`
	OS             string    `json:"os"`
	OSVersion      string    `json:"os_version"`
	CreatedAt      time.Time `json:"created_at"` // persistence time
}
