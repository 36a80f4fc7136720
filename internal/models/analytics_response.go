package models

import "linkpulse-be/internal/entities"

// BucketCount is one row of a grouped count (country, device type, referrer)
type BucketCount struct {
	Bucket string `json:"bucket"`
	Count  int64  `json:"count"`
}

// HourCount is the number of clicks recorded during one hour of the day
type HourCount struct {
	Hour  int   `json:"hour"` // 0-23
	Count int64 `json:"count"`
}

// AnalyticsResponse aggregates the click analytics for one short code
type AnalyticsResponse struct {
	ShortCode       string                     `json:"short_code"`
	TotalClicks     int64                      `json:"total_clicks"`
	RecentClicks    []*entities.ClickAnalytics `json:"recent_clicks"`
	ClicksByCountry []BucketCount              `json:"clicks_by_country"`
	ClicksByDevice  []BucketCount              `json:"clicks_by_device"`
	ClicksByHour    []HourCount                `json:"clicks_by_hour"` // last 24 hours
	TopReferrers    []BucketCount              `json:"top_referrers"`
}
