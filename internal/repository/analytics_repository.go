package repository

import (
	"database/sql"
	"fmt"
	"time"

	"linkpulse-be/internal/entities"
	"linkpulse-be/internal/models"
)

// AnalyticsRepository persists and aggregates click analytics records.
// Insert is the only write; records are never updated or deleted here.
type AnalyticsRepository interface {
	Insert(record *entities.ClickAnalytics) error
	CountByShortCode(shortCode string) (int64, error)
	FindRecent(shortCode string, limit int) ([]*entities.ClickAnalytics, error)
	CountByCountry(shortCode string) ([]models.BucketCount, error)
	CountByDevice(shortCode string) ([]models.BucketCount, error)
	CountByHour(shortCode string, since time.Time) ([]models.HourCount, error)
	TopReferrers(shortCode string, limit int) ([]models.BucketCount, error)
}

type analyticsRepository struct {
	db *sql.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *sql.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// Insert appends one enriched click record
func (r *analyticsRepository) Insert(record *entities.ClickAnalytics) error {
	query := `
		INSERT INTO url_click_analytics
			(short_code, clicked_at, ip_address, user_agent, referer,
			 country, city, device_type, browser, browser_version, os, os_version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err := r.db.QueryRow(query,
		record.ShortCode,
		record.Timestamp.UTC(),
		record.IPAddress,
		record.UserAgent,
		record.Referer,
		record.Country,
		record.City,
		record.DeviceType,
		record.Browser,
		record.BrowserVersion,
		record.OS,
		record.OSVersion,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert click analytics: %w", err)
	}

	return nil
}

// CountByShortCode returns the total number of recorded clicks
func (r *analyticsRepository) CountByShortCode(shortCode string) (int64, error) {
	var count int64
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM url_click_analytics WHERE short_code = $1`,
		shortCode,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count clicks: %w", err)
	}
	return count, nil
}

// FindRecent returns the most recent click records, newest first
func (r *analyticsRepository) FindRecent(shortCode string, limit int) ([]*entities.ClickAnalytics, error) {
	query := `
		SELECT id, short_code, clicked_at, ip_address, user_agent, referer,
		       country, city, device_type, browser, browser_version, os, os_version, created_at
		FROM url_click_analytics
		WHERE short_code = $1
		ORDER BY clicked_at DESC
		LIMIT $2`

	rows, err := r.db.Query(query, shortCode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent clicks: %w", err)
	}
	defer rows.Close()

	var records []*entities.ClickAnalytics
	for rows.Next() {
		var rec entities.ClickAnalytics
		err := rows.Scan(
			&rec.ID,
			&rec.ShortCode,
			&rec.Timestamp,
			&rec.IPAddress,
			&rec.UserAgent,
			&rec.Referer,
			&rec.Country,
			&rec.City,
			&rec.DeviceType,
			&rec.Browser,
			&rec.BrowserVersion,
			&rec.OS,
			&rec.OSVersion,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan click record: %w", err)
		}
		records = append(records, &rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating click records: %w", err)
	}

	return records, nil
}

// CountByCountry groups clicks by country; unknown countries surface as "Unknown"
func (r *analyticsRepository) CountByCountry(shortCode string) ([]models.BucketCount, error) {
	query := `
		SELECT COALESCE(country, 'Unknown') AS country, COUNT(*) AS clicks
		FROM url_click_analytics
		WHERE short_code = $1
		GROUP BY country
		ORDER BY clicks DESC`
	return r.queryBuckets(query, shortCode)
}

// CountByDevice groups clicks by device type
func (r *analyticsRepository) CountByDevice(shortCode string) ([]models.BucketCount, error) {
	query := `
		SELECT device_type, COUNT(*) AS clicks
		FROM url_click_analytics
		WHERE short_code = $1
		GROUP BY device_type
		ORDER BY clicks DESC`
	return r.queryBuckets(query, shortCode)
}

// CountByHour groups clicks since the given time by hour of day
func (r *analyticsRepository) CountByHour(shortCode string, since time.Time) ([]models.HourCount, error) {
	query := `
		SELECT EXTRACT(HOUR FROM clicked_at AT TIME ZONE 'UTC')::int AS hour, COUNT(*) AS clicks
		FROM url_click_analytics
		WHERE short_code = $1 AND clicked_at >= $2
		GROUP BY hour
		ORDER BY hour ASC`

	rows, err := r.db.Query(query, shortCode, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to get clicks by hour: %w", err)
	}
	defer rows.Close()

	var out []models.HourCount
	for rows.Next() {
		var hc models.HourCount
		if err := rows.Scan(&hc.Hour, &hc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan hour bucket: %w", err)
		}
		out = append(out, hc)
	}
	return out, rows.Err()
}

// TopReferrers ranks referrers by click count descending
func (r *analyticsRepository) TopReferrers(shortCode string, limit int) ([]models.BucketCount, error) {
	query := `
		SELECT referer, COUNT(*) AS clicks
		FROM url_click_analytics
		WHERE short_code = $1 AND referer <> ''
		GROUP BY referer
		ORDER BY clicks DESC
		LIMIT $2`

	rows, err := r.db.Query(query, shortCode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top referrers: %w", err)
	}
	defer rows.Close()

	return scanBuckets(rows)
}

func (r *analyticsRepository) queryBuckets(query, shortCode string) ([]models.BucketCount, error) {
	rows, err := r.db.Query(query, shortCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query click buckets: %w", err)
	}
	defer rows.Close()

	return scanBuckets(rows)
}

func scanBuckets(rows *sql.Rows) ([]models.BucketCount, error) {
	var out []models.BucketCount
	for rows.Next() {
		var bc models.BucketCount
		if err := rows.Scan(&bc.Bucket, &bc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan click bucket: %w", err)
		}
		out = append(out, bc)
	}
	return out, rows.Err()
}
