package repository

import (
	"database/sql"
	"fmt"
	"time"

	"linkpulse-be/internal/entities"
)

// URLRepository defines the interface for short link mapping storage.
// The database enforces uniqueness on short_code; nothing here filters
// expired rows, expiry is a read-time concern of the service layer.
type URLRepository interface {
	Create(shortCode, originalURL string, isCustom bool, expiresAt *time.Time) (*entities.URLMapping, error)
	FindByShortCode(shortCode string) (*entities.URLMapping, error)
	FindByOriginalURL(originalURL string) (*entities.URLMapping, error)
	ExistsByShortCode(shortCode string) (bool, error)
	IncrementClickCount(shortCode string) error
}

type urlRepository struct {
	db *sql.DB
}

// NewURLRepository creates a new URL repository
func NewURLRepository(db *sql.DB) URLRepository {
	return &urlRepository{db: db}
}

const urlColumns = "id, short_code, original_url, is_custom, click_count, expires_at, created_at"

// Create inserts a new mapping into the database
func (r *urlRepository) Create(shortCode, originalURL string, isCustom bool, expiresAt *time.Time) (*entities.URLMapping, error) {
	// Ensure expiresAt is stored in UTC
	var expiresAtValue interface{}
	if expiresAt != nil {
		utcTime := expiresAt.UTC()
		expiresAtValue = utcTime
	}

	query := `
		INSERT INTO url_mappings (short_code, original_url, is_custom, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + urlColumns

	var url entities.URLMapping
	err := r.db.QueryRow(query, shortCode, originalURL, isCustom, expiresAtValue).Scan(
		&url.ID,
		&url.ShortCode,
		&url.OriginalURL,
		&url.IsCustom,
		&url.ClickCount,
		&url.ExpiresAt,
		&url.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create URL mapping: %w", err)
	}

	return &url, nil
}

// FindByShortCode finds a mapping by its short code, expired or not
func (r *urlRepository) FindByShortCode(shortCode string) (*entities.URLMapping, error) {
	query := `SELECT ` + urlColumns + ` FROM url_mappings WHERE short_code = $1`
	return r.queryOne(query, shortCode)
}

// FindByOriginalURL finds a mapping by its destination URL. When the
// duplicate-URL race produced more than one row, the oldest one wins.
func (r *urlRepository) FindByOriginalURL(originalURL string) (*entities.URLMapping, error) {
	query := `
		SELECT ` + urlColumns + `
		FROM url_mappings
		WHERE original_url = $1
		ORDER BY created_at ASC
		LIMIT 1`
	return r.queryOne(query, originalURL)
}

func (r *urlRepository) queryOne(query string, arg interface{}) (*entities.URLMapping, error) {
	var url entities.URLMapping
	err := r.db.QueryRow(query, arg).Scan(
		&url.ID,
		&url.ShortCode,
		&url.OriginalURL,
		&url.IsCustom,
		&url.ClickCount,
		&url.ExpiresAt,
		&url.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find URL mapping: %w", err)
	}
	return &url, nil
}

// ExistsByShortCode checks whether a short code is already taken
func (r *urlRepository) ExistsByShortCode(shortCode string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM url_mappings WHERE short_code = $1)`,
		shortCode,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check short code: %w", err)
	}
	return exists, nil
}

// IncrementClickCount applies one commutative counter increment.
// Safe to call concurrently from multiple pipeline workers.
func (r *urlRepository) IncrementClickCount(shortCode string) error {
	result, err := r.db.Exec(`
		UPDATE url_mappings
		SET click_count = click_count + 1
		WHERE short_code = $1
	`, shortCode)
	if err != nil {
		return fmt.Errorf("failed to increment click count: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no mapping for short code %q", shortCode)
	}

	return nil
}
