package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"regexp"
	"strings"
	"time"

	"linkpulse-be/internal/cache"
	"linkpulse-be/internal/entities"
	"linkpulse-be/internal/models"
	"linkpulse-be/internal/repository"

	"github.com/sethvargo/go-retry"
)

const (
	codeAlphabet    = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLength      = 10
	maxCodeAttempts = 5
	codeRetryDelay  = 10 * time.Millisecond

	cachePrefix   = "url:"
	defaultExpiry = 24 * time.Hour
)

// Reserved aliases that cannot be claimed as custom short codes
var reservedAliases = map[string]bool{
	"api":       true,
	"admin":     true,
	"www":       true,
	"analytics": true,
	"dashboard": true,
	"login":     true,
	"signup":    true,
	"help":      true,
	"about":     true,
	"contact":   true,
	"terms":     true,
	"privacy":   true,
	"support":   true,
	"docs":      true,
	"blog":      true,
}

var aliasPattern = regexp.MustCompile(`^[a-zA-Z0-9-_]{3,20}$`)

// ShortenerService defines the interface for short link business logic
type ShortenerService interface {
	Shorten(req *models.CreateURLRequest) (*entities.URLMapping, error)
	Resolve(shortCode string) (string, error)
	Stats(shortCode string) (*entities.URLMapping, error)
}

type shortenerService struct {
	repo  repository.URLRepository
	cache cache.Cache
	ctx   context.Context
}

// NewShortenerService creates a new shortener service. A nil cache is
// allowed and simply disables the acceleration layer.
func NewShortenerService(repo repository.URLRepository, cacheClient cache.Cache) ShortenerService {
	return &shortenerService{
		repo:  repo,
		cache: cacheClient,
		ctx:   context.Background(),
	}
}

// validateAlias checks a custom alias against the format and the reserved
// set. Checks run on the trimmed, lowercased form; the stored alias keeps
// the caller's casing.
func validateAlias(alias string) error {
	normalized := strings.ToLower(strings.TrimSpace(alias))
	if normalized == "" {
		return ErrInvalidAlias
	}
	if !aliasPattern.MatchString(normalized) {
		return ErrInvalidAlias
	}
	if reservedAliases[normalized] {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidAlias, alias)
	}
	return nil
}

// generateShortCode draws codeLength uniformly random characters from the
// 62-character alphabet using crypto/rand. 62^10 possible codes.
func generateShortCode() (string, error) {
	alphabetSize := big.NewInt(int64(len(codeAlphabet)))
	var b strings.Builder
	b.Grow(codeLength)
	for i := 0; i < codeLength; i++ {
		j, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate random index: %w", err)
		}
		b.WriteByte(codeAlphabet[j.Int64()])
	}
	return b.String(), nil
}

// createUniqueShortCode generates codes until one is free in the store,
// bounded at maxCodeAttempts attempts total
func (s *shortenerService) createUniqueShortCode() (string, error) {
	var code string
	backoff := retry.WithMaxRetries(maxCodeAttempts-1, retry.NewConstant(codeRetryDelay))
	err := retry.Do(s.ctx, backoff, func(ctx context.Context) error {
		candidate, err := generateShortCode()
		if err != nil {
			return err
		}
		exists, err := s.repo.ExistsByShortCode(candidate)
		if err != nil {
			return err
		}
		if exists {
			return retry.RetryableError(ErrCodeSpaceExhausted)
		}
		code = candidate
		return nil
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// Shorten creates or reuses a mapping for the given URL
func (s *shortenerService) Shorten(req *models.CreateURLRequest) (*entities.URLMapping, error) {
	// Allow a 2-second buffer to account for network latency and processing time
	if req.ExpiresAt != nil && req.ExpiresAt.Before(time.Now().Add(-2*time.Second)) {
		return nil, fmt.Errorf("%w: expiration time cannot be in the past", ErrInvalidExpiry)
	}

	if req.Alias != nil && strings.TrimSpace(*req.Alias) != "" {
		return s.shortenWithAlias(strings.TrimSpace(*req.Alias), req.URL, req.ExpiresAt)
	}
	return s.shortenGenerated(req.URL, req.ExpiresAt)
}

func (s *shortenerService) shortenWithAlias(alias, originalURL string, expiresAt *time.Time) (*entities.URLMapping, error) {
	if err := validateAlias(alias); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByShortCode(alias)
	if err != nil {
		return nil, fmt.Errorf("failed to look up alias: %w", err)
	}
	if existing != nil {
		// Same URL + same alias: idempotent re-shorten, refresh the cache entry
		if existing.OriginalURL == originalURL {
			s.writeThrough(existing)
			return existing, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrAliasConflict, alias)
	}

	return s.createMapping(alias, originalURL, true, expiresAt)
}

func (s *shortenerService) shortenGenerated(originalURL string, expiresAt *time.Time) (*entities.URLMapping, error) {
	existing, err := s.repo.FindByOriginalURL(originalURL)
	if err != nil {
		return nil, fmt.Errorf("failed to look up URL: %w", err)
	}
	if existing != nil && !existing.IsExpired() {
		// URL already shortened and still live, reuse its code
		s.writeThrough(existing)
		return existing, nil
	}

	code, err := s.createUniqueShortCode()
	if err != nil {
		return nil, err
	}
	return s.createMapping(code, originalURL, false, expiresAt)
}

func (s *shortenerService) createMapping(shortCode, originalURL string, isCustom bool, expiresAt *time.Time) (*entities.URLMapping, error) {
	if expiresAt == nil {
		def := time.Now().Add(defaultExpiry).UTC()
		expiresAt = &def
	}

	mapping, err := s.repo.Create(shortCode, originalURL, isCustom, expiresAt)
	if err != nil {
		return nil, err
	}

	s.writeThrough(mapping)
	return mapping, nil
}

// Resolve returns the destination URL for a short code.
// The cache is trusted on hit; on miss or cache failure the store is the
// source of truth and expiry is checked there. Expired rows stay in place.
func (s *shortenerService) Resolve(shortCode string) (string, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(s.ctx, cachePrefix+shortCode); err == nil && cached != "" {
			return cached, nil
		}
	}

	mapping, err := s.repo.FindByShortCode(shortCode)
	if err != nil {
		return "", err
	}
	if mapping == nil || mapping.IsExpired() {
		return "", ErrNotFound
	}

	s.writeThrough(mapping)
	return mapping.OriginalURL, nil
}

// Stats returns the stored mapping for a short code, expired or not
func (s *shortenerService) Stats(shortCode string) (*entities.URLMapping, error) {
	mapping, err := s.repo.FindByShortCode(shortCode)
	if err != nil {
		return nil, err
	}
	if mapping == nil {
		return nil, ErrNotFound
	}
	return mapping, nil
}

// writeThrough populates the cache entry for a mapping. The TTL is the
// remaining time to expiry, or the default when none is set. Failures are
// swallowed: the cache is not authoritative.
func (s *shortenerService) writeThrough(mapping *entities.URLMapping) {
	if s.cache == nil {
		return
	}

	ttl := defaultExpiry
	if mapping.ExpiresAt != nil {
		ttl = time.Until(*mapping.ExpiresAt)
		if ttl <= 0 {
			return
		}
	}

	if err := s.cache.Set(s.ctx, cachePrefix+mapping.ShortCode, mapping.OriginalURL, ttl); err != nil {
		log.Printf("Warning: cache write failed for %s: %v", mapping.ShortCode, err)
	}
}
