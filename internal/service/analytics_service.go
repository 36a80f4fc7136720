package service

import (
	"fmt"
	"time"

	"linkpulse-be/internal/entities"
	"linkpulse-be/internal/models"
	"linkpulse-be/internal/repository"
)

const recentClickLimit = 10
const topReferrerLimit = 10

// AnalyticsService is the read-side query surface over persisted click
// records. Every view is derived; nothing here mutates state.
type AnalyticsService interface {
	GetAnalytics(shortCode string) (*models.AnalyticsResponse, error)
}

type analyticsService struct {
	repo repository.AnalyticsRepository
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(repo repository.AnalyticsRepository) AnalyticsService {
	return &analyticsService{repo: repo}
}

// GetAnalytics assembles the aggregate views for one short code
func (s *analyticsService) GetAnalytics(shortCode string) (*models.AnalyticsResponse, error) {
	total, err := s.repo.CountByShortCode(shortCode)
	if err != nil {
		return nil, fmt.Errorf("failed to count clicks: %w", err)
	}

	recent, err := s.repo.FindRecent(shortCode, recentClickLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent clicks: %w", err)
	}

	byCountry, err := s.repo.CountByCountry(shortCode)
	if err != nil {
		return nil, fmt.Errorf("failed to group clicks by country: %w", err)
	}

	byDevice, err := s.repo.CountByDevice(shortCode)
	if err != nil {
		return nil, fmt.Errorf("failed to group clicks by device: %w", err)
	}

	dayAgo := time.Now().Add(-24 * time.Hour)
	byHour, err := s.repo.CountByHour(shortCode, dayAgo)
	if err != nil {
		return nil, fmt.Errorf("failed to group clicks by hour: %w", err)
	}

	referrers, err := s.repo.TopReferrers(shortCode, topReferrerLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank referrers: %w", err)
	}

	if recent == nil {
		recent = []*entities.ClickAnalytics{}
	}

	return &models.AnalyticsResponse{
		ShortCode:       shortCode,
		TotalClicks:     total,
		RecentClicks:    recent,
		ClicksByCountry: byCountry,
		ClicksByDevice:  byDevice,
		ClicksByHour:    byHour,
		TopReferrers:    referrers,
	}, nil
}
