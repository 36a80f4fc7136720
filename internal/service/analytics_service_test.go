package service

import (
	"testing"
	"time"

	"linkpulse-be/internal/entities"
	"linkpulse-be/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyticsRepo struct {
	total     int64
	recent    []*entities.ClickAnalytics
	byCountry []models.BucketCount
	byDevice  []models.BucketCount
	byHour    []models.HourCount
	referrers []models.BucketCount

	sinceSeen time.Time
	limitSeen int
}

func (f *fakeAnalyticsRepo) Insert(record *entities.ClickAnalytics) error { return nil }

func (f *fakeAnalyticsRepo) CountByShortCode(shortCode string) (int64, error) {
	return f.total, nil
}

func (f *fakeAnalyticsRepo) FindRecent(shortCode string, limit int) ([]*entities.ClickAnalytics, error) {
	f.limitSeen = limit
	return f.recent, nil
}

func (f *fakeAnalyticsRepo) CountByCountry(shortCode string) ([]models.BucketCount, error) {
	return f.byCountry, nil
}

func (f *fakeAnalyticsRepo) CountByDevice(shortCode string) ([]models.BucketCount, error) {
	return f.byDevice, nil
}

func (f *fakeAnalyticsRepo) CountByHour(shortCode string, since time.Time) ([]models.HourCount, error) {
	f.sinceSeen = since
	return f.byHour, nil
}

func (f *fakeAnalyticsRepo) TopReferrers(shortCode string, limit int) ([]models.BucketCount, error) {
	return f.referrers, nil
}

func TestGetAnalyticsAssemblesViews(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		total: 42,
		recent: []*entities.ClickAnalytics{
			{ShortCode: "abc1234567", DeviceType: "Mobile"},
		},
		byCountry: []models.BucketCount{{Bucket: "Germany", Count: 30}, {Bucket: "Unknown", Count: 12}},
		byDevice:  []models.BucketCount{{Bucket: "Mobile", Count: 25}, {Bucket: "Desktop", Count: 17}},
		byHour:    []models.HourCount{{Hour: 9, Count: 20}, {Hour: 14, Count: 22}},
		referrers: []models.BucketCount{{Bucket: "https://news.ycombinator.com", Count: 18}},
	}
	svc := NewAnalyticsService(repo)

	resp, err := svc.GetAnalytics("abc1234567")
	require.NoError(t, err)

	assert.Equal(t, "abc1234567", resp.ShortCode)
	assert.Equal(t, int64(42), resp.TotalClicks)
	assert.Len(t, resp.RecentClicks, 1)
	assert.Equal(t, repo.byCountry, resp.ClicksByCountry)
	assert.Equal(t, repo.byDevice, resp.ClicksByDevice)
	assert.Equal(t, repo.byHour, resp.ClicksByHour)
	assert.Equal(t, repo.referrers, resp.TopReferrers)

	assert.Equal(t, recentClickLimit, repo.limitSeen)
	assert.WithinDuration(t, time.Now().Add(-24*time.Hour), repo.sinceSeen, time.Minute)
}

func TestGetAnalyticsEmpty(t *testing.T) {
	svc := NewAnalyticsService(&fakeAnalyticsRepo{})

	resp, err := svc.GetAnalytics("unseen1234")
	require.NoError(t, err)

	assert.Zero(t, resp.TotalClicks)
	assert.NotNil(t, resp.RecentClicks)
	assert.Empty(t, resp.RecentClicks)
}
