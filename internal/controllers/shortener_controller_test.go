package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"linkpulse-be/internal/entities"
	"linkpulse-be/internal/models"
	"linkpulse-be/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShortener struct {
	mapping    *entities.URLMapping
	shortenErr error
	resolveURL string
	resolveErr error
}

func (f *fakeShortener) Shorten(req *models.CreateURLRequest) (*entities.URLMapping, error) {
	if f.shortenErr != nil {
		return nil, f.shortenErr
	}
	return f.mapping, nil
}

func (f *fakeShortener) Resolve(shortCode string) (string, error) {
	if f.resolveErr != nil {
		return "", f.resolveErr
	}
	return f.resolveURL, nil
}

func (f *fakeShortener) Stats(shortCode string) (*entities.URLMapping, error) {
	if f.mapping == nil {
		return nil, service.ErrNotFound
	}
	return f.mapping, nil
}

type emission struct {
	shortCode, ip, userAgent, referer string
}

type fakeProducer struct {
	mu        sync.Mutex
	emissions []emission
}

func (f *fakeProducer) Emit(shortCode, ipAddress, userAgent, referer string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emissions = append(f.emissions, emission{shortCode, ipAddress, userAgent, referer})
}

func newTestRouter(shortener service.ShortenerService, producer *fakeProducer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewShortenerController(shortener, producer, "http://sho.rt")

	router := gin.New()
	router.GET("/:shortCode", controller.RedirectToURL)
	router.POST("/api/v1/shorten", controller.CreateShortURL)
	router.GET("/api/v1/url/:shortCode", controller.GetURLStats)
	return router
}

func TestRedirectEmitsClickEvent(t *testing.T) {
	producer := &fakeProducer{}
	router := newTestRouter(&fakeShortener{resolveURL: "https://example.com"}, producer)

	req := httptest.NewRequest(http.MethodGet, "/abc1234567", nil)
	req.Header.Set("User-Agent", "TestAgent/1.0")
	req.Header.Set("Referer", "https://referrer.example.com")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://example.com", w.Header().Get("Location"))

	require.Len(t, producer.emissions, 1)
	got := producer.emissions[0]
	assert.Equal(t, "abc1234567", got.shortCode)
	assert.Equal(t, "203.0.113.7", got.ip)
	assert.Equal(t, "TestAgent/1.0", got.userAgent)
	assert.Equal(t, "https://referrer.example.com", got.referer)
}

func TestRedirectNotFoundEmitsNothing(t *testing.T) {
	producer := &fakeProducer{}
	router := newTestRouter(&fakeShortener{resolveErr: service.ErrNotFound}, producer)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing123", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, producer.emissions)
}

func TestCreateShortURL(t *testing.T) {
	now := time.Now()
	mapping := &entities.URLMapping{
		ShortCode:   "abc1234567",
		OriginalURL: "https://example.com",
		CreatedAt:   now,
	}
	router := newTestRouter(&fakeShortener{mapping: mapping}, &fakeProducer{})

	body := strings.NewReader(`{"url":"https://example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/shorten", body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.CreateURLResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "abc1234567", resp.ShortCode)
	assert.Equal(t, "http://sho.rt/abc1234567", resp.ShortURL)
}

func TestCreateShortURLErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid alias", service.ErrInvalidAlias, http.StatusBadRequest},
		{"invalid expiry", service.ErrInvalidExpiry, http.StatusBadRequest},
		{"alias conflict", service.ErrAliasConflict, http.StatusConflict},
		{"code space exhausted", service.ErrCodeSpaceExhausted, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeShortener{shortenErr: tt.err}, &fakeProducer{})

			body := strings.NewReader(`{"url":"https://example.com","alias":"promo"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/shorten", body)
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCreateShortURLRejectsBadBody(t *testing.T) {
	router := newTestRouter(&fakeShortener{}, &fakeProducer{})

	body := strings.NewReader(`{"url":"not a url"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/shorten", body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetURLStats(t *testing.T) {
	mapping := &entities.URLMapping{
		ShortCode:   "abc1234567",
		OriginalURL: "https://example.com",
		ClickCount:  7,
		CreatedAt:   time.Now(),
	}
	router := newTestRouter(&fakeShortener{mapping: mapping}, &fakeProducer{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/url/abc1234567", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.URLStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.ClickCount)
}
