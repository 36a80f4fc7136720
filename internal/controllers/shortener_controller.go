package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"linkpulse-be/internal/clicks"
	"linkpulse-be/internal/models"
	"linkpulse-be/internal/service"

	"github.com/gin-gonic/gin"
)

type ShortenerController struct {
	shortener service.ShortenerService
	producer  clicks.Producer
	baseURL   string
}

func NewShortenerController(shortener service.ShortenerService, producer clicks.Producer, baseURL string) *ShortenerController {
	return &ShortenerController{
		shortener: shortener,
		producer:  producer,
		baseURL:   baseURL,
	}
}

// CreateShortURL handles POST /api/v1/shorten
func (sc *ShortenerController) CreateShortURL(c *gin.Context) {
	var req models.CreateURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	// Ensure expiresAt is in UTC
	if req.ExpiresAt != nil {
		utcTime := req.ExpiresAt.UTC()
		req.ExpiresAt = &utcTime
	}

	mapping, err := sc.shortener.Shorten(&req)
	if err != nil {
		c.JSON(statusForShortenError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, &models.CreateURLResponse{
		ShortCode:   mapping.ShortCode,
		OriginalURL: mapping.OriginalURL,
		ShortURL:    fmt.Sprintf("%s/%s", sc.baseURL, mapping.ShortCode),
		IsCustom:    mapping.IsCustom,
		ExpiresAt:   mapping.ExpiresAt,
		CreatedAt:   mapping.CreatedAt,
	})
}

// RedirectToURL handles GET /:shortCode - redirects to the original URL
// and fires a click event onto the analytics transport. The emission is
// fire-and-forget: it never delays or fails the redirect.
func (sc *ShortenerController) RedirectToURL(c *gin.Context) {
	shortCode := c.Param("shortCode")

	originalURL, err := sc.shortener.Resolve(shortCode)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Short URL not found or expired",
		})
		return
	}

	sc.producer.Emit(
		shortCode,
		clientIP(c),
		c.GetHeader("User-Agent"),
		c.GetHeader("Referer"),
	)

	c.Redirect(http.StatusFound, originalURL)
}

// GetOriginalURLPublic handles GET /api/v1/redirect/:shortCode - returns the original URL as JSON
func (sc *ShortenerController) GetOriginalURLPublic(c *gin.Context) {
	shortCode := c.Param("shortCode")

	originalURL, err := sc.shortener.Resolve(shortCode)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Short URL not found or expired",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"original_url": originalURL,
	})
}

// GetURLStats handles GET /api/v1/url/:shortCode - returns URL statistics
func (sc *ShortenerController) GetURLStats(c *gin.Context) {
	shortCode := c.Param("shortCode")

	mapping, err := sc.shortener.Stats(shortCode)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "URL not found",
		})
		return
	}

	c.JSON(http.StatusOK, &models.URLStatsResponse{
		ShortCode:   mapping.ShortCode,
		OriginalURL: mapping.OriginalURL,
		IsCustom:    mapping.IsCustom,
		ClickCount:  mapping.ClickCount,
		CreatedAt:   mapping.CreatedAt,
		ExpiresAt:   mapping.ExpiresAt,
	})
}

func statusForShortenError(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidAlias), errors.Is(err, service.ErrInvalidExpiry):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAliasConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// clientIP prefers proxy headers over the socket address
func clientIP(c *gin.Context) string {
	if xf := c.GetHeader("X-Forwarded-For"); xf != "" {
		if ip := strings.TrimSpace(strings.Split(xf, ",")[0]); ip != "" {
			return ip
		}
	}
	if xr := strings.TrimSpace(c.GetHeader("X-Real-IP")); xr != "" {
		return xr
	}
	return c.ClientIP()
}
