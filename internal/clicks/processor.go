package clicks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"linkpulse-be/internal/entities"
	"linkpulse-be/internal/geoip"
	"linkpulse-be/internal/models"
	"linkpulse-be/internal/repository"
	"linkpulse-be/internal/uaparse"
)

// Result is the outcome of processing one event in a batch. A failed
// event is logged and skipped; it never aborts the rest of the batch.
type Result struct {
	ShortCode string
	Err       error
}

// Processor enriches raw click events and persists analytics records
type Processor struct {
	urls      repository.URLRepository
	analytics repository.AnalyticsRepository
	geo       geoip.Resolver
	ua        uaparse.Parser
}

// NewProcessor creates a click event processor
func NewProcessor(urls repository.URLRepository, analytics repository.AnalyticsRepository, geo geoip.Resolver, ua uaparse.Parser) *Processor {
	return &Processor{
		urls:      urls,
		analytics: analytics,
		geo:       geo,
		ua:        ua,
	}
}

// ProcessBatch handles every event of a batch independently and returns
// the per-event outcomes
func (p *Processor) ProcessBatch(ctx context.Context, batch [][]byte) []Result {
	results := make([]Result, 0, len(batch))
	for _, raw := range batch {
		if ctx.Err() != nil {
			break
		}
		shortCode, err := p.processOne(raw)
		if err != nil {
			log.Printf("click processor: event processing error: %v", err)
		}
		results = append(results, Result{ShortCode: shortCode, Err: err})
	}
	return results
}

func (p *Processor) processOne(raw []byte) (string, error) {
	var event models.ClickEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return "", fmt.Errorf("failed to decode click event: %w", err)
	}
	if event.ShortCode == "" {
		return "", errors.New("click event has no short code")
	}

	record := p.enrich(&event)

	if err := p.analytics.Insert(record); err != nil {
		return event.ShortCode, fmt.Errorf("failed to persist analytics for %s: %w", event.ShortCode, err)
	}
	if err := p.urls.IncrementClickCount(event.ShortCode); err != nil {
		return event.ShortCode, fmt.Errorf("failed to increment click count for %s: %w", event.ShortCode, err)
	}

	return event.ShortCode, nil
}

func (p *Processor) enrich(event *models.ClickEvent) *entities.ClickAnalytics {
	timestamp, err := time.Parse(time.RFC3339Nano, event.Timestamp)
	if err != nil {
		timestamp = time.Now().UTC()
	}

	country, city := p.geo.Lookup(event.IPAddress)
	info := p.ua.Parse(event.UserAgent)

	return &entities.ClickAnalytics{
		ShortCode:      event.ShortCode,
		Timestamp:      timestamp,
		IPAddress:      event.IPAddress,
		UserAgent:      event.UserAgent,
		Referer:        event.Referer,
		Country:        nullable(country),
		City:           nullable(city),
		DeviceType:     classifyDevice(info.DeviceFamily),
		Browser:        info.BrowserFamily,
		BrowserVersion: info.BrowserVersion,
		OS:             info.OSFamily,
		OSVersion:      info.OSVersion,
	}
}

// classifyDevice maps a parsed device family onto Mobile, Tablet or
// Desktop by keyword match, defaulting to Desktop
func classifyDevice(deviceFamily string) string {
	family := strings.ToLower(deviceFamily)
	switch {
	case strings.Contains(family, "mobile") || strings.Contains(family, "phone"):
		return "Mobile"
	case strings.Contains(family, "tablet") || strings.Contains(family, "ipad"):
		return "Tablet"
	default:
		return "Desktop"
	}
}

// nullable collapses an unknown marker to nil
func nullable(value string) *string {
	if value == "" || value == "Unknown" {
		return nil
	}
	return &value
}
