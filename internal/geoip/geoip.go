package geoip

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Resolver maps an IP address to a country and city. Empty strings mean
// unknown; a Resolver never returns an error to its caller.
type Resolver interface {
	Lookup(ip string) (country, city string)
}

type cacheItem struct {
	country string
	city    string
	expires time.Time
}

// Client resolves IPs against the ipwho.is HTTP API, with an in-memory
// TTL cache and a short-circuit for private and loopback addresses.
type Client struct {
	mu      sync.Mutex
	cache   map[string]cacheItem
	ttl     time.Duration
	baseURL string
	client  *http.Client
}

// NewClient creates a geo lookup client. ttl bounds how long one IP's
// result is reused.
func NewClient(ttl time.Duration) *Client {
	return &Client{
		cache:   make(map[string]cacheItem),
		ttl:     ttl,
		baseURL: "https://ipwho.is",
		client:  &http.Client{Timeout: 2 * time.Second},
	}
}

// Lookup returns the country and city for an IP, or empty strings when
// the address is private, malformed, or the lookup fails.
func (c *Client) Lookup(ip string) (string, string) {
	if ip == "" || isPrivateIP(ip) {
		return "", ""
	}

	now := time.Now()
	c.mu.Lock()
	if item, ok := c.cache[ip]; ok && now.Before(item.expires) {
		c.mu.Unlock()
		return item.country, item.city
	}
	c.mu.Unlock()

	country, city := c.fetch(ip)

	c.mu.Lock()
	c.cache[ip] = cacheItem{country: country, city: city, expires: now.Add(c.ttl)}
	c.mu.Unlock()

	return country, city
}

func (c *Client) fetch(ip string) (string, string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+ip, nil)
	if err != nil {
		return "", ""
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ""
	}

	var out struct {
		Success bool   `json:"success"`
		Country string `json:"country"`
		City    string `json:"city"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", ""
	}
	if !out.Success {
		return "", ""
	}

	return strings.TrimSpace(out.Country), strings.TrimSpace(out.City)
}

func isPrivateIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return true
	}
	if parsed.IsLoopback() || parsed.IsLinkLocalUnicast() || parsed.IsUnspecified() {
		return true
	}
	if v4 := parsed.To4(); v4 != nil {
		switch {
		case v4[0] == 10:
			return true
		case v4[0] == 172 && v4[1] >= 16 && v4[1] <= 31:
			return true
		case v4[0] == 192 && v4[1] == 168:
			return true
		}
	}
	return false
}
