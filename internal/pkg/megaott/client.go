package megaott

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/steadystreamtv/storefront/internal/pkg/config"
)

const subscriptionsPath = "/subscriptions"

// Client talks to the MegaOTT reseller API.
type Client struct {
	BaseURL  string
	APIToken string

	HTTPClient *http.Client
}

// SubscriptionRequest carries the parameters for one provisioning call.
// Package, connection and feature fields are fixed per plan; Username and
// Note vary per order.
type SubscriptionRequest struct {
	Username       string
	PackageID      string
	MaxConnections string
	TemplateID     string
	Note           string
}

// Subscription is the credential set returned by a successful provisioning
// call.
type Subscription struct {
	ID             int64
	Username       string
	Password       string
	DNSLink        string
	PortalLink     string
	PackageName    string
	MaxConnections int
	ExpiringAt     *time.Time
}

// APIError reports a non-success response from the provisioning API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("megaott api error: status=%d body=%s", e.StatusCode, e.Body)
}

// NewClient builds a provisioning client from configuration.
func NewClient(cfg config.MegaOTTConfig) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		APIToken: strings.TrimSpace(cfg.APIToken),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateSubscription provisions one m3u subscription. A single attempt is
// made; the provider keeps the line if we fail afterwards, so callers must
// not retry blindly.
func (c *Client) CreateSubscription(ctx context.Context, req SubscriptionRequest) (*Subscription, error) {
	if c.APIToken == "" {
		return nil, errors.New("MEGAOTT_API_TOKEN is not configured")
	}
	if strings.TrimSpace(req.Username) == "" {
		return nil, errors.New("username is required")
	}

	form := url.Values{}
	form.Set("type", "m3u")
	form.Set("username", req.Username)
	form.Set("package_id", defaultString(req.PackageID, "4"))
	form.Set("max_connections", defaultString(req.MaxConnections, "1"))
	form.Set("template_id", defaultString(req.TemplateID, "1"))
	form.Set("forced_country", "ALL")
	form.Set("adult", "false")
	form.Set("enable_vpn", "true")
	form.Set("paid", "true")
	form.Set("note", req.Note)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+subscriptionsPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIToken)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var raw struct {
		ID             int64  `json:"id"`
		Username       string `json:"username"`
		Password       string `json:"password"`
		DNSLink        string `json:"dns_link"`
		PortalLink     string `json:"portal_link"`
		MaxConnections any    `json:"max_connections"`
		ExpiringAt     string `json:"expiring_at"`
		Package        struct {
			Name string `json:"name"`
		} `json:"package"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("megaott response decode failed: %w", err)
	}
	if strings.TrimSpace(raw.Username) == "" {
		return nil, errors.New("megaott response missing username")
	}

	sub := &Subscription{
		ID:             raw.ID,
		Username:       strings.TrimSpace(raw.Username),
		Password:       strings.TrimSpace(raw.Password),
		DNSLink:        strings.TrimSpace(raw.DNSLink),
		PortalLink:     strings.TrimSpace(raw.PortalLink),
		PackageName:    strings.TrimSpace(raw.Package.Name),
		MaxConnections: parseConnections(raw.MaxConnections),
	}
	if sub.PackageName == "" {
		sub.PackageName = "Fixed Package"
	}
	if ts := strings.TrimSpace(raw.ExpiringAt); ts != "" {
		if t, err := parseTimestamp(ts); err == nil {
			sub.ExpiringAt = &t
		}
	}
	return sub, nil
}

// GenerateUsername returns a username that is unique with overwhelming
// probability even for multiple orders in the same millisecond.
func GenerateUsername() string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("user_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(suffix))
}

func defaultString(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// parseConnections tolerates both string and numeric encodings the API has
// been observed to use.
func parseConnections(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return 1
}

func parseTimestamp(ts string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp format: %s", ts)
}
