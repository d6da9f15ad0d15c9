package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"aargeom/internal"
	"aargeom/ports"
)

// Client reports AAR telemetry to an external monitoring service over
// HTTP. It degrades gracefully: when disconnected or disabled, every
// send is a cheap no-op and never fails the caller.
type Client struct {
	baseURL   string
	enabled   bool
	timeout   time.Duration
	http      *http.Client
	logger    *internal.Logger
	connected atomic.Bool
}

// Config holds monitoring client settings
type Config struct {
	BaseURL string
	Enabled bool
	Timeout time.Duration
}

// NewClient creates a monitoring client from config
func NewClient(config Config) ports.Monitoring {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(config.BaseURL), "/"),
		enabled: config.Enabled && config.BaseURL != "",
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
		logger:  internal.DefaultLogger,
	}
}

// Connect verifies the monitoring endpoint is reachable.
func (c *Client) Connect(ctx context.Context) error {
	if !c.enabled {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("monitoring unreachable, telemetry disabled: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("monitoring health returned %d, telemetry disabled", resp.StatusCode)
		return nil
	}

	c.connected.Store(true)
	c.logger.Info("connected to monitoring at %s", c.baseURL)
	return nil
}

// Disconnect stops telemetry delivery.
func (c *Client) Disconnect(ctx context.Context) error {
	c.connected.Store(false)
	return nil
}

// IsConnected reports whether telemetry is being delivered.
func (c *Client) IsConnected() bool {
	return c.connected.Load()
}

// SendAARMetrics reports one generation's telemetry. Failures are
// logged and swallowed; telemetry never blocks AAR processing.
func (c *Client) SendAARMetrics(ctx context.Context, metrics ports.AARMetrics) error {
	if !c.connected.Load() {
		return nil
	}

	payload := map[string]interface{}{
		"aar_id":             metrics.AARID.String(),
		"compliance_score":   metrics.ComplianceScore,
		"processing_time_ms": metrics.ProcessingDuration.Milliseconds(),
		"timestamp":          metrics.Timestamp.ISO8601(),
		"source":             "aar_processor",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/metrics/aar", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("failed to send AAR metrics: %v", err)
		return nil
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		c.logger.Warn("monitoring rejected AAR metrics: status=%d", resp.StatusCode)
	}
	return nil
}

// SystemHealth fetches the monitoring service's view of system health.
func (c *Client) SystemHealth(ctx context.Context) (map[string]interface{}, error) {
	if !c.connected.Load() {
		return map[string]interface{}{"status": "disconnected"}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("monitoring health returned %d", resp.StatusCode)
	}

	var health map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, err
	}
	return health, nil
}
