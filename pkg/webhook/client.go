package webhook

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jobirk/chirped-pulse-simulation/pkg/config"
	"github.com/jobirk/chirped-pulse-simulation/pkg/models"
)

// Client pushes computed frames to the plotting frontend over HTTP
// with pooled connections.
type Client struct {
	url        string
	httpClient *http.Client
	config     *config.Config
	bufferPool sync.Pool // buffers for JSON marshaling
}

// NewClient creates a new webhook client with optimized connection pooling
func NewClient(url string, cfg *config.Config) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,

		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,

		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: false,
		},

		ResponseHeaderTimeout: 30 * time.Second,

		// Frame payloads compress poorly (dense float arrays) and
		// the frontend is on the same network.
		DisableCompression: true,
		ForceAttemptHTTP2:  false,
	}

	client := &Client{
		url:    url,
		config: cfg,
		httpClient: &http.Client{
			Timeout:   45 * time.Second,
			Transport: transport,
		},
		bufferPool: sync.Pool{
			New: func() interface{} {
				return bytes.NewBuffer(make([]byte, 0, 4096))
			},
		},
	}

	return client
}

// Send pushes a single frame to the configured webhook URL.
func (c *Client) Send(item models.WebhookItem) error {
	fitErr := c.sanitizeFloat(item.FitErr)
	if fitErr != item.FitErr {
		log.Printf("Warning: fit residual sanitized from %v to %v", item.FitErr, fitErr)
	}

	payload := models.WebhookResponse{
		ID:            item.RequestID,
		Time:          time.Now().Format(time.RFC3339Nano),
		SimTime:       item.SimTime,
		Z:             item.Z,
		Field:         sanitizeSlice(item.Field),
		Envelope:      sanitizeSlice(item.Envelope),
		FitParameters: sanitizeSlice(item.FitParams),
		FitResidual:   fitErr,
		Components:    item.Components,
	}

	buf := c.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer c.bufferPool.Put(buf)

	encoder := json.NewEncoder(buf)
	if err := encoder.Encode(payload); err != nil {
		return fmt.Errorf("failed to marshal webhook data: %w", err)
	}

	resp, err := c.httpClient.Post(c.url, "application/json", bytes.NewReader(buf.Bytes()))
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if !c.config.Quiet {
		log.Printf("Webhook sent - ID: %s, t=%.3f, residual: %.6e, Status: %d",
			item.RequestID, item.SimTime, item.FitErr, resp.StatusCode)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook request failed with status %d", resp.StatusCode)
	}

	return nil
}

// sanitizeFloat cleans float64 values for JSON compatibility
func (c *Client) sanitizeFloat(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0.0
	}
	return value
}

func sanitizeSlice(values []float64) []float64 {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			values[i] = 0
		}
	}
	return values
}
