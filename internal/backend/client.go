// Package backend performs the outbound call to the remote inference
// service and classifies its outcome.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"oceangpt-api/internal/metrics"
	"oceangpt-api/internal/shared"

	"go.uber.org/zap"
)

type Config struct {
	// URL is the inference backend endpoint, e.g. a Modal function URL.
	URL string
	// Timeout bounds a single call end to end. Zero means
	// shared.DefaultBackendTimeout.
	Timeout time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *zap.SugaredLogger
}

func NewClient(cfg Config, log *zap.SugaredLogger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = shared.DefaultBackendTimeout
	}

	tr := &http.Transport{
		Dial: (&net.Dialer{
			Timeout: shared.DefaultDialTimeout,
		}).Dial,
		TLSHandshakeTimeout: shared.DefaultDialTimeout,
		DisableKeepAlives:   false,
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Transport: tr},
		log:        log,
	}
}

// Infer sends one inference request to the backend and classifies the
// outcome. One attempt, no retries: the backend auto-scales from zero and
// cold starts take minutes, so a client-side retry would only compound
// latency. endpoint is a metrics/log label ("query" or "chat").
func (c *Client) Infer(ctx context.Context, endpoint string, payload shared.BackendPayload) Result {
	body, err := json.Marshal(payload)
	if err != nil {
		// Unreachable for this payload shape, but keep the contract:
		// never a raw error across the boundary.
		return RemoteError(0, err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewBuffer(body))
	if err != nil {
		c.log.Warnw("Failed building request", "error", err.Error())
		return ConnectionFailure(err.Error())
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Connection", "keep-alive")

	httpStart := time.Now()
	res, err := c.httpClient.Do(r)
	httpDuration := time.Since(httpStart)
	metrics.BackendCallDuration.WithLabelValues(endpoint).Observe(httpDuration.Seconds())

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.log.Errorw("Request timed out - likely due to model cold start",
				"url", c.cfg.URL,
				"timeout_seconds", c.cfg.Timeout.Seconds(),
				"http_duration_ms", httpDuration.Milliseconds(),
				"endpoint", endpoint)
			metrics.BackendErrorCount.WithLabelValues(endpoint, shared.ErrBackendTimeout.Code).Inc()
			return Timeout()
		}
		c.log.Errorw("HTTP request failed",
			"url", c.cfg.URL,
			"http_duration_ms", httpDuration.Milliseconds(),
			"error", err.Error(),
			"endpoint", endpoint)
		metrics.BackendErrorCount.WithLabelValues(endpoint, shared.ErrFailedBackendReq.Code).Inc()
		return ConnectionFailure(err.Error())
	}

	defer func() {
		if closeErr := res.Body.Close(); closeErr != nil {
			c.log.Warnw("Failed to close response body", "error", closeErr)
		}
	}()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			metrics.BackendErrorCount.WithLabelValues(endpoint, shared.ErrBackendTimeout.Code).Inc()
			return Timeout()
		}
		c.log.Errorw("Failed reading backend response", "error", err.Error(), "endpoint", endpoint)
		metrics.BackendErrorCount.WithLabelValues(endpoint, shared.ErrFailedBackendReq.Code).Inc()
		return ConnectionFailure(err.Error())
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		detail := shared.TruncateBody(string(raw))
		c.log.Errorw("Backend responded with non-2xx",
			"status_code", res.StatusCode,
			"response_body", detail,
			"endpoint", endpoint)
		metrics.BackendErrorCount.WithLabelValues(endpoint, shared.ErrBackendStatus.Code).Inc()
		return RemoteError(res.StatusCode, detail)
	}

	var parsed shared.BackendResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		c.log.Errorw("Failed decoding backend response",
			"error", err.Error(),
			"response_body", shared.TruncateBody(string(raw)),
			"endpoint", endpoint)
		metrics.BackendErrorCount.WithLabelValues(endpoint, shared.ErrBackendBadResponse.Code).Inc()
		return RemoteError(res.StatusCode, fmt.Sprintf("undecodable backend response: %s", err.Error()))
	}

	return Success(parsed.Response)
}
