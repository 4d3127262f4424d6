// Package upstream holds the HTTP clients for the user, menu and order
// services. All three share one JSON client that maps transport failures and
// non-2xx answers onto domain errors.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/foodapp/storefront/internal/api/metrics"
	"github.com/foodapp/storefront/internal/core/domain"
)

const maxErrorBody = 64 << 10

// Client is a JSON-over-HTTP client bound to one backend service.
type Client struct {
	service string
	baseURL string
	http    *http.Client
}

// NewClient returns a client for service rooted at baseURL. The http client
// carries the timeout and the tracing transport.
func NewClient(service, baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
}

// envelope is the {success, data} wrapper some endpoints answer with.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// do sends body as JSON and decodes the answer into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body, out any) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.UpstreamRequestDuration.WithLabelValues(c.service, outcome).Observe(time.Since(start).Seconds())
	}()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", c.service, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", c.service, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.Canceled) {
			outcome = "canceled"
			return ctxErr
		}
		if isUnavailable(err) {
			outcome = "unavailable"
			return fmt.Errorf("%s service: %w: %v", c.service, domain.ErrUpstreamUnavailable, err)
		}
		outcome = "network_error"
		return fmt.Errorf("%s service: %w: %v", c.service, domain.ErrUpstreamNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = "http_error"
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.UpstreamError{
			Service:    c.service,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(raw, resp.StatusCode),
			Body:       raw,
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome = "network_error"
		return fmt.Errorf("%s service: read body: %w: %v", c.service, domain.ErrUpstreamNetwork, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := decode(raw, out); err != nil {
		outcome = "decode_error"
		return fmt.Errorf("decode %s response: %w", c.service, err)
	}
	return nil
}

// decode unwraps a {success, data} envelope when present.
func decode(raw []byte, out any) error {
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		var env envelope
		if err := json.Unmarshal(raw, &env); err == nil && env.Success != nil && len(env.Data) > 0 {
			raw = env.Data
		}
	}
	return json.Unmarshal(raw, out)
}

// errorMessage picks the most useful message out of an error body.
func errorMessage(raw []byte, status int) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" && len(text) < 200 && !strings.HasPrefix(text, "<") {
		return text
	}
	return http.StatusText(status)
}

// isUnavailable reports connection refusals and timeouts.
func isUnavailable(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func itoa(id int64) string { return fmt.Sprint(id) }
