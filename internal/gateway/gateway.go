// Package gateway is the single choke point for outbound API calls.
//
// Every request goes through Send, which attaches the bearer credential
// when one is active and classifies failures into the apierr taxonomy.
// The 401 policy is fixed and not configurable per call: the credential
// store is cleared and the session-expired hook fires exactly once,
// before the error is returned, so no caller ever acts on a stale
// credential.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"taskchat/internal/apierr"
	"taskchat/internal/credential"
)

// Config holds the gateway construction parameters.
type Config struct {
	// BaseURL is the API base URL; request paths are resolved against it.
	BaseURL string

	// Credentials is the credential store consulted on every send.
	Credentials *credential.Store

	// HTTPClient overrides the transport (for testing). Defaults to
	// http.DefaultClient; timeouts come from per-call contexts.
	HTTPClient *http.Client

	// Logger receives debug-level request logs. Defaults to a no-op.
	Logger *zerolog.Logger

	// OnSessionExpired runs after the credential store has been cleared
	// on a 401, before the error is returned. Optional.
	OnSessionExpired func()
}

// Gateway wraps outbound HTTP calls with auth and error classification.
type Gateway struct {
	base      *url.URL
	client    *http.Client
	creds     *credential.Store
	onExpired func()
	log       zerolog.Logger
}

// New creates a Gateway. BaseURL and Credentials are required.
func New(cfg Config) (*Gateway, error) {
	if cfg.Credentials == nil {
		return nil, fmt.Errorf("gateway: credential store is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("gateway: invalid base URL %q", cfg.BaseURL)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}

	return &Gateway{
		base:      base,
		client:    client,
		creds:     cfg.Credentials,
		onExpired: cfg.OnSessionExpired,
		log:       log,
	}, nil
}

// Send performs one request. body, when non-nil, is JSON-encoded; out,
// when non-nil, receives the decoded 2xx response body. Non-2xx and
// transport failures return an *apierr.Error.
func (g *Gateway) Send(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.base.String()+path, reqBody)
	if err != nil {
		return err
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cred, ok := g.creds.Get(); ok {
		req.Header.Set("Authorization", cred.AuthorizationHeader())
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Debug().Str("method", method).Str("path", path).
			Str("request_id", requestID).Err(err).Msg("transport failure")
		return apierr.NewUnreachable()
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apierr.NewUnreachable()
	}

	g.log.Debug().Str("method", method).Str("path", path).
		Int("status", resp.StatusCode).Str("request_id", requestID).Msg("api request")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(respBody) == 0 {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
		return nil
	}

	return g.classify(resp.StatusCode, respBody)
}

// classify maps a non-2xx response to the error taxonomy. For 401 the
// credential is wiped and the hook fires before the error is returned.
func (g *Gateway) classify(status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized:
		if err := g.creds.Clear(); err != nil {
			g.log.Debug().Err(err).Msg("failed to clear credential after 401")
		}
		if g.onExpired != nil {
			g.onExpired()
		}
		return apierr.NewSessionExpired()
	case status == http.StatusNotFound:
		msg := serverDetail(body)
		if msg == "" {
			msg = "resource"
		}
		return &apierr.Error{Code: apierr.CodeNotFound, Status: status, Message: msg}
	case status >= 400 && status < 500:
		return apierr.NewRejected(status, serverDetail(body))
	default:
		return apierr.NewUnexpected(status, strings.TrimSpace(string(body)))
	}
}

// serverDetail extracts the server-supplied message from an error
// payload. The backend uses {"detail": ...}; {"error": ...} is
// accepted for compatibility.
func serverDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	return payload.Error
}
