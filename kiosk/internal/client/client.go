package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"menugenius/domain"

	"go.uber.org/zap"
)

const maxBodyBytes = 4 << 20

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type TokenSource interface {
	Token() (string, error)
}

type Config struct {
	BaseURL string
	HTTP    HTTPClient
	// Tokens is optional. Requests go out without Authorization when it
	// returns an error.
	Tokens TokenSource
	// OnUnauthorized runs after a 401 response.
	OnUnauthorized func()
}

// Client talks to the order service. Every call is single shot: failures are
// categorized with the domain sentinels and returned, never retried.
type Client struct {
	baseURL        string
	http           HTTPClient
	tokens         TokenSource
	onUnauthorized func()
	logger         *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		http:           httpClient,
		tokens:         cfg.Tokens,
		onUnauthorized: cfg.OnUnauthorized,
		logger:         logger,
	}
}

// do sends one request and returns the raw body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: encode request: %v", domain.ErrValidation, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok, err := c.tokens.Token(); err == nil && tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrConnectivity, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrConnectivity, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	detail := errorDetail(raw, resp.Status)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, detail)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, detail)
	case resp.StatusCode == http.StatusConflict:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidTransition, detail)
	case resp.StatusCode == http.StatusUnauthorized:
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, detail)
	case resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, detail)
	default:
		c.logger.Error("order service error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail))
		return nil, fmt.Errorf("%w: %s", domain.ErrServer, detail)
	}
}

// callEnvelope decodes an enveloped response and unwraps its data.
func callEnvelope[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T
	raw, err := c.do(ctx, method, path, body)
	if err != nil {
		return zero, err
	}
	var env domain.Envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return zero, fmt.Errorf("%w: malformed response: %v", domain.ErrServer, err)
	}
	if !env.Success {
		return zero, fmt.Errorf("%w: %s", domain.ErrServer, joinMessages(env.Message, env.Errors))
	}
	if env.Data == nil {
		return zero, fmt.Errorf("%w: response carried no data", domain.ErrServer)
	}
	return *env.Data, nil
}

func callPlain[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var out T
	raw, err := c.do(ctx, method, path, body)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%w: malformed response: %v", domain.ErrServer, err)
	}
	return out, nil
}

func errorDetail(raw []byte, status string) string {
	var env domain.Envelope[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err == nil && (env.Message != "" || len(env.Errors) > 0) {
		return joinMessages(env.Message, env.Errors)
	}
	if text := strings.TrimSpace(string(raw)); text != "" && len(text) < 200 {
		return text
	}
	return status
}

func joinMessages(message string, errs []string) string {
	parts := make([]string, 0, len(errs)+1)
	if message != "" {
		parts = append(parts, message)
	}
	parts = append(parts, errs...)
	if len(parts) == 0 {
		return "unknown error"
	}
	return strings.Join(parts, "; ")
}

// IsRetryable reports whether the caller may reasonably try the same call
// again later.
func IsRetryable(err error) bool {
	return errors.Is(err, domain.ErrConnectivity) || errors.Is(err, domain.ErrServer)
}
