// Package api is the HTTP client for the bookstore/courses/exams server.
// Mutating calls POST JSON with the anti-forgery token attached and decode
// the server's {success, message|error} envelope; read calls feed the pages.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// tokenHeader carries the anti-forgery token on mutating requests.
	tokenHeader = "X-CSRFToken"
	// requestIDHeader carries a per-call correlation id.
	requestIDHeader = "X-Request-ID"

	defaultTimeout = 15 * time.Second
)

// TokenSource supplies the anti-forgery token for mutating requests.
type TokenSource interface {
	Token() (string, error)
}

// Client talks to the admin web application.
type Client struct {
	base   string
	hc     *http.Client
	tokens TokenSource
	log    *zap.Logger
}

// New returns a Client for the given base URL. tokens may be nil when no
// cookie file is configured; mutating requests are then sent without a
// token and the server rejects them.
func New(base string, tokens TokenSource, log *zap.Logger) *Client {
	return &Client{
		base:   strings.TrimRight(base, "/"),
		hc:     &http.Client{Timeout: defaultTimeout},
		tokens: tokens,
		log:    log,
	}
}

// PlaceOrder submits a quick order.
func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (Outcome, error) {
	if err := req.Validate(); err != nil {
		return Outcome{}, err
	}
	return c.postAction(ctx, "/books/quick-order/", req)
}

// ProcessReturn submits a book return for an order line.
func (c *Client) ProcessReturn(ctx context.Context, req ReturnRequest) (Outcome, error) {
	if err := req.Validate(); err != nil {
		return Outcome{}, err
	}
	return c.postAction(ctx, "/books/return-book/", req)
}

// FinishExam triggers the irreversible exam submission for the given exam.
func (c *Client) FinishExam(ctx context.Context, examID int64) (Outcome, error) {
	return c.postAction(ctx, fmt.Sprintf("/exams/%d/finish/", examID), struct{}{})
}

func (c *Client) postAction(ctx context.Context, path string, payload any) (Outcome, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Outcome{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return Outcome{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	c.attachToken(req)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn("action request failed", zap.String("path", path), zap.Error(err))
		return Outcome{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("action rejected",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return Outcome{}, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrBadBody, err)
	}

	c.log.Info("action completed",
		zap.String("path", path),
		zap.Bool("success", env.Success),
		zap.Duration("took", time.Since(start)))

	return Outcome{
		OK:       env.Success,
		Message:  env.Message,
		Reason:   env.Error,
		OrderID:  env.OrderID,
		NewStock: env.NewStock,
	}, nil
}

func (c *Client) attachToken(req *http.Request) {
	if c.tokens == nil {
		return
	}
	token, err := c.tokens.Token()
	if err != nil {
		c.log.Warn("anti-forgery token unavailable", zap.Error(err))
		return
	}
	req.Header.Set(tokenHeader, token)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadBody, err)
	}
	return nil
}
