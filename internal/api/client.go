package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskmaster/internal/session"
)

// Client talks to the TaskMaster backend. The bearer token is read from the
// session on every call so login and logout apply to the next request
// without rebuilding the client.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
}

func NewClient(baseURL string, timeout time.Duration, sess *session.Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: sess,
	}
}

type call struct {
	op       string
	fallback string
	method   string
	path     string
	body     any
	into     any
}

func (c *Client) do(ctx context.Context, req call) error {
	var reader io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return &RequestError{Op: req.op, Message: req.fallback}
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, reader)
	if err != nil {
		return &RequestError{Op: req.op, Message: req.fallback}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.session.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return &RequestError{Op: req.op, Message: req.fallback}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Op: req.op, StatusCode: resp.StatusCode, Message: req.fallback}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return normalizeError(req.op, req.fallback, resp.StatusCode, body)
	}

	if req.into != nil && len(body) > 0 {
		if err := json.Unmarshal(body, req.into); err != nil {
			return &RequestError{Op: req.op, StatusCode: resp.StatusCode, Message: req.fallback}
		}
	}
	return nil
}
