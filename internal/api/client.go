// Package api is a typed client for the client-management REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/straye-as/client-admin/internal/domain"
)

// maxErrorBody bounds how much of an error response is read
const maxErrorBody = 1 << 20

// Client talks to the backend. Its services share one http.Client, whose
// transport carries the bearer and failure decorators.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	Clients *ClientsService
	Drafts  *DraftsService
	Logs    *LogsService
	Auth    *AuthService
}

// NewClient creates a backend client. A nil httpClient gets a default with
// a 30 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	c := &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: httpClient,
	}
	c.Clients = &ClientsService{client: c}
	c.Drafts = &DraftsService{client: c}
	c.Logs = &LogsService{client: c}
	c.Auth = &AuthService{client: c}
	return c
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// do sends a JSON request and decodes a JSON response into out.
// Non-2xx responses come back as *domain.APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return parseErrorResponse(resp.StatusCode, data)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseErrorResponse understands the backend's two error shapes:
// {"error": ..., "message": ...} and a flat {"field": "message"} map.
func parseErrorResponse(status int, body []byte) error {
	apiErr := domain.NewAPIError(status, "")

	var fields map[string]string
	if len(body) == 0 || json.Unmarshal(body, &fields) != nil {
		if text := strings.TrimSpace(string(body)); text != "" && len(text) < 512 && !strings.HasPrefix(text, "<") {
			apiErr.Detail = text
		}
		return apiErr
	}

	title, hasTitle := fields["error"]
	message, hasMessage := fields["message"]
	if hasTitle || hasMessage {
		if title != "" {
			apiErr.Title = title
		}
		apiErr.Detail = message
		return apiErr
	}

	if len(fields) > 0 {
		apiErr.Type = domain.ErrorTypeValidation
		apiErr.Errors = fields
	}
	return apiErr
}
