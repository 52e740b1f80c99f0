package client

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

	"go.uber.org/zap"
)

// Client talks to the external posts API. It never retries: a failed call
// is returned to the caller as is.
type Client struct {
	logger     *zap.Logger
	baseURL    string
	httpClient *http.Client
}

func New(logger *zap.Logger, baseURL string, timeout time.Duration) *Client {
	return &Client{
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, endpoint, token string, query url.Values, body interface{}, out interface{}) error {
	fullURL := c.baseURL + endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		bodyJSON, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request to %s: %w", endpoint, err)
		}
		reader = bytes.NewReader(bodyJSON)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("create request to %s: %w", endpoint, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Add("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Sugar().Errorf("failed to send request to posts api(%s %s): %s", method, endpoint, err.Error())
		return fmt.Errorf("%w: %s", ErrTransport, err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Sugar().Errorf("failed to read response body from posts api(%s %s): %s", method, endpoint, err.Error())
		return fmt.Errorf("%w: %s", ErrTransport, err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var bodyJSON map[string]interface{}
		if err := json.Unmarshal(respBody, &bodyJSON); err != nil {
			bodyJSON = map[string]interface{}{}
			if text := strings.TrimSpace(string(respBody)); text != "" {
				bodyJSON["message"] = text
			}
		}
		apiErr := newAPIError(endpoint, resp.StatusCode, bodyJSON)
		c.logger.Sugar().Infof("ERROR from posts api endpoint(%s), code(%d), details: %s", endpoint, resp.StatusCode, apiErr.Message)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		c.logger.Sugar().Errorf("failed to decode response body from posts api(%s): %s", endpoint, err.Error())
		return fmt.Errorf("%w: %s", ErrBadResponse, err.Error())
	}

	return nil
}
