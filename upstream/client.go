// Package upstream talks to the remote storage service that issues the
// one-time write URLs.
package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/moyoez/uploadkit/tool"
	"github.com/moyoez/uploadkit/types"
)

const DefaultBaseURL = "https://uploadjoy.com/api/v2"

// FetchError is a non-2xx answer of the remote service.
type FetchError struct {
	StatusCode int
	Body       []byte
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("upstream answered %d: %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// Detail returns the body as decoded JSON when possible, as text otherwise.
func (e *FetchError) Detail() any {
	var v any
	if len(e.Body) > 0 && sonic.Unmarshal(e.Body, &v) == nil {
		return v
	}
	return string(e.Body)
}

type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// New builds a client for baseURL, DefaultBaseURL when empty.
func New(apiKey, baseURL string, httpClient *http.Client) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	endpoint, err := tool.BuildUpstreamURL(baseURL)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = tool.GetHttpClient()
	}
	return &Client{apiKey: apiKey, endpoint: endpoint, httpClient: httpClient}, nil
}

// FetchPresignedURLs forwards the keyed file list and decodes the returned
// destinations.
func (c *Client) FetchPresignedURLs(ctx context.Context, request types.UpstreamRequest) (types.Destinations, error) {
	payload, err := sonic.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal upstream request: %v", err)
	}

	req, err := tool.NewHTTPReqWithApplication(http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload)))
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send upstream request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close response body: %v", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		tool.DefaultLogger.Errorf("[Upstream] %s answered %s: %s", c.endpoint, resp.Status, string(body))
		return nil, &FetchError{StatusCode: resp.StatusCode, Body: body}
	}

	var dest types.Destinations
	if err := sonic.Unmarshal(body, &dest); err != nil {
		return nil, fmt.Errorf("failed to parse upstream response: %w", err)
	}
	if dest == nil {
		return nil, fmt.Errorf("upstream response is not an object")
	}
	tool.DefaultLogger.Debugf("[Upstream] Issued %d destinations", len(dest))
	return dest, nil
}
