package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lumen/internal/services"
)

const defaultHTTPTimeout = 30 * time.Second

// remoteClient posts media payloads to a capability service and
// decodes its JSON reply. One client is shared by all remote providers
// so they agree on timeout and transport.
type remoteClient struct {
	httpClient *http.Client
}

func newRemoteClient(timeoutSeconds int) *remoteClient {
	timeout := defaultHTTPTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	return &remoteClient{httpClient: &http.Client{Timeout: timeout}}
}

// postPayload sends raw media bytes and decodes the response into out.
func (c *remoteClient) postPayload(ctx context.Context, stage, endpoint, apiKey string, payload []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return services.Wrap(services.ErrValidation, stage, "build request", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	return c.do(req, stage, out)
}

// getJSON issues a GET and decodes the response into out.
func (c *remoteClient) getJSON(ctx context.Context, stage, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return services.Wrap(services.ErrValidation, stage, "build request", endpoint, err)
	}
	return c.do(req, stage, out)
}

func (c *remoteClient) do(req *http.Request, stage string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrUnavailable, stage, "request", req.URL.Host, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return services.Wrap(services.ErrTransient, stage, "read response", req.URL.Host, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		marker := services.ErrTransient
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			marker = services.ErrValidation
		}
		return services.Wrap(marker, stage, "request", fmt.Sprintf("http %d: %s", resp.StatusCode, snippet), nil)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return services.Wrap(services.ErrValidation, stage, "decode response", req.URL.Host, err)
	}
	return nil
}
