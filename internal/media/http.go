package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type compressRequest struct {
	LocalRef string `json:"local_ref"`
	MaxBytes int64  `json:"max_bytes"`
}

type compressResponse struct {
	CompressedRef string `json:"compressed_ref"`
}

type uploadRequest struct {
	CompressedRef string `json:"compressed_ref"`
	Destination   string `json:"destination"`
}

type uploadResponse struct {
	RemoteRef string `json:"remote_ref"`
}

// HTTPClient talks to the media pipeline service. Compress and Upload are
// separate calls; retries live on the pipeline's side, not here.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL: baseURL,
	}
}

func (c *HTTPClient) Compress(ctx context.Context, localRef string, maxBytes int64) (string, error) {
	var resp compressResponse
	err := c.post(ctx, "/compress", compressRequest{LocalRef: localRef, MaxBytes: maxBytes}, &resp)
	if err != nil {
		return "", err
	}
	return resp.CompressedRef, nil
}

func (c *HTTPClient) Upload(ctx context.Context, compressedRef, destination string) (string, error) {
	var resp uploadResponse
	err := c.post(ctx, "/upload", uploadRequest{CompressedRef: compressedRef, Destination: destination}, &resp)
	if err != nil {
		return "", err
	}
	return resp.RemoteRef, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal media request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create media request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call media pipeline: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("media pipeline returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode media response: %w", err)
	}
	return nil
}
