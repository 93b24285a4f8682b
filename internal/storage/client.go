package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUploadFailed is returned when the storage backend rejects an upload
var ErrUploadFailed = errors.New("storage upload failed")

// Client uploads objects to a Supabase storage bucket over its REST API
// and returns publicly accessible URLs.
type Client struct {
	baseURL string
	key     string
	bucket  string
	http    *http.Client
}

// NewClient creates a storage client for the given project URL and bucket
func NewClient(baseURL, key, bucket string) *Client {
	return &Client{
		baseURL: baseURL,
		key:     key,
		bucket:  bucket,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload stores data under path in the bucket and returns its public URL.
// Uploading to an existing path overwrites the object.
func (c *Client) Upload(ctx context.Context, path, contentType string, data []byte) (string, error) {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: status %d: %s", ErrUploadFailed, resp.StatusCode, string(body))
	}

	return c.PublicURL(path), nil
}

// PublicURL returns the public URL for an object in the bucket
func (c *Client) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, path)
}
