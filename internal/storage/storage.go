package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/arriendo-app/api/internal/config"
)

// BlobStore abstracts the object storage used for uploaded document files.
type BlobStore interface {
	// Upload stores the file content under the given key and returns the key.
	Upload(ctx context.Context, key string, file io.Reader, contentType string) (string, error)

	// Delete removes the file stored under the given key.
	Delete(ctx context.Context, key string) error

	// PublicURL returns the public URL for a stored file.
	PublicURL(key string) string
}

// Client uploads files to a Supabase-compatible storage bucket over
// authenticated HTTP.
type Client struct {
	projectID  string
	apiKey     string
	bucket     string
	httpClient *http.Client
}

// NewClient creates a storage client from configuration.
func NewClient(cfg config.StorageConfig) *Client {
	return &Client{
		projectID:  cfg.ProjectID,
		apiKey:     cfg.APIKey,
		bucket:     cfg.Bucket,
		httpClient: &http.Client{},
	}
}

// Upload stores a file in the bucket under the given key.
func (c *Client) Upload(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
	url := fmt.Sprintf("https://%s.supabase.co/storage/v1/object/%s/%s",
		c.projectID, c.bucket, key)

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	return key, nil
}

// Delete removes a file from the bucket.
func (c *Client) Delete(ctx context.Context, key string) error {
	url := fmt.Sprintf("https://%s.supabase.co/storage/v1/object/%s/%s",
		c.projectID, c.bucket, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// PublicURL returns the public URL for a stored file.
func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.supabase.co/storage/v1/object/public/%s/%s",
		c.projectID, c.bucket, key)
}
