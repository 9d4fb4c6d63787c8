package store

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// SupabaseStorage uploads objects to the backend's storage buckets over its
// HTTP API and hands back the public URL for the stored object.
type SupabaseStorage struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewSupabaseStorage builds a storage client for the given project URL and key.
func NewSupabaseStorage(baseURL, apiKey string) *SupabaseStorage {
	return &SupabaseStorage{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{},
	}
}

// Upload writes the object into the bucket and returns its public URL.
func (s *SupabaseStorage) Upload(bucket, objectPath, contentType string, data []byte) (string, error) {
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.BaseURL, bucket, objectPath)
	req, err := http.NewRequest(http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("storage upload failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.BaseURL, bucket, objectPath), nil
}
