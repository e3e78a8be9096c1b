package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"
)

// Uploader pushes an image to the external hosting service and returns the
// hosted URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, folder string) (string, error)
}

// HTTPUploader talks to the image host over HTTP multipart.
type HTTPUploader struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPUploader(baseURL, apiKey string, timeoutMs int) *HTTPUploader {
	if timeoutMs <= 0 {
		timeoutMs = 5000
	}

	return &HTTPUploader{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: time.Duration(timeoutMs) * time.Millisecond},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// Upload posts the bytes under the given folder tag and returns secure_url.
func (u *HTTPUploader) Upload(ctx context.Context, data []byte, folder string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("folder", folder); err != nil {
		return "", err
	}
	fw, err := mw.CreateFormFile("file", "image")
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/upload", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if u.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.apiKey)
	}

	res, err := u.client.Do(req)
	if err != nil {
		return "", err
	}

	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return "", fmt.Errorf("upload: folder=%s status=%d", folder, res.StatusCode)
	}

	var out uploadResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("upload: decode response: %w", err)
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("upload: response missing secure_url")
	}

	return out.SecureURL, nil
}
