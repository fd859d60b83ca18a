package screenshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"tradejournal/internal/config"
	"tradejournal/internal/model"
)

// ErrNotConfigured is returned when no image host API key is set.
var ErrNotConfigured = errors.New("screenshot upload is not configured")

// Uploader stores an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, image io.Reader) (string, error)
}

// ImgBBUploader posts images to an imgbb compatible endpoint.
type ImgBBUploader struct {
	logger     *slog.Logger
	uploadURL  string
	apiKey     string
	maxBytes   int64
	httpClient *http.Client
}

func NewImgBBUploader(logger *slog.Logger, cfg config.ScreenshotConfig) *ImgBBUploader {
	return &ImgBBUploader{
		logger:     logger,
		uploadURL:  cfg.UploadURL,
		apiKey:     cfg.APIKey,
		maxBytes:   cfg.MaxBytes,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type imgbbResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL        string `json:"url"`
		DisplayURL string `json:"display_url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends image as the multipart field "image". Any failure is a
// *model.TransportError.
func (u *ImgBBUploader) Upload(ctx context.Context, filename string, image io.Reader) (string, error) {
	if u.apiKey == "" {
		return "", &model.TransportError{Op: "upload screenshot", Err: ErrNotConfigured}
	}

	body, contentType, err := u.encode(filename, image)
	if err != nil {
		return "", err
	}

	endpoint, err := url.Parse(u.uploadURL)
	if err != nil {
		return "", &model.TransportError{Op: "upload screenshot", Err: err}
	}
	query := endpoint.Query()
	query.Set("key", u.apiKey)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), body)
	if err != nil {
		return "", &model.TransportError{Op: "upload screenshot", Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", &model.TransportError{Op: "upload screenshot", Err: err}
	}
	defer resp.Body.Close()

	var parsed imgbbResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &model.TransportError{Op: "upload screenshot", Err: fmt.Errorf("decode response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK || !parsed.Success || parsed.Data.URL == "" {
		msg := parsed.Error.Message
		if msg == "" {
			msg = "no image url in response"
		}
		return "", &model.TransportError{
			Op:  "upload screenshot",
			Err: fmt.Errorf("image host returned status %d: %s", resp.StatusCode, msg),
		}
	}

	u.logger.Info("Screenshot uploaded", "url", parsed.Data.URL, "duration", time.Since(start))
	return parsed.Data.URL, nil
}

func (u *ImgBBUploader) encode(filename string, image io.Reader) (io.Reader, string, error) {
	if u.maxBytes > 0 {
		image = io.LimitReader(image, u.maxBytes+1)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	n, err := io.Copy(part, image)
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	if n == 0 {
		return nil, "", &model.ValidationError{Field: "image", Reason: "is empty"}
	}
	if u.maxBytes > 0 && n > u.maxBytes {
		return nil, "", &model.ValidationError{Field: "image", Reason: fmt.Sprintf("exceeds %d bytes", u.maxBytes)}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
