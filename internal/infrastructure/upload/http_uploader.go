// Package upload pushes feed files to the Bazaarvoice inbox over HTTPS.
package upload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"bv-connector/internal/domain"
	"bv-connector/internal/ports"

	"github.com/rs/zerolog"
)

// HTTPUploader implements Uploader with a single PUT of the feed file to
// the configured endpoint. No transport-level retry: the next scheduled run
// is the retry mechanism.
type HTTPUploader struct {
	client  *http.Client
	baseURL string
	apiKey  string
	logger  zerolog.Logger
}

// NewHTTPUploader creates a new HTTPS uploader for the given endpoint.
func NewHTTPUploader(baseURL, apiKey string, logger zerolog.Logger) ports.Uploader {
	return &HTTPUploader{
		client:  &http.Client{Timeout: 5 * time.Minute},
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger,
	}
}

// Upload sends localPath to baseURL+remotePath. The store provides scope
// context for logging and routing headers.
func (u *HTTPUploader) Upload(ctx context.Context, localPath, remotePath string, store *domain.Store) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open feed file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat feed file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u.baseURL+remotePath, file)
	if err != nil {
		return fmt.Errorf("create upload request: %w", err)
	}
	req.ContentLength = info.Size()
	req.Header.Set("Content-Type", "text/xml")
	if u.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.apiKey)
	}
	if store != nil {
		req.Header.Set("X-Store-Code", store.Code)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("upload feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upload feed: unexpected status %d: %s", resp.StatusCode, body)
	}

	u.logger.Info().
		Str("local", localPath).
		Str("remote", remotePath).
		Int64("bytes", info.Size()).
		Msg("Feed uploaded")
	return nil
}
