// File: internal/infra/adapters/imagehost/imgbb_uploader.go
package imagehost

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"catalog-broadcast-bot/internal/domain/ports/adapter"
	"catalog-broadcast-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

var _ adapter.ImageHost = (*ImgBBUploader)(nil)

const (
	DefaultEndpoint = "https://api.imgbb.com/1/upload"
	maxImageBytes   = 32 << 20 // ImgBB upload limit
)

// ImgBBUploader downloads a chat-hosted image and republishes it on ImgBB.
type ImgBBUploader struct {
	apiKey   string
	endpoint string
	client   *http.Client
	log      *zerolog.Logger
}

func NewImgBBUploader(apiKey, endpoint string, timeout time.Duration, logger *zerolog.Logger) (*ImgBBUploader, error) {
	if apiKey == "" {
		return nil, errors.New("imgbb api key empty")
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid imgbb endpoint: %w", err)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ImgBBUploader{
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		log:      logger,
	}, nil
}

// Upload returns the display URL of the republished image.
func (u *ImgBBUploader) Upload(ctx context.Context, sourceURL string) (hosted string, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveCatalogRequest("image_upload", err, time.Since(start).Milliseconds())
	}()

	img, err := u.fetch(ctx, sourceURL)
	if err != nil {
		return "", err
	}

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	if err := mw.WriteField("image", base64.StdEncoding.EncodeToString(img)); err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}

	endpoint := u.endpoint + "?key=" + url.QueryEscape(u.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &form)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("imgbb upload: %w", redactKey(err, u.apiKey))
	}
	defer resp.Body.Close()

	var out struct {
		Data struct {
			URL        string `json:"url"`
			DisplayURL string `json:"display_url"`
		} `json:"data"`
		Success bool `json:"success"`
		Status  int  `json:"status"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", fmt.Errorf("imgbb status %d: undecodable response: %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !out.Success {
		msg := out.Error.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("imgbb status %d: %s", resp.StatusCode, msg)
	}

	hosted = out.Data.DisplayURL
	if hosted == "" {
		hosted = out.Data.URL
	}
	if hosted == "" {
		return "", errors.New("imgbb returned no url")
	}
	u.log.Debug().Str("url", hosted).Int("bytes", len(img)).Msg("image uploaded")
	return hosted, nil
}

func (u *ImgBBUploader) fetch(ctx context.Context, sourceURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", stripURL(err))
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", stripURL(err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}
	img, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	if len(img) > maxImageBytes {
		return nil, errors.New("fetch image: file exceeds 32 MB")
	}
	if len(img) == 0 {
		return nil, errors.New("fetch image: empty file")
	}
	return img, nil
}

// stripURL drops the source URL from transport errors. Telegram file URLs
// carry the bot token in their path.
func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}

// redactKey keeps the api key out of *url.Error messages shown to operators.
func redactKey(err error, key string) error {
	return errors.New(strings.ReplaceAll(err.Error(), key, "***"))
}
