// File: internal/infra/adapters/catalog/http_catalog_client.go
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"catalog-broadcast-bot/internal/domain"
	"catalog-broadcast-bot/internal/domain/model"
	"catalog-broadcast-bot/internal/domain/ports/adapter"
	"catalog-broadcast-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

var _ adapter.CatalogClient = (*HTTPCatalogClient)(nil)

const productsPath = "/api/products"

// maxErrorBody bounds how much of a failed response is kept for the error message.
const maxErrorBody = 512

// HTTPCatalogClient talks JSON to the catalog store's /api/products endpoints.
type HTTPCatalogClient struct {
	baseURL string
	client  *http.Client
	log     *zerolog.Logger
}

func NewHTTPCatalogClient(baseURL string, timeout time.Duration, logger *zerolog.Logger) (*HTTPCatalogClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid catalog base url %q", baseURL)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPCatalogClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     logger,
	}, nil
}

func (c *HTTPCatalogClient) List(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	if err := c.do(ctx, "list", http.MethodGet, productsPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPCatalogClient) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	body := *p
	body.ID = "" // assigned by the store
	var out model.Product
	if err := c.do(ctx, "create", http.MethodPost, productsPath, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPCatalogClient) Update(ctx context.Context, id string, patch model.ProductPatch) (*model.Product, error) {
	var out model.Product
	if err := c.do(ctx, "update", http.MethodPut, productsPath+"/"+url.PathEscape(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPCatalogClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, productsPath+"/"+url.PathEscape(id), nil, nil)
}

// do sends one request. Transport errors and non-2xx answers come back as errors
// carrying the status and the server's message; 404 wraps domain.ErrNotFound.
func (c *HTTPCatalogClient) do(ctx context.Context, op, method, path string, body, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveCatalogRequest("catalog_"+op, err, time.Since(start).Milliseconds())
	}()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(resp.Body)
		c.log.Debug().Str("op", op).Int("status", resp.StatusCode).Str("message", msg).Msg("catalog request failed")
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// errorMessage prefers {"message"} or {"error"} from a JSON body, falling back to raw text.
func errorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "empty response"
	}
	return text
}
