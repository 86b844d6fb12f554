//go:build !integration

package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"catalog-broadcast-bot/internal/domain/model"
	"catalog-broadcast-bot/internal/infra/metrics"
)

func newTestServer(repo *mockProductRepo) http.Handler {
	return NewServer(repo, 0, newTestLogger()).Routes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	rr := do(t, newTestServer(&mockProductRepo{}), http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK || rr.Body.String() != "OK" {
		t.Fatalf("unexpected health response %d %q", rr.Code, rr.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	metrics.MustRegister()
	h := newTestServer(&mockProductRepo{})
	do(t, h, http.MethodGet, "/api/products", "")

	rr := do(t, h, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `route="/api/products`) {
		t.Fatalf("expected http_requests_total for the products route in:\n%s", rr.Body.String())
	}
}

func TestProductsCRUD(t *testing.T) {
	repo := &mockProductRepo{}
	h := newTestServer(repo)

	t.Run("empty list is an array", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/api/products", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		if strings.TrimSpace(rr.Body.String()) != "[]" {
			t.Fatalf("expected [], got %q", rr.Body.String())
		}
	})

	var created model.Product
	t.Run("create defaults available", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/api/products",
			`{"name":"Teddy","type":"Toy","price":"10","image":"https://i.ibb.co/x","description":"Soft","age":"3+"}`)
		if rr.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if created.ID == "" || !created.Available || created.Name != "Teddy" {
			t.Fatalf("unexpected product %+v", created)
		}
		if !strings.Contains(rr.Body.String(), `"_id":`) {
			t.Fatalf("expected _id in body %s", rr.Body.String())
		}
	})

	t.Run("create keeps explicit available=false", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/api/products", `{"name":"Old","available":false}`)
		var p model.Product
		_ = json.Unmarshal(rr.Body.Bytes(), &p)
		if rr.Code != http.StatusCreated || p.Available {
			t.Fatalf("unexpected %d %+v", rr.Code, p)
		}
	})

	t.Run("create rejects bad json", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/api/products", `{"name":`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
	})

	t.Run("partial update", func(t *testing.T) {
		rr := do(t, h, http.MethodPut, "/api/products/"+created.ID, `{"price":"12"}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		var p model.Product
		_ = json.Unmarshal(rr.Body.Bytes(), &p)
		if p.Price != "12" || p.Name != "Teddy" || p.Image != "https://i.ibb.co/x" || !p.Available {
			t.Fatalf("unexpected product after patch %+v", p)
		}
	})

	t.Run("update unknown id", func(t *testing.T) {
		rr := do(t, h, http.MethodPut, "/api/products/nope", `{"price":"1"}`)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rr.Code)
		}
	})

	t.Run("delete", func(t *testing.T) {
		rr := do(t, h, http.MethodDelete, "/api/products/"+created.ID, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		var body map[string]string
		_ = json.Unmarshal(rr.Body.Bytes(), &body)
		if body["message"] != "deleted" {
			t.Fatalf("unexpected body %v", body)
		}

		rr = do(t, h, http.MethodDelete, "/api/products/"+created.ID, "")
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404 on second delete, got %d", rr.Code)
		}
	})
}

func TestProductsErrors(t *testing.T) {
	t.Run("list failure", func(t *testing.T) {
		rr := do(t, newTestServer(&mockProductRepo{ListError: errors.New("db down")}), http.MethodGet, "/api/products", "")
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rr.Code)
		}
	})

	t.Run("create failure", func(t *testing.T) {
		rr := do(t, newTestServer(&mockProductRepo{CreateError: errors.New("db down")}), http.MethodPost, "/api/products", `{"name":"x"}`)
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rr.Code)
		}
	})

	t.Run("panic is recovered", func(t *testing.T) {
		rr := do(t, newTestServer(&mockProductRepo{PanicOnList: true}), http.MethodGet, "/api/products", "")
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rr.Code)
		}
	})
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	newTestServer(&mockProductRepo{}).ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin, got %q", got)
	}
}
