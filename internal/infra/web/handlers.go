package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"catalog-broadcast-bot/internal/domain"
	"catalog-broadcast-bot/internal/domain/model"
	"catalog-broadcast-bot/internal/domain/ports/repository"
)

// productCreateRequest mirrors model.Product but lets "available" be omitted.
type productCreateRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Price       string `json:"price"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Age         string `json:"age"`
	Available   *bool  `json:"available"`
}

func (req productCreateRequest) product() *model.Product {
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	return &model.Product{
		Name:        req.Name,
		Type:        req.Type,
		Price:       req.Price,
		Image:       req.Image,
		Description: req.Description,
		Age:         req.Age,
		Available:   available,
	}
}

func productsListHandler(repo repository.ProductRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := repo.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list products")
			return
		}
		if products == nil {
			products = []model.Product{}
		}
		writeJSON(w, http.StatusOK, products)
	}
}

func productsCreateHandler(repo repository.ProductRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req productCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		p := req.product()
		if err := repo.Create(r.Context(), p); err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to create product")
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

// productsUpdateHandler applies only the fields present in the body.
func productsUpdateHandler(repo repository.ProductRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch model.ProductPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		p, err := repo.Update(r.Context(), chi.URLParam(r, "id"), patch)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "product not found")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "failed to update product")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func productsDeleteHandler(repo repository.ProductRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := repo.Delete(r.Context(), chi.URLParam(r, "id"))
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "product not found")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "failed to delete product")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
