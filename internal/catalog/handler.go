package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Marcial-ar/tpv/internal/domain"
)

// Finder loads a single product regardless of whether it is active.
type Finder interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type Handler struct {
	source Source
	finder Finder
	logger *slog.Logger
}

func NewHandler(source Source, finder Finder, logger *slog.Logger) *Handler {
	return &Handler{
		source: source,
		finder: finder,
		logger: logger,
	}
}

// HandleListProducts serves the active catalog. ?q= matches a case-insensitive
// substring of the name and ?category= an exact category name.
func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.source.ActiveProducts(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	products = filterProducts(products, r.URL.Query().Get("q"), r.URL.Query().Get("category"))

	h.logger.Info("products listed", "count", len(products))
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.finder.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get product", "error", err, "product_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if product == nil {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	h.writeJSON(w, http.StatusOK, product)
}

// HandleListCategories returns the sorted category names that have at least
// one active product.
func (h *Handler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	products, err := h.source.ActiveProducts(r.Context())
	if err != nil {
		h.logger.Error("failed to list categories", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, categories(products))
}

func filterProducts(products []domain.Product, query, category string) []domain.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" && category == "" {
		return products
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		if category != "" && p.CategoryName != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

func categories(products []domain.Product) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range products {
		if p.CategoryName == "" {
			continue
		}
		if _, ok := seen[p.CategoryName]; ok {
			continue
		}
		seen[p.CategoryName] = struct{}{}
		out = append(out, p.CategoryName)
	}
	sort.Strings(out)
	return out
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
