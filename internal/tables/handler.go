package tables

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Marcial-ar/tpv/internal/domain"
)

type Lister interface {
	TablesByZone(ctx context.Context, zone domain.Zone) ([]domain.Table, error)
}

type Handler struct {
	repo   Lister
	logger *slog.Logger
}

func NewHandler(repo Lister, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// HandleList serves GET /tables?zone=... and defaults to the terrace.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	zone := domain.DefaultZone
	if q := r.URL.Query().Get("zone"); q != "" {
		z, err := domain.ParseZone(q)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid zone")
			return
		}
		zone = z
	}

	tables, err := h.repo.TablesByZone(r.Context(), zone)
	if err != nil {
		h.logger.Error("failed to list tables", "error", err, "zone", zone)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("tables listed", "zone", zone, "count", len(tables))
	h.writeJSON(w, http.StatusOK, tables)
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
