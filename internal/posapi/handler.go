package posapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Marcial-ar/tpv/internal/domain"
	"github.com/Marcial-ar/tpv/internal/pos"
)

const headerIdempotencyKey = "Idempotency-Key"

type TableFinder interface {
	Table(ctx context.Context, id string) (*domain.Table, error)
}

// IdempotencyStore keeps finalize responses by client supplied key.
type IdempotencyStore interface {
	Lookup(ctx context.Context, sessionID, key string) ([]byte, error)
	Remember(ctx context.Context, sessionID, key string, response []byte) error
}

type Handler struct {
	sessions *pos.SessionManager
	tables   TableFinder
	idem     IdempotencyStore
	logger   *slog.Logger
}

// NewHandler serves the session endpoints. idem may be nil, in which case
// Idempotency-Key headers are ignored.
func NewHandler(sessions *pos.SessionManager, tables TableFinder, idem IdempotencyStore, logger *slog.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		tables:   tables,
		idem:     idem,
		logger:   logger,
	}
}

type sessionResponse struct {
	ID        string        `json:"id"`
	User      domain.User   `json:"user"`
	StartedAt time.Time     `json:"started_at"`
	Draft     pos.DraftView `json:"draft"`
}

type changeResponse struct {
	Changed bool          `json:"changed"`
	Draft   pos.DraftView `json:"draft"`
}

type finalizeResponse struct {
	Order              *domain.Order `json:"order"`
	ReleasedTable      *domain.Table `json:"released_table,omitempty"`
	TableReleaseFailed bool          `json:"table_release_failed,omitempty"`
}

func newSessionResponse(s *pos.Session) sessionResponse {
	return sessionResponse{
		ID:        s.ID,
		User:      s.User,
		StartedAt: s.StartedAt,
		Draft:     s.Draft(),
	}
}

type startSessionRequest struct {
	UserID string `json:"user_id"`
}

func (h *Handler) HandleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.sessions.Start(r.Context(), req.UserID)
	if err != nil {
		h.writeSessionError(w, err, "failed to start session", "user_id", req.UserID)
		return
	}

	h.writeJSON(w, http.StatusCreated, newSessionResponse(s))
}

func (h *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.sessions.List()
	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, newSessionResponse(s))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, newSessionResponse(s))
}

func (h *Handler) HandleEndSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.sessions.End(id); err != nil {
		h.writeSessionError(w, err, "failed to end session", "session_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type zoneRequest struct {
	Zone string `json:"zone"`
}

func (h *Handler) HandleSetZone(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req zoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	zone, err := domain.ParseZone(req.Zone)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid zone")
		return
	}

	changed, err := s.SetZone(zone)
	if err != nil {
		h.writeSessionError(w, err, "failed to set zone", "session_id", s.ID)
		return
	}

	h.writeJSON(w, http.StatusOK, changeResponse{Changed: changed, Draft: s.Draft()})
}

type tableRequest struct {
	TableID *string `json:"table_id"`
}

func (h *Handler) HandleSelectTable(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req tableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var table *domain.Table
	if req.TableID != nil {
		t, err := h.tables.Table(r.Context(), *req.TableID)
		if err != nil {
			h.logger.Error("failed to get table", "error", err, "table_id", *req.TableID)
			h.writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if t == nil {
			h.writeError(w, http.StatusNotFound, "table not found")
			return
		}
		table = t
	}

	if err := s.SelectTable(table); err != nil {
		h.writeSessionError(w, err, "failed to select table", "session_id", s.ID)
		return
	}

	h.writeJSON(w, http.StatusOK, changeResponse{Changed: true, Draft: s.Draft()})
}

type addLineRequest struct {
	ProductID string `json:"product_id"`
}

func (h *Handler) HandleAddLine(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req addLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	changed, err := s.AddProduct(r.Context(), req.ProductID)
	if err != nil {
		h.logger.Error("failed to add product", "error", err, "session_id", s.ID, "product_id", req.ProductID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !changed {
		h.logger.Warn("product not in active catalog", "session_id", s.ID, "product_id", req.ProductID)
	}

	h.writeJSON(w, http.StatusOK, changeResponse{Changed: changed, Draft: s.Draft()})
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *Handler) HandleUpdateLine(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	changed := s.UpdateQuantity(chi.URLParam(r, "productId"), *req.Quantity)
	h.writeJSON(w, http.StatusOK, changeResponse{Changed: changed, Draft: s.Draft()})
}

func (h *Handler) HandleRemoveLine(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	changed := s.RemoveProduct(chi.URLParam(r, "productId"))
	h.writeJSON(w, http.StatusOK, changeResponse{Changed: changed, Draft: s.Draft()})
}

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	changed := s.Cancel()
	h.writeJSON(w, http.StatusOK, changeResponse{Changed: changed, Draft: s.Draft()})
}

func (h *Handler) HandleFinalize(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	key := r.Header.Get(headerIdempotencyKey)
	if key != "" && h.idem != nil {
		stored, err := h.idem.Lookup(r.Context(), s.ID, key)
		if err != nil {
			h.logger.Warn("idempotency lookup failed", "error", err, "session_id", s.ID)
		} else if stored != nil {
			h.logger.Info("replaying finalize response", "session_id", s.ID)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Idempotent-Replayed", "true")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write(stored)
			return
		}
	}

	completion, err := s.Finalize(r.Context())
	if err != nil {
		h.writeSessionError(w, err, "failed to finalize order", "session_id", s.ID)
		return
	}

	resp := finalizeResponse{
		Order:              completion.Order,
		ReleasedTable:      completion.ReleasedTable,
		TableReleaseFailed: completion.ReleaseErr != nil,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(resp); err != nil {
		h.logger.Error("failed to encode response", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if key != "" && h.idem != nil {
		if err := h.idem.Remember(r.Context(), s.ID, key, buf.Bytes()); err != nil {
			h.logger.Warn("failed to store idempotency key", "error", err, "order_id", completion.Order.ID)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*pos.Session, bool) {
	id := chi.URLParam(r, "id")
	s, err := h.sessions.Get(id)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return s, true
}

// writeSessionError maps core errors onto HTTP statuses.
func (h *Handler) writeSessionError(w http.ResponseWriter, err error, msg string, args ...any) {
	switch {
	case errors.Is(err, pos.ErrSessionNotFound):
		h.writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, pos.ErrUnknownUser):
		h.writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, pos.ErrInactiveUser), errors.Is(err, pos.ErrInvalidRole):
		h.writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, pos.ErrNothingToComplete), errors.Is(err, pos.ErrTableZoneMismatch):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, pos.ErrInvalidZone), errors.Is(err, pos.ErrInvalidLine):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, pos.ErrPersistenceFailure):
		h.logger.Error(msg, append([]any{"error", err}, args...)...)
		h.writeError(w, http.StatusBadGateway, "order could not be saved")
	default:
		h.logger.Error(msg, append([]any{"error", err}, args...)...)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
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
