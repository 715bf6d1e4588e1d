// Package handler is the thin HTTP layer over the point service. It owns
// request parsing and status mapping; business rules stay in the service.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"donapoint/internal/point/models"
	"donapoint/internal/point/service"
	dErrors "donapoint/pkg/domain-errors"
	"donapoint/pkg/platform/httputil"
)

const defaultRadiusKm = 10

// Handler handles the /points endpoints.
type Handler struct {
	points *service.Service
	logger *slog.Logger
}

// New creates a point Handler.
func New(points *service.Service, logger *slog.Logger) *Handler {
	return &Handler{points: points, logger: logger}
}

// Register registers the point routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/points", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/all", h.handleListAll)
		r.Get("/pending", h.handleListPending)
		r.Get("/near", h.handleNearby)
		r.Get("/search", h.handleSearch)
		r.Get("/organization/{orgID}", h.handleListByOrganization)
		r.Get("/type/{type}", h.handleListByType)
		r.Get("/{id}", h.handleGet)
		r.Post("/", h.handleCreate)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
		r.Post("/{id}/approve", h.handleApprove)
		r.Post("/{id}/reject", h.handleReject)
	})
}

// handleList serves the public map view by default; ?all=true (or 1)
// returns the unfiltered listing for the admin panel.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	var (
		points []*models.Point
		err    error
	)
	if models.ParseAllFlag(r.URL.Query().Get("all")) {
		points, err = h.points.ListAll(r.Context())
	} else {
		points, err = h.points.ListPublic(r.Context())
	}
	h.writeList(w, points, err)
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	points, err := h.points.ListAll(r.Context())
	h.writeList(w, points, err)
}

func (h *Handler) handleListPending(w http.ResponseWriter, r *http.Request) {
	points, err := h.points.ListPending(r.Context())
	h.writeList(w, points, err)
}

func (h *Handler) handleListByOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(chi.URLParam(r, "orgID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid organization id"))
		return
	}
	points, err := h.points.ListByOrganization(r.Context(), orgID)
	h.writeList(w, points, err)
}

func (h *Handler) handleListByType(w http.ResponseWriter, r *http.Request) {
	points, err := h.points.ListByType(r.Context(), chi.URLParam(r, "type"))
	h.writeList(w, points, err)
}

func (h *Handler) handleNearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "lat is required"))
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "lon is required"))
		return
	}
	radiusKm := float64(defaultRadiusKm)
	if raw := q.Get("radiusKm"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "radiusKm must be a number"))
			return
		}
	}

	points, err := h.points.Nearby(r.Context(), lat, lon, radiusKm)
	h.writeList(w, points, err)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	points, err := h.points.SearchByName(r.Context(), r.URL.Query().Get("name"))
	h.writeList(w, points, err)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pointID(w, r)
	if !ok {
		return
	}
	p, err := h.points.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "invalid create point request", "error", err)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	p, err := h.points.Create(r.Context(), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pointID(w, r)
	if !ok {
		return
	}

	var req models.UpdatePointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if dErrors.Is(err, dErrors.CodeBadRequest) {
			httputil.WriteError(w, err)
			return
		}
		h.logger.WarnContext(r.Context(), "invalid update point request", "error", err)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	p, err := h.points.Update(r.Context(), id, &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pointID(w, r)
	if !ok {
		return
	}

	var requesterID *uuid.UUID
	if raw := r.URL.Query().Get("requesterId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid requester id"))
			return
		}
		requesterID = &parsed
	}

	if err := h.points.Delete(r.Context(), id, requesterID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pointID(w, r)
	if !ok {
		return
	}
	p, err := h.points.Approve(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pointID(w, r)
	if !ok {
		return
	}

	var req models.RejectPointRequest
	if r.Body != nil {
		// Reason is optional; an empty or absent body rejects without one.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	p, err := h.points.Reject(r.Context(), id, req.Reason)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) pointID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid point id"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeList(w http.ResponseWriter, points []*models.Point, err error) {
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if points == nil {
		points = []*models.Point{}
	}
	httputil.WriteJSON(w, http.StatusOK, points)
}
