package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/atinyakov/BillboardWatch/internal/middleware"
	"github.com/atinyakov/BillboardWatch/internal/models"
	"github.com/atinyakov/BillboardWatch/internal/service"
	"github.com/go-chi/chi/v5"
)

// ReportService defines the interface for report and notification
// operations required by the ReportHandler.
type ReportService interface {
	Submit(ctx context.Context, userID string, input service.SubmitReportInput) (*models.Report, error)
	ByID(ctx context.Context, id string) (*models.Report, error)
	ByUser(ctx context.Context, userID string) ([]models.Report, error)
	List(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, error)
	Notifications(ctx context.Context, userID string) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, id string) error
}

// ReportHandler handles HTTP requests for violation reports and the
// notification feed.
type ReportHandler struct {
	ReportService ReportService
}

func reportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrReportNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidViolationType),
		errors.Is(err, service.ErrInvalidDescription),
		errors.Is(err, service.ErrInvalidLocation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// Submit handles POST /api/reports.
func (h *ReportHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ViolationType models.ViolationType `json:"violationType"`
		Description   string               `json:"description"`
		Latitude      float64              `json:"latitude"`
		Longitude     float64              `json:"longitude"`
		Address       string               `json:"address"`
		ImageURLs     []string             `json:"imageUrls"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())
	report, err := h.ReportService.Submit(r.Context(), userID, service.SubmitReportInput{
		ViolationType: req.ViolationType,
		Description:   req.Description,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Address:       req.Address,
		ImageURLs:     req.ImageURLs,
	})
	if err != nil {
		reportError(w, err)
		return
	}
	writeData(w, http.StatusCreated, report)
}

// List handles GET /api/reports with optional status, limit, and offset
// query parameters.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))
	status := models.ReportStatus(query.Get("status"))

	reports, err := h.ReportService.List(r.Context(), status, limit, offset)
	if err != nil {
		if status != "" && !status.Valid() {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		reportError(w, err)
		return
	}
	writeData(w, http.StatusOK, reports)
}

// Mine handles GET /api/reports/user.
func (h *ReportHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	reports, err := h.ReportService.ByUser(r.Context(), userID)
	if err != nil {
		reportError(w, err)
		return
	}
	writeData(w, http.StatusOK, reports)
}

// Get handles GET /api/reports/{id}.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	report, err := h.ReportService.ByID(r.Context(), id)
	if err != nil {
		reportError(w, err)
		return
	}
	writeData(w, http.StatusOK, report)
}

// Notifications handles GET /api/notifications.
func (h *ReportHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	notifications, err := h.ReportService.Notifications(r.Context(), userID)
	if err != nil {
		reportError(w, err)
		return
	}
	writeData(w, http.StatusOK, notifications)
}

// MarkNotificationRead handles POST /api/notifications/{id}/read.
func (h *ReportHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.ReportService.MarkNotificationRead(r.Context(), userID, id); err != nil {
		reportError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, models.Envelope{Success: true, Message: "notification marked read"})
}
