package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/atinyakov/BillboardWatch/internal/middleware"
	"github.com/atinyakov/BillboardWatch/internal/models"
)

// StatsService defines the gamification and map queries required by
// the StatsHandler.
type StatsService interface {
	PlayerStats(ctx context.Context, userID string) (*models.PlayerStats, error)
	Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
	Violations(ctx context.Context) ([]models.MapViolation, error)
	Heatmap(ctx context.Context) ([]models.HeatPoint, error)
	Nearby(ctx context.Context, lat, lng, radiusKM float64) ([]models.MapViolation, error)
}

// StatsHandler handles HTTP requests for gamification standings and
// map overlays.
type StatsHandler struct {
	StatsService StatsService
}

// Stats handles GET /api/gamification/stats.
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	stats, err := h.StatsService.PlayerStats(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeData(w, http.StatusOK, stats)
}

// Leaderboard handles GET /api/gamification/leaderboard.
func (h *StatsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	leaders, err := h.StatsService.Leaderboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeData(w, http.StatusOK, leaders)
}

// Violations handles GET /api/map/violations.
func (h *StatsHandler) Violations(w http.ResponseWriter, r *http.Request) {
	violations, err := h.StatsService.Violations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeData(w, http.StatusOK, violations)
}

// Heatmap handles GET /api/map/heatmap.
func (h *StatsHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	points, err := h.StatsService.Heatmap(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeData(w, http.StatusOK, points)
}

// Nearby handles GET /api/map/nearby?lat=..&lng=..&radius=..
func (h *StatsHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	lat, errLat := strconv.ParseFloat(query.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(query.Get("lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(w, http.StatusBadRequest, "lat and lng are required")
		return
	}
	radius, err := strconv.ParseFloat(query.Get("radius"), 64)
	if err != nil || radius <= 0 {
		radius = 5
	}

	violations, err := h.StatsService.Nearby(r.Context(), lat, lng, radius)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeData(w, http.StatusOK, violations)
}
