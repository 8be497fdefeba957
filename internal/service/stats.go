package service

import (
	"context"
	"math"

	"github.com/atinyakov/BillboardWatch/internal/models"
	"github.com/atinyakov/BillboardWatch/internal/repository"
)

// Points awarded per report milestone.
const (
	pointsFirstReport      = 50
	pointsSuccessfulReport = 10
	pointsVerifiedReport   = 25
)

const leaderboardSize = 20

// StatsRepository defines the aggregate queries needed by the
// StatsService.
type StatsRepository interface {
	CountsByUser(ctx context.Context, userID string) (submitted, verified int, err error)
	Leaderboard(ctx context.Context, limit int) ([]repository.LeaderboardRow, error)
}

// MapRepository provides the report listing the map overlays are
// derived from.
type MapRepository interface {
	ListReports(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, error)
}

// StatsService computes gamification standings and map overlays from
// report data.
type StatsService struct {
	stats   StatsRepository
	reports MapRepository
}

// NewStatsService constructs a StatsService.
func NewStatsService(stats StatsRepository, reports MapRepository) *StatsService {
	return &StatsService{stats: stats, reports: reports}
}

// points converts report counts to a score.
func points(submitted, verified int) int {
	score := submitted*pointsSuccessfulReport + verified*pointsVerifiedReport
	if submitted > 0 {
		score += pointsFirstReport
	}
	return score
}

// PlayerStats returns the user's score, rank, and report counts. Rank
// is 0 when the user has not made the leaderboard.
func (s *StatsService) PlayerStats(ctx context.Context, userID string) (*models.PlayerStats, error) {
	submitted, verified, err := s.stats.CountsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	rank := 0
	leaders, err := s.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}
	for _, entry := range leaders {
		if entry.UserID == userID {
			rank = entry.Rank
			break
		}
	}

	return &models.PlayerStats{
		Points:           points(submitted, verified),
		Rank:             rank,
		ReportsSubmitted: submitted,
		ReportsVerified:  verified,
	}, nil
}

// Leaderboard returns the scored leaderboard, best first.
func (s *StatsService) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	rows, err := s.stats.Leaderboard(ctx, leaderboardSize)
	if err != nil {
		return nil, err
	}
	entries := make([]models.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, models.LeaderboardEntry{
			Rank:    i + 1,
			UserID:  row.UserID,
			Name:    row.Name,
			Points:  points(row.Reports, row.Verified),
			Reports: row.Reports,
		})
	}
	return entries, nil
}

// mapListLimit bounds how many reports feed the map overlays.
const mapListLimit = 1000

// Violations returns all mappable reports. Rejected reports are left
// off the map.
func (s *StatsService) Violations(ctx context.Context) ([]models.MapViolation, error) {
	reports, err := s.reports.ListReports(ctx, "", mapListLimit, 0)
	if err != nil {
		return nil, err
	}
	violations := make([]models.MapViolation, 0, len(reports))
	for _, r := range reports {
		if r.Status == models.StatusRejected {
			continue
		}
		violations = append(violations, models.MapViolation{
			ID:            r.ID,
			Latitude:      r.Latitude,
			Longitude:     r.Longitude,
			ViolationType: r.ViolationType,
			Status:        r.Status,
		})
	}
	return violations, nil
}

// Heatmap aggregates violations into weighted cells of roughly 1km,
// by rounding coordinates to two decimal places.
func (s *StatsService) Heatmap(ctx context.Context) ([]models.HeatPoint, error) {
	violations, err := s.Violations(ctx)
	if err != nil {
		return nil, err
	}
	type cell struct{ lat, lng float64 }
	weights := make(map[cell]int)
	for _, v := range violations {
		c := cell{lat: roundCoord(v.Latitude), lng: roundCoord(v.Longitude)}
		weights[c]++
	}
	points := make([]models.HeatPoint, 0, len(weights))
	for c, w := range weights {
		points = append(points, models.HeatPoint{Latitude: c.lat, Longitude: c.lng, Weight: w})
	}
	return points, nil
}

// Nearby returns violations within radiusKM of the given position.
func (s *StatsService) Nearby(ctx context.Context, lat, lng, radiusKM float64) ([]models.MapViolation, error) {
	violations, err := s.Violations(ctx)
	if err != nil {
		return nil, err
	}
	var nearby []models.MapViolation
	for _, v := range violations {
		if haversineKM(lat, lng, v.Latitude, v.Longitude) <= radiusKM {
			nearby = append(nearby, v)
		}
	}
	return nearby, nil
}

func roundCoord(v float64) float64 {
	return math.Round(v*100) / 100
}

// haversineKM is the great-circle distance between two points.
func haversineKM(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKM = 6371.0
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(a))
}
