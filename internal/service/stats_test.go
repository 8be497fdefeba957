package service

import (
	"context"
	"testing"

	"github.com/atinyakov/BillboardWatch/internal/models"
	"github.com/atinyakov/BillboardWatch/internal/repository"
)

type mockStatsRepo struct {
	CountsByUserFunc func(ctx context.Context, userID string) (int, int, error)
	LeaderboardFunc  func(ctx context.Context, limit int) ([]repository.LeaderboardRow, error)
}

func (m *mockStatsRepo) CountsByUser(ctx context.Context, userID string) (int, int, error) {
	return m.CountsByUserFunc(ctx, userID)
}
func (m *mockStatsRepo) Leaderboard(ctx context.Context, limit int) ([]repository.LeaderboardRow, error) {
	return m.LeaderboardFunc(ctx, limit)
}

type mockMapRepo struct {
	reports []models.Report
}

func (m *mockMapRepo) ListReports(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, error) {
	return m.reports, nil
}

func TestPoints(t *testing.T) {
	tests := []struct {
		name      string
		submitted int
		verified  int
		want      int
	}{
		{"no reports", 0, 0, 0},
		{"first report bonus", 1, 0, 60},
		{"verified adds points", 3, 2, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := points(tt.submitted, tt.verified); got != tt.want {
				t.Errorf("points(%d, %d) = %d; want %d", tt.submitted, tt.verified, got, tt.want)
			}
		})
	}
}

func TestPlayerStats(t *testing.T) {
	stats := &mockStatsRepo{
		CountsByUserFunc: func(ctx context.Context, userID string) (int, int, error) {
			return 3, 2, nil
		},
		LeaderboardFunc: func(ctx context.Context, limit int) ([]repository.LeaderboardRow, error) {
			return []repository.LeaderboardRow{
				{UserID: "u9", Name: "Top", Reports: 20, Verified: 18},
				{UserID: "u1", Name: "Me", Reports: 3, Verified: 2},
			}, nil
		},
	}
	svc := NewStatsService(stats, &mockMapRepo{})

	got, err := svc.PlayerStats(context.Background(), "u1")
	if err != nil {
		t.Fatalf("PlayerStats failed: %v", err)
	}
	if got.Rank != 2 {
		t.Errorf("rank = %d; want 2", got.Rank)
	}
	if got.Points != 130 || got.ReportsSubmitted != 3 || got.ReportsVerified != 2 {
		t.Errorf("unexpected stats %+v", got)
	}
}

func TestPlayerStats_OffLeaderboard(t *testing.T) {
	stats := &mockStatsRepo{
		CountsByUserFunc: func(ctx context.Context, userID string) (int, int, error) {
			return 1, 0, nil
		},
		LeaderboardFunc: func(ctx context.Context, limit int) ([]repository.LeaderboardRow, error) {
			return []repository.LeaderboardRow{{UserID: "u9", Reports: 20, Verified: 18}}, nil
		},
	}
	svc := NewStatsService(stats, &mockMapRepo{})

	got, err := svc.PlayerStats(context.Background(), "u1")
	if err != nil {
		t.Fatalf("PlayerStats failed: %v", err)
	}
	if got.Rank != 0 {
		t.Errorf("rank = %d; want 0 for a user off the leaderboard", got.Rank)
	}
}

func TestLeaderboard_RanksAndScores(t *testing.T) {
	stats := &mockStatsRepo{
		LeaderboardFunc: func(ctx context.Context, limit int) ([]repository.LeaderboardRow, error) {
			if limit != leaderboardSize {
				t.Errorf("limit = %d; want %d", limit, leaderboardSize)
			}
			return []repository.LeaderboardRow{
				{UserID: "u1", Name: "Alice", Reports: 10, Verified: 8},
				{UserID: "u2", Name: "Bob", Reports: 12, Verified: 5},
			}, nil
		},
	}
	svc := NewStatsService(stats, &mockMapRepo{})

	leaders, err := svc.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if len(leaders) != 2 {
		t.Fatalf("got %d entries; want 2", len(leaders))
	}
	if leaders[0].Rank != 1 || leaders[1].Rank != 2 {
		t.Errorf("ranks = (%d, %d)", leaders[0].Rank, leaders[1].Rank)
	}
	// 10 reports, 8 verified: 50 + 10*10 + 8*25 = 350
	if leaders[0].Points != 350 {
		t.Errorf("points = %d; want 350", leaders[0].Points)
	}
}

func TestViolations_ExcludesRejected(t *testing.T) {
	svc := NewStatsService(&mockStatsRepo{}, &mockMapRepo{reports: []models.Report{
		{ID: "r1", Status: models.StatusSubmitted, Latitude: 1, Longitude: 2},
		{ID: "r2", Status: models.StatusRejected, Latitude: 3, Longitude: 4},
		{ID: "r3", Status: models.StatusVerified, Latitude: 5, Longitude: 6},
	}})

	violations, err := svc.Violations(context.Background())
	if err != nil {
		t.Fatalf("Violations failed: %v", err)
	}
	if len(violations) != 2 {
		t.Fatalf("got %d violations; want 2", len(violations))
	}
	for _, v := range violations {
		if v.ID == "r2" {
			t.Errorf("rejected report must be left off the map")
		}
	}
}

func TestHeatmap_AggregatesCells(t *testing.T) {
	svc := NewStatsService(&mockStatsRepo{}, &mockMapRepo{reports: []models.Report{
		{ID: "r1", Latitude: 10.771, Longitude: 106.691, Status: models.StatusSubmitted},
		{ID: "r2", Latitude: 10.772, Longitude: 106.694, Status: models.StatusSubmitted},
		{ID: "r3", Latitude: 10.90, Longitude: 106.90, Status: models.StatusSubmitted},
	}})

	points, err := svc.Heatmap(context.Background())
	if err != nil {
		t.Fatalf("Heatmap failed: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d cells; want 2", len(points))
	}
	var maxWeight int
	for _, p := range points {
		if p.Weight > maxWeight {
			maxWeight = p.Weight
		}
	}
	if maxWeight != 2 {
		t.Errorf("max cell weight = %d; want 2", maxWeight)
	}
}

func TestNearby_FiltersByDistance(t *testing.T) {
	svc := NewStatsService(&mockStatsRepo{}, &mockMapRepo{reports: []models.Report{
		{ID: "close", Latitude: 10.771, Longitude: 106.691, Status: models.StatusSubmitted},
		{ID: "far", Latitude: 11.50, Longitude: 107.50, Status: models.StatusSubmitted},
	}})

	nearby, err := svc.Nearby(context.Background(), 10.77, 106.69, 5)
	if err != nil {
		t.Fatalf("Nearby failed: %v", err)
	}
	if len(nearby) != 1 || nearby[0].ID != "close" {
		t.Errorf("unexpected result %+v", nearby)
	}
}
