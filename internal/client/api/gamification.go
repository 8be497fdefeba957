package api

import (
	"context"

	"github.com/atinyakov/BillboardWatch/internal/models"
)

// GamificationAPI exposes the points and leaderboard endpoints.
type GamificationAPI struct {
	client *Client
}

// NewGamificationAPI constructs a GamificationAPI over the given client.
func NewGamificationAPI(client *Client) *GamificationAPI {
	return &GamificationAPI{client: client}
}

// Leaderboard fetches the points leaderboard.
func (g *GamificationAPI) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	const fallback = "Failed to load leaderboard"
	resp, err := g.client.Get(ctx, "/gamification/leaderboard", nil)
	if err != nil {
		return nil, opError(err, fallback)
	}
	env, err := decodeEnvelope(resp, fallback)
	if err != nil {
		return nil, err
	}
	var entries []models.LeaderboardEntry
	if err := decodeData(env, &entries, fallback); err != nil {
		return nil, err
	}
	return entries, nil
}

// Stats fetches the authenticated user's gamification stats.
func (g *GamificationAPI) Stats(ctx context.Context) (*models.PlayerStats, error) {
	const fallback = "Failed to load stats"
	resp, err := g.client.Get(ctx, "/gamification/stats", nil)
	if err != nil {
		return nil, opError(err, fallback)
	}
	env, err := decodeEnvelope(resp, fallback)
	if err != nil {
		return nil, err
	}
	var stats models.PlayerStats
	if err := decodeData(env, &stats, fallback); err != nil {
		return nil, err
	}
	return &stats, nil
}
