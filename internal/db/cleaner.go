package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartOTPCleaner removes expired and consumed one-time codes with interval
func StartOTPCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				res, err := db.ExecContext(ctx, `
                    DELETE FROM otp_codes
                     WHERE consumed = true
                        OR expires_at < NOW()
                `)
				if err != nil {
					log.Error("failed to clean one-time codes", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned one-time codes", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
