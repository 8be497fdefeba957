package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/atinyakov/BillboardWatch/internal/models"
)

// PostgresReportRepository implements report persistence using a
// PostgreSQL database.
type PostgresReportRepository struct {
	DB *sql.DB
}

// NewPostgresReportRepository creates a new PostgresReportRepository
// with the given database connection.
func NewPostgresReportRepository(db *sql.DB) *PostgresReportRepository {
	return &PostgresReportRepository{DB: db}
}

const reportColumns = `id, user_id, violation_type, description, latitude, longitude, address, image_urls, status, created_at, updated_at`

// CreateReport inserts a new report. Image URLs are stored JSON-encoded.
func (r *PostgresReportRepository) CreateReport(ctx context.Context, report *models.Report) error {
	urls, err := json.Marshal(report.ImageURLs)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
        INSERT INTO reports (id, user_id, violation_type, description, latitude, longitude, address, image_urls, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		report.ID, report.UserID, report.ViolationType, report.Description,
		report.Latitude, report.Longitude, nullable(report.Address), string(urls),
		report.Status, report.CreatedAt, report.UpdatedAt,
	)
	return err
}

func scanReport(scan func(dest ...any) error) (*models.Report, error) {
	var (
		report  models.Report
		address sql.NullString
		urls    sql.NullString
	)
	err := scan(&report.ID, &report.UserID, &report.ViolationType, &report.Description,
		&report.Latitude, &report.Longitude, &address, &urls,
		&report.Status, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		return nil, err
	}
	report.Address = address.String
	if urls.Valid && urls.String != "" {
		if err := json.Unmarshal([]byte(urls.String), &report.ImageURLs); err != nil {
			return nil, err
		}
	}
	return &report, nil
}

// ReportByID fetches a report by id. Returns (nil, nil) when absent.
func (r *PostgresReportRepository) ReportByID(ctx context.Context, id string) (*models.Report, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id)
	report, err := scanReport(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return report, err
}

// ReportsByUser fetches all reports filed by the user, newest first.
func (r *PostgresReportRepository) ReportsByUser(ctx context.Context, userID string) ([]models.Report, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT `+reportColumns+` FROM reports
         WHERE user_id = $1
         ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReports(rows)
}

// ListReports fetches reports, newest first, optionally filtered by
// status and paged by limit/offset.
func (r *PostgresReportRepository) ListReports(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, error) {
	if limit <= 0 {
		limit = 50
	}
	var (
		rows *sql.Rows
		err  error
	)
	if status != "" {
		rows, err = r.DB.QueryContext(ctx, `
            SELECT `+reportColumns+` FROM reports
             WHERE status = $1
             ORDER BY created_at DESC
             LIMIT $2 OFFSET $3`, status, limit, offset)
	} else {
		rows, err = r.DB.QueryContext(ctx, `
            SELECT `+reportColumns+` FROM reports
             ORDER BY created_at DESC
             LIMIT $1 OFFSET $2`, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReports(rows)
}

// UpdateReportStatus advances a report through the review workflow.
func (r *PostgresReportRepository) UpdateReportStatus(ctx context.Context, id string, status models.ReportStatus) error {
	_, err := r.DB.ExecContext(ctx, `
        UPDATE reports SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	return err
}

// CountsByUser returns the submitted and verified report counts for the
// user.
func (r *PostgresReportRepository) CountsByUser(ctx context.Context, userID string) (submitted, verified int, err error) {
	err = r.DB.QueryRowContext(ctx, `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status IN ('verified', 'resolved'))
          FROM reports
         WHERE user_id = $1`, userID,
	).Scan(&submitted, &verified)
	return submitted, verified, err
}

// LeaderboardRow holds per-user report totals for the leaderboard.
type LeaderboardRow struct {
	UserID   string
	Name     string
	Reports  int
	Verified int
}

// Leaderboard returns per-user report totals, ordered by verified count
// and then total count.
func (r *PostgresReportRepository) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.DB.QueryContext(ctx, `
        SELECT u.id, u.name,
               COUNT(r.id),
               COUNT(r.id) FILTER (WHERE r.status IN ('verified', 'resolved'))
          FROM users u
          JOIN reports r ON r.user_id = u.id
         GROUP BY u.id, u.name
         ORDER BY 4 DESC, 3 DESC
         LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leaders []LeaderboardRow
	for rows.Next() {
		var row LeaderboardRow
		if err := rows.Scan(&row.UserID, &row.Name, &row.Reports, &row.Verified); err != nil {
			return nil, err
		}
		leaders = append(leaders, row)
	}
	return leaders, rows.Err()
}

func collectReports(rows *sql.Rows) ([]models.Report, error) {
	var reports []models.Report
	for rows.Next() {
		report, err := scanReport(rows.Scan)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}
