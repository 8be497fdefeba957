package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/atinyakov/BillboardWatch/internal/models"
)

func setupReportMock(t *testing.T) (*PostgresReportRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresReportRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func reportRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "violation_type", "description", "latitude", "longitude",
		"address", "image_urls", "status", "created_at", "updated_at",
	})
}

func TestCreateReport(t *testing.T) {
	repo, mock, cleanup := setupReportMock(t)
	defer cleanup()

	now := time.Now().UTC()
	report := &models.Report{
		ID:            "r1",
		UserID:        "u1",
		ViolationType: models.Oversized,
		Description:   "twice the permitted size",
		Latitude:      10.77,
		Longitude:     106.69,
		ImageURLs:     []string{"/uploads/a.jpg"},
		Status:        models.StatusSubmitted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	mock.ExpectExec("INSERT INTO reports").
		WithArgs(report.ID, report.UserID, report.ViolationType, report.Description,
			report.Latitude, report.Longitude, sqlmock.AnyArg(), `["/uploads/a.jpg"]`,
			report.Status, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.CreateReport(context.Background(), report); err != nil {
		t.Fatalf("CreateReport failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestReportByID_Found(t *testing.T) {
	repo, mock, cleanup := setupReportMock(t)
	defer cleanup()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .+ FROM reports WHERE id").
		WithArgs("r1").
		WillReturnRows(reportRows().AddRow(
			"r1", "u1", "oversized", "desc", 10.77, 106.69, nil,
			`["/uploads/a.jpg","/uploads/b.jpg"]`, "submitted", now, now,
		))

	report, err := repo.ReportByID(context.Background(), "r1")
	if err != nil {
		t.Fatalf("ReportByID failed: %v", err)
	}
	if report == nil || report.ID != "r1" {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(report.ImageURLs) != 2 {
		t.Errorf("image URLs = %v; want 2 entries", report.ImageURLs)
	}
	if report.Address != "" {
		t.Errorf("NULL address must read as empty string")
	}
}

func TestReportByID_Absent(t *testing.T) {
	repo, mock, cleanup := setupReportMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM reports WHERE id").
		WithArgs("missing").
		WillReturnRows(reportRows())

	report, err := repo.ReportByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report != nil {
		t.Errorf("expected nil report for absent id, got %+v", report)
	}
}

func TestReportsByUser(t *testing.T) {
	repo, mock, cleanup := setupReportMock(t)
	defer cleanup()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .+ FROM reports").
		WithArgs("u1").
		WillReturnRows(reportRows().
			AddRow("r2", "u1", "no_permit", "d2", 1.0, 2.0, "Main St", nil, "verified", now, now).
			AddRow("r1", "u1", "oversized", "d1", 1.0, 2.0, nil, nil, "submitted", now, now))

	reports, err := repo.ReportsByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ReportsByUser failed: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports; want 2", len(reports))
	}
	if reports[0].Address != "Main St" {
		t.Errorf("address = %q", reports[0].Address)
	}
}

func TestListReports_StatusFilter(t *testing.T) {
	repo, mock, cleanup := setupReportMock(t)
	defer cleanup()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .+ FROM reports").
		WithArgs("verified", 10, 0).
		WillReturnRows(reportRows().
			AddRow("r1", "u1", "oversized", "d", 1.0, 2.0, nil, nil, "verified", now, now))

	reports, err := repo.ListReports(context.Background(), models.StatusVerified, 10, 0)
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(reports) != 1 {
		t.Errorf("got %d reports; want 1", len(reports))
	}
}

func TestListReports_DefaultLimit(t *testing.T) {
	repo, mock, cleanup := setupReportMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM reports").
		WithArgs(50, 0).
		WillReturnRows(reportRows())

	if _, err := repo.ListReports(context.Background(), "", 0, 0); err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCountsByUser(t *testing.T) {
	repo, mock, cleanup := setupReportMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count", "verified"}).AddRow(7, 3))

	submitted, verified, err := repo.CountsByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("CountsByUser failed: %v", err)
	}
	if submitted != 7 || verified != 3 {
		t.Errorf("counts = (%d, %d); want (7, 3)", submitted, verified)
	}
}

func TestLeaderboard(t *testing.T) {
	repo, mock, cleanup := setupReportMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT u.id, u.name").
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "reports", "verified"}).
			AddRow("u1", "Alice", 10, 8).
			AddRow("u2", "Bob", 12, 5))

	leaders, err := repo.Leaderboard(context.Background(), 0)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if len(leaders) != 2 {
		t.Fatalf("got %d rows; want 2", len(leaders))
	}
	if leaders[0].UserID != "u1" || leaders[0].Verified != 8 {
		t.Errorf("unexpected first row %+v", leaders[0])
	}
}

func TestUpdateReportStatus(t *testing.T) {
	repo, mock, cleanup := setupReportMock(t)
	defer cleanup()

	mock.ExpectExec("UPDATE reports SET status").
		WithArgs("r1", models.StatusUnderReview).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateReportStatus(context.Background(), "r1", models.StatusUnderReview); err != nil {
		t.Fatalf("UpdateReportStatus failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
