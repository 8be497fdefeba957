package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/BillboardWatch/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxDescriptionLength = 500

// Report validation errors.
var (
	ErrInvalidViolationType = errors.New("unknown violation type")
	ErrInvalidDescription   = fmt.Errorf("description is required and must be at most %d characters", maxDescriptionLength)
	ErrInvalidLocation      = errors.New("location is out of range")
	ErrReportNotFound       = errors.New("report not found")
)

// ReportRepository defines the persistence operations needed by the
// ReportService.
type ReportRepository interface {
	CreateReport(ctx context.Context, report *models.Report) error
	// ReportByID returns (nil, nil) when absent.
	ReportByID(ctx context.Context, id string) (*models.Report, error)
	ReportsByUser(ctx context.Context, userID string) ([]models.Report, error)
	ListReports(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, error)
}

// NotificationRepository defines notification persistence for the
// ReportService.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	NotificationsByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, id string) error
}

// SubmitReportInput is the validated report submission payload.
type SubmitReportInput struct {
	ViolationType models.ViolationType
	Description   string
	Latitude      float64
	Longitude     float64
	Address       string
	ImageURLs     []string
}

// ReportService implements the violation-report workflow.
type ReportService struct {
	repo          ReportRepository
	notifications NotificationRepository
	log           *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(repo ReportRepository, notifications NotificationRepository, log *zap.Logger) *ReportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportService{repo: repo, notifications: notifications, log: log}
}

// Submit validates and files a new report for the user, and queues a
// confirmation notification.
func (s *ReportService) Submit(ctx context.Context, userID string, input SubmitReportInput) (*models.Report, error) {
	if !input.ViolationType.Valid() {
		return nil, ErrInvalidViolationType
	}
	if input.Description == "" || len(input.Description) > maxDescriptionLength {
		return nil, ErrInvalidDescription
	}
	if input.Latitude < -90 || input.Latitude > 90 || input.Longitude < -180 || input.Longitude > 180 {
		return nil, ErrInvalidLocation
	}

	now := time.Now().UTC()
	report := &models.Report{
		ID:            uuid.NewString(),
		UserID:        userID,
		ViolationType: input.ViolationType,
		Description:   input.Description,
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
		Address:       input.Address,
		ImageURLs:     input.ImageURLs,
		Status:        models.StatusSubmitted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.CreateReport(ctx, report); err != nil {
		return nil, err
	}

	// The report is filed regardless of whether the notification lands.
	notification := &models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Category:  models.CategoryReportStatus,
		Title:     "Report submitted",
		Body:      "Your violation report was received and is awaiting review.",
		CreatedAt: now,
	}
	if err := s.notifications.CreateNotification(ctx, notification); err != nil {
		s.log.Warn("failed to create submission notification", zap.Error(err))
	}

	return report, nil
}

// ByID fetches a single report.
func (s *ReportService) ByID(ctx context.Context, id string) (*models.Report, error) {
	report, err := s.repo.ReportByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}
	return report, nil
}

// ByUser fetches all reports filed by the user.
func (s *ReportService) ByUser(ctx context.Context, userID string) ([]models.Report, error) {
	return s.repo.ReportsByUser(ctx, userID)
}

// List fetches reports filtered by status and paged by limit/offset.
func (s *ReportService) List(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("unknown report status %q", status)
	}
	return s.repo.ListReports(ctx, status, limit, offset)
}

// Notifications fetches the user's notification feed.
func (s *ReportService) Notifications(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.notifications.NotificationsByUser(ctx, userID)
}

// MarkNotificationRead marks one of the user's notifications as read.
func (s *ReportService) MarkNotificationRead(ctx context.Context, userID, id string) error {
	return s.notifications.MarkNotificationRead(ctx, userID, id)
}
