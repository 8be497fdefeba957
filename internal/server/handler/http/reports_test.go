package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atinyakov/BillboardWatch/internal/models"
	"github.com/atinyakov/BillboardWatch/internal/service"
	"github.com/go-chi/chi/v5"
)

// fakeReportService implements ReportService for testing.
type fakeReportService struct {
	report        *models.Report
	reports       []models.Report
	notifications []models.Notification
	err           error
}

func (f *fakeReportService) Submit(ctx context.Context, userID string, input service.SubmitReportInput) (*models.Report, error) {
	return f.report, f.err
}
func (f *fakeReportService) ByID(ctx context.Context, id string) (*models.Report, error) {
	return f.report, f.err
}
func (f *fakeReportService) ByUser(ctx context.Context, userID string) ([]models.Report, error) {
	return f.reports, f.err
}
func (f *fakeReportService) List(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, error) {
	return f.reports, f.err
}
func (f *fakeReportService) Notifications(ctx context.Context, userID string) ([]models.Notification, error) {
	return f.notifications, f.err
}
func (f *fakeReportService) MarkNotificationRead(ctx context.Context, userID, id string) error {
	return f.err
}

func TestReportHandler_Submit(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		service      *fakeReportService
		expectedCode int
	}{
		{
			name:         "invalid JSON",
			body:         `oops`,
			service:      &fakeReportService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "unknown violation type",
			body:         `{"violationType":"graffiti","description":"d"}`,
			service:      &fakeReportService{err: service.ErrInvalidViolationType},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "location out of range",
			body:         `{"violationType":"oversized","description":"d","latitude":95}`,
			service:      &fakeReportService{err: service.ErrInvalidLocation},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "success",
			body:         `{"violationType":"oversized","description":"d","latitude":10.7,"longitude":106.6}`,
			service:      &fakeReportService{report: &models.Report{ID: "r1"}},
			expectedCode: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/reports", bytes.NewBufferString(tt.body))
			h := &ReportHandler{ReportService: tt.service}
			h.Submit(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("status = %d; want %d", rec.Code, tt.expectedCode)
			}
		})
	}
}

func TestReportHandler_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		h := &ReportHandler{ReportService: &fakeReportService{report: &models.Report{ID: "r1"}}}

		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", "r1")
		req := httptest.NewRequest("GET", "/api/reports/r1", nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		rec := httptest.NewRecorder()

		h.Get(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want 200", rec.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		h := &ReportHandler{ReportService: &fakeReportService{err: service.ErrReportNotFound}}

		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", "missing")
		req := httptest.NewRequest("GET", "/api/reports/missing", nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		rec := httptest.NewRecorder()

		h.Get(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d; want 404", rec.Code)
		}
	})
}

func TestReportHandler_Mine(t *testing.T) {
	h := &ReportHandler{ReportService: &fakeReportService{reports: []models.Report{{ID: "r1"}, {ID: "r2"}}}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/reports/user", nil)

	h.Mine(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body)
	if !env.Success || len(env.Data) == 0 {
		t.Errorf("unexpected envelope %+v", env)
	}
}

func TestReportHandler_List_UnknownStatus(t *testing.T) {
	h := &ReportHandler{ReportService: &fakeReportService{err: service.ErrInvalidViolationType}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/reports?status=bogus", nil)

	h.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", rec.Code)
	}
}

func TestReportHandler_MarkNotificationRead(t *testing.T) {
	h := &ReportHandler{ReportService: &fakeReportService{}}

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "n1")
	req := httptest.NewRequest("POST", "/api/notifications/n1/read", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	h.MarkNotificationRead(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
}
