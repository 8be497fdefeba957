package api

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strconv"

	"github.com/atinyakov/BillboardWatch/internal/models"
)

// ReportsAPI exposes the violation-report endpoints.
type ReportsAPI struct {
	client *Client
}

// NewReportsAPI constructs a ReportsAPI over the given client.
func NewReportsAPI(client *Client) *ReportsAPI {
	return &ReportsAPI{client: client}
}

// SubmitReportData is the report submission payload.
type SubmitReportData struct {
	ViolationType models.ViolationType `json:"violationType"`
	Description   string               `json:"description"`
	Latitude      float64              `json:"latitude"`
	Longitude     float64              `json:"longitude"`
	Address       string               `json:"address,omitempty"`
	ImageURLs     []string             `json:"imageUrls,omitempty"`
}

// ListReportsOptions filters and pages the public report listing.
type ListReportsOptions struct {
	Status models.ReportStatus
	Limit  int
	Offset int
}

// Submit files a new violation report.
func (r *ReportsAPI) Submit(ctx context.Context, data SubmitReportData) (*models.Report, error) {
	const fallback = "Report submission failed"
	resp, err := r.client.Post(ctx, "/reports", data, nil)
	if err != nil {
		return nil, opError(err, fallback)
	}
	env, err := decodeEnvelope(resp, fallback)
	if err != nil {
		return nil, err
	}
	var report models.Report
	if err := decodeData(env, &report, fallback); err != nil {
		return nil, err
	}
	return &report, nil
}

// List fetches reports, newest first.
func (r *ReportsAPI) List(ctx context.Context, opts ListReportsOptions) ([]models.Report, error) {
	const fallback = "Failed to load reports"
	query := url.Values{}
	if opts.Status != "" {
		query.Set("status", string(opts.Status))
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}
	resp, err := r.client.Get(ctx, "/reports", &RequestOptions{Query: query})
	if err != nil {
		return nil, opError(err, fallback)
	}
	env, err := decodeEnvelope(resp, fallback)
	if err != nil {
		return nil, err
	}
	var reports []models.Report
	if err := decodeData(env, &reports, fallback); err != nil {
		return nil, err
	}
	return reports, nil
}

// ListMine fetches the authenticated user's own reports.
func (r *ReportsAPI) ListMine(ctx context.Context) ([]models.Report, error) {
	const fallback = "Failed to load your reports"
	resp, err := r.client.Get(ctx, "/reports/user", nil)
	if err != nil {
		return nil, opError(err, fallback)
	}
	env, err := decodeEnvelope(resp, fallback)
	if err != nil {
		return nil, err
	}
	var reports []models.Report
	if err := decodeData(env, &reports, fallback); err != nil {
		return nil, err
	}
	return reports, nil
}

// Get fetches a single report by id.
func (r *ReportsAPI) Get(ctx context.Context, id string) (*models.Report, error) {
	const fallback = "Failed to load report"
	if id == "" {
		return nil, errors.New(fallback)
	}
	resp, err := r.client.Get(ctx, "/reports/"+id, nil)
	if err != nil {
		return nil, opError(err, fallback)
	}
	env, err := decodeEnvelope(resp, fallback)
	if err != nil {
		return nil, err
	}
	var report models.Report
	if err := decodeData(env, &report, fallback); err != nil {
		return nil, err
	}
	return &report, nil
}

// UploadImage uploads a report photo and returns its served URL.
// onProgress, if non-nil, receives transport progress events.
func (r *ReportsAPI) UploadImage(ctx context.Context, filename string, file io.Reader, onProgress func(sent, total int64)) (string, error) {
	const fallback = "Image upload failed"
	resp, err := r.client.UploadFile(ctx, "/upload/image", filename, file, onProgress)
	if err != nil {
		return "", opError(err, fallback)
	}
	env, err := decodeEnvelope(resp, fallback)
	if err != nil {
		return "", err
	}
	var payload struct {
		URL string `json:"url"`
	}
	if err := decodeData(env, &payload, fallback); err != nil {
		return "", err
	}
	if payload.URL == "" {
		return "", errors.New(fallback)
	}
	return payload.URL, nil
}
