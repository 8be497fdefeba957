// Package models defines the core data structures shared between the
// BillboardWatch client and server: users, violation reports,
// notifications, and the JSON envelope used on the wire.
package models

import (
	"encoding/json"
	"time"
)

// User represents an application user.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Email is the login email address.
	Email string `json:"email"`
	// Name is the display name chosen by the user.
	Name string `json:"name"`
	// Gender is optional profile information.
	Gender string `json:"gender,omitempty"`
	// PhoneNumber is an optional contact number.
	PhoneNumber string `json:"phoneNumber,omitempty"`
	// IsEmailVerified reports whether the signup OTP has been confirmed.
	IsEmailVerified bool `json:"isEmailVerified"`
	// PasswordHash is the bcrypt hash of the password. Never serialized.
	PasswordHash []byte `json:"-"`
	// CreatedAt is the account creation time.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the time of the last profile mutation.
	UpdatedAt time.Time `json:"updatedAt"`
}

// ViolationType identifies the category of a reported violation.
type ViolationType string

const (
	// Oversized represents a billboard exceeding permitted dimensions.
	Oversized ViolationType = "oversized"
	// ImproperPlacement represents a billboard placed in a restricted area.
	ImproperPlacement ViolationType = "improper_placement"
	// StructuralHazard represents a billboard posing a safety risk.
	StructuralHazard ViolationType = "structural_hazard"
	// ContentViolation represents inappropriate or illegal content.
	ContentViolation ViolationType = "content_violation"
	// NoPermit represents a billboard lacking proper permits.
	NoPermit ViolationType = "no_permit"
	// OtherViolation represents any other regulatory violation.
	OtherViolation ViolationType = "other"
)

// Valid reports whether v is one of the known violation types.
func (v ViolationType) Valid() bool {
	switch v {
	case Oversized, ImproperPlacement, StructuralHazard, ContentViolation, NoPermit, OtherViolation:
		return true
	}
	return false
}

// ReportStatus tracks a report through the review workflow.
type ReportStatus string

const (
	// StatusDraft is a report saved locally but not submitted.
	StatusDraft ReportStatus = "draft"
	// StatusSubmitted is a report received by the backend.
	StatusSubmitted ReportStatus = "submitted"
	// StatusUnderReview is a report being examined by an inspector.
	StatusUnderReview ReportStatus = "under_review"
	// StatusVerified is a report confirmed as a real violation.
	StatusVerified ReportStatus = "verified"
	// StatusResolved is a violation that has been acted upon.
	StatusResolved ReportStatus = "resolved"
	// StatusRejected is a report dismissed after review.
	StatusRejected ReportStatus = "rejected"
)

// Valid reports whether s is one of the known report statuses.
func (s ReportStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusVerified, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Report is a citizen-submitted billboard violation report.
type Report struct {
	// ID is the unique identifier for the report.
	ID string `json:"id"`
	// UserID identifies the reporting user.
	UserID string `json:"userId"`
	// ViolationType categorizes the violation.
	ViolationType ViolationType `json:"violationType"`
	// Description is the free-text description entered by the reporter.
	Description string `json:"description"`
	// Latitude and Longitude locate the billboard.
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// Address is an optional reverse-geocoded address.
	Address string `json:"address,omitempty"`
	// ImageURLs are uploaded photo locations backing the report.
	ImageURLs []string `json:"imageUrls,omitempty"`
	// Status is the current review status.
	Status ReportStatus `json:"status"`
	// CreatedAt is the submission time.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the time of the last status change.
	UpdatedAt time.Time `json:"updatedAt"`
}

// NotificationCategory groups notifications for display.
type NotificationCategory string

const (
	// CategoryReportStatus notifies about report workflow changes.
	CategoryReportStatus NotificationCategory = "report_status"
	// CategoryGamification notifies about points and badges.
	CategoryGamification NotificationCategory = "gamification"
	// CategorySystem notifies about application-level events.
	CategorySystem NotificationCategory = "system"
)

// Notification is a per-user message shown in the notification feed.
type Notification struct {
	ID        string               `json:"id"`
	UserID    string               `json:"userId"`
	Category  NotificationCategory `json:"category"`
	Title     string               `json:"title"`
	Body      string               `json:"body"`
	Read      bool                 `json:"read"`
	CreatedAt time.Time            `json:"createdAt"`
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	Points  int    `json:"points"`
	Reports int    `json:"reports"`
}

// PlayerStats summarizes a user's gamification standing.
type PlayerStats struct {
	Points           int `json:"points"`
	Rank             int `json:"rank"`
	ReportsSubmitted int `json:"reportsSubmitted"`
	ReportsVerified  int `json:"reportsVerified"`
}

// MapViolation is a report reduced to what the map overlay needs.
type MapViolation struct {
	ID            string        `json:"id"`
	Latitude      float64       `json:"latitude"`
	Longitude     float64       `json:"longitude"`
	ViolationType ViolationType `json:"violationType"`
	Status        ReportStatus  `json:"status"`
}

// HeatPoint is one weighted cell of the violations heatmap.
type HeatPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Weight    int     `json:"weight"`
}

// Envelope is the JSON body shape used by every backend endpoint.
// Success responses carry user/token/data as appropriate; error
// responses carry a message and optionally a list of errors.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	User    *User           `json:"user,omitempty"`
	Token   string          `json:"token,omitempty"`
	OTPSent bool            `json:"otpSent,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Errors  []string        `json:"errors,omitempty"`
}
