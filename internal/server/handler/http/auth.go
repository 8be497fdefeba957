package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/BillboardWatch/internal/middleware"
	"github.com/atinyakov/BillboardWatch/internal/models"
	"github.com/atinyakov/BillboardWatch/internal/service"
)

// AuthService defines the interface for account and session operations
// required by the HTTP handlers.
type AuthService interface {
	Signup(ctx context.Context, input service.SignupInput) (*models.User, bool, error)
	VerifyOTP(ctx context.Context, email, code, purpose string) (*models.User, string, error)
	ResendOTP(ctx context.Context, email string) (bool, error)
	ForgotPassword(ctx context.Context, email string) (bool, error)
	ResetPassword(ctx context.Context, email, code, newPassword, confirmPassword string) error
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, input service.ProfileInput) (*models.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	DeleteAccount(ctx context.Context, userID, password string) error
}

// AuthHandler handles HTTP requests for accounts and sessions.
type AuthHandler struct {
	AuthService AuthService
}

// authError maps service errors to a status code and a client-safe
// message. Unknown errors are reported as internal.
func authError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrEmailNotVerified):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidOTP),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrWrongPassword):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// Signup handles POST /api/auth/signup (and its /register alias).
// It creates an unverified account and reports whether the OTP was sent.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
		Gender          string `json:"gender"`
		PhoneNumber     string `json:"phoneNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, otpSent, err := h.AuthService.Signup(r.Context(), service.SignupInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Gender:          req.Gender,
		PhoneNumber:     req.PhoneNumber,
	})
	if err != nil {
		authError(w, err)
		return
	}

	writeEnvelope(w, http.StatusCreated, models.Envelope{
		Success: true,
		Message: "verification code sent",
		User:    user,
		OTPSent: otpSent,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		authError(w, err)
		return
	}

	writeEnvelope(w, http.StatusOK, models.Envelope{Success: true, User: user, Token: token})
}

// VerifyOTP handles POST /api/auth/verify-otp. The signup flow returns
// the user and a session token; the reset flow returns only a success
// message.
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
		Type  string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.OTP == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, token, err := h.AuthService.VerifyOTP(r.Context(), req.Email, req.OTP, req.Type)
	if err != nil {
		authError(w, err)
		return
	}

	if token != "" {
		writeEnvelope(w, http.StatusOK, models.Envelope{
			Success: true,
			Message: "email verified",
			User:    user,
			Token:   token,
		})
		return
	}
	writeEnvelope(w, http.StatusOK, models.Envelope{Success: true, Message: "OTP verified"})
}

// ResendOTP handles POST /api/auth/resend-otp.
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmail(w, r)
	if !ok {
		return
	}
	otpSent, err := h.AuthService.ResendOTP(r.Context(), email)
	if err != nil {
		authError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, models.Envelope{
		Success: true,
		Message: "verification code sent",
		OTPSent: otpSent,
	})
}

// ForgotPassword handles POST /api/auth/forgot-password.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmail(w, r)
	if !ok {
		return
	}
	otpSent, err := h.AuthService.ForgotPassword(r.Context(), email)
	if err != nil {
		authError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, models.Envelope{
		Success: true,
		Message: "password reset code sent",
		OTPSent: otpSent,
	})
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email           string `json:"email"`
		OTP             string `json:"otp"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.OTP == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.AuthService.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword, req.ConfirmPassword); err != nil {
		authError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, models.Envelope{Success: true, Message: "password has been reset"})
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so there
// is nothing to revoke server-side; the client discards its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, http.StatusOK, models.Envelope{Success: true, Message: "logged out"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	user, err := h.AuthService.CurrentUser(r.Context(), userID)
	if err != nil {
		authError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, models.Envelope{Success: true, User: user})
}

// UpdateProfile handles PATCH /api/auth/profile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Gender      string `json:"gender"`
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())
	user, err := h.AuthService.UpdateProfile(r.Context(), userID, service.ProfileInput{
		Name:        req.Name,
		Gender:      req.Gender,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		authError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, models.Envelope{Success: true, Message: "profile updated", User: user})
}

// ChangePassword handles POST /api/auth/change-password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())
	if err := h.AuthService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		authError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, models.Envelope{Success: true, Message: "password changed"})
}

// DeleteAccount handles DELETE /api/auth/account. The current password
// is required as confirmation.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())
	if err := h.AuthService.DeleteAccount(r.Context(), userID, req.Password); err != nil {
		authError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, models.Envelope{Success: true, Message: "account deleted"})
}

// decodeEmail reads the single-field email payload shared by the OTP
// dispatch endpoints.
func decodeEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return "", false
	}
	return req.Email, true
}
