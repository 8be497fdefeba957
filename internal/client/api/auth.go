package api

import (
	"context"
	"errors"

	"github.com/atinyakov/BillboardWatch/internal/models"
)

// AuthAPI exposes one typed function per authentication endpoint. It
// never persists anything itself; storing returned tokens and profiles
// is the session layer's responsibility.
type AuthAPI struct {
	client *Client
}

// NewAuthAPI constructs an AuthAPI over the given client.
func NewAuthAPI(client *Client) *AuthAPI {
	return &AuthAPI{client: client}
}

// LoginCredentials is the login request payload.
type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupData is the signup request payload.
type SignupData struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Gender          string `json:"gender,omitempty"`
	PhoneNumber     string `json:"phoneNumber,omitempty"`
}

// OTPVerification is the verify-otp request payload. Type selects the
// flow: "signup" confirms the email, "reset" validates a password
// reset code.
type OTPVerification struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
	Type  string `json:"type,omitempty"`
}

// ResetPasswordData is the reset-password request payload.
type ResetPasswordData struct {
	Email           string `json:"email"`
	OTP             string `json:"otp"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ProfileUpdate is a partial profile mutation; zero fields are omitted.
type ProfileUpdate struct {
	Name        string `json:"name,omitempty"`
	Gender      string `json:"gender,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// ChangePasswordData is the change-password request payload.
type ChangePasswordData struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthResult is a successful authentication: the user plus the bearer
// token issued for the session.
type AuthResult struct {
	User  models.User
	Token string
}

// SignupResult reports a created account and whether the verification
// OTP was dispatched.
type SignupResult struct {
	User    models.User
	OTPSent bool
}

// OTPResult is the outcome of OTP verification. Token is set only for
// the signup flow; the reset flow yields just a success message.
type OTPResult struct {
	User    *models.User
	Token   string
	Success bool
	Message string
}

// OTPStatus reports an OTP (re)dispatch.
type OTPStatus struct {
	Message string
	OTPSent bool
}

// OperationStatus is the generic outcome of a mutation endpoint.
type OperationStatus struct {
	Message string
	Success bool
}

// Login authenticates with email and password.
func (a *AuthAPI) Login(ctx context.Context, creds LoginCredentials) (*AuthResult, error) {
	const fallback = "Login failed"
	resp, err := a.client.Post(ctx, "/auth/login", creds, nil)
	if err != nil {
		return nil, opError(err, fallback)
	}
	env, err := decodeEnvelope(resp, fallback)
	if err != nil {
		return nil, err
	}
	if env.User == nil || env.Token == "" {
		return nil, errors.New(fallback)
	}
	return &AuthResult{User: *env.User, Token: env.Token}, nil
}

// Signup registers a new account and triggers the verification OTP.
func (a *AuthAPI) Signup(ctx context.Context, data SignupData) (*SignupResult, error) {
	const fallback = "Signup failed"
	resp, err := a.client.Post(ctx, "/auth/signup", data, nil)
	if err != nil {
		return nil, opError(err, fallback)
	}
	env, err := decodeEnvelope(resp, fallback)
	if err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, errors.New(fallback)
	}
	return &SignupResult{User: *env.User, OTPSent: env.OTPSent}, nil
}

// VerifyOTP confirms a one-time code. For the signup flow the result
// carries the user and a session token; for the reset flow only the
// success flag and message are set.
func (a *AuthAPI) VerifyOTP(ctx context.Context, data OTPVerification) (*OTPResult, error) {
	const fallback = "OTP verification failed"
	resp, err := a.client.Post(ctx, "/auth/verify-otp", data, nil)
	if err != nil {
		return nil, opError(err, fallback)
	}
	env, err := decodeEnvelope(resp, fallback)
	if err != nil {
		return nil, err
	}
	if env.Token != "" {
		return &OTPResult{User: env.User, Token: env.Token, Success: true, Message: env.Message}, nil
	}
	return &OTPResult{Success: env.Success, Message: env.Message}, nil
}

// ResendOTP requests a fresh verification code for the email.
func (a *AuthAPI) ResendOTP(ctx context.Context, email string) (*OTPStatus, error) {
	const fallback = "Failed to resend OTP"
	resp, err := a.client.Post(ctx, "/auth/resend-otp", map[string]string{"email": email}, nil)
	if err != nil {
		return nil, opError(err, fallback)
	}
	env, err := decodeEnvelope(resp, fallback)
	if err != nil {
		return nil, err
	}
	return &OTPStatus{Message: env.Message, OTPSent: env.OTPSent}, nil
}

// ForgotPassword starts the password reset flow for the email.
func (a *AuthAPI) ForgotPassword(ctx context.Context, email string) (*OTPStatus, error) {
	const fallback = "Failed to send reset OTP"
	resp, err := a.client.Post(ctx, "/auth/forgot-password", map[string]string{"email": email}, nil)
	if err != nil {
		return nil, opError(err, fallback)
	}
	env, err := decodeEnvelope(resp, fallback)
	if err != nil {
		return nil, err
	}
	return &OTPStatus{Message: env.Message, OTPSent: env.OTPSent}, nil
}

// ResetPassword sets a new password using a reset OTP.
func (a *AuthAPI) ResetPassword(ctx context.Context, data ResetPasswordData) (*OperationStatus, error) {
	const fallback = "Password reset failed"
	resp, err := a.client.Post(ctx, "/auth/reset-password", data, nil)
	if err != nil {
		return nil, opError(err, fallback)
	}
	env, err := decodeEnvelope(resp, fallback)
	if err != nil {
		return nil, err
	}
	return &OperationStatus{Message: env.Message, Success: env.Success}, nil
}

// Logout invalidates the current session server-side.
func (a *AuthAPI) Logout(ctx context.Context) (*OperationStatus, error) {
	const fallback = "Logout failed"
	resp, err := a.client.Post(ctx, "/auth/logout", nil, nil)
	if err != nil {
		return nil, opError(err, fallback)
	}
	env, err := decodeEnvelope(resp, fallback)
	if err != nil {
		return nil, err
	}
	return &OperationStatus{Message: env.Message, Success: env.Success}, nil
}

// CurrentUser fetches the authenticated user's profile.
func (a *AuthAPI) CurrentUser(ctx context.Context) (*models.User, error) {
	const fallback = "Failed to get user data"
	resp, err := a.client.Get(ctx, "/auth/me", nil)
	if err != nil {
		return nil, opError(err, fallback)
	}
	env, err := decodeEnvelope(resp, fallback)
	if err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, errors.New(fallback)
	}
	return env.User, nil
}

// UpdateProfile applies a partial profile mutation and returns the
// updated user.
func (a *AuthAPI) UpdateProfile(ctx context.Context, update ProfileUpdate) (*models.User, error) {
	const fallback = "Profile update failed"
	resp, err := a.client.Patch(ctx, "/auth/profile", update, nil)
	if err != nil {
		return nil, opError(err, fallback)
	}
	env, err := decodeEnvelope(resp, fallback)
	if err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, errors.New(fallback)
	}
	return env.User, nil
}

// ChangePassword replaces the password of the authenticated user.
func (a *AuthAPI) ChangePassword(ctx context.Context, data ChangePasswordData) (*OperationStatus, error) {
	const fallback = "Password change failed"
	resp, err := a.client.Post(ctx, "/auth/change-password", data, nil)
	if err != nil {
		return nil, opError(err, fallback)
	}
	env, err := decodeEnvelope(resp, fallback)
	if err != nil {
		return nil, err
	}
	return &OperationStatus{Message: env.Message, Success: env.Success}, nil
}

// DeleteAccount removes the authenticated user's account. The current
// password is required as confirmation.
func (a *AuthAPI) DeleteAccount(ctx context.Context, password string) (*OperationStatus, error) {
	const fallback = "Account deletion failed"
	resp, err := a.client.Delete(ctx, "/auth/account", map[string]string{"password": password}, nil)
	if err != nil {
		return nil, opError(err, fallback)
	}
	env, err := decodeEnvelope(resp, fallback)
	if err != nil {
		return nil, err
	}
	return &OperationStatus{Message: env.Message, Success: env.Success}, nil
}
