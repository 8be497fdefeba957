package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/atinyakov/BillboardWatch/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// OTP purposes.
const (
	OTPPurposeSignup = "signup"
	OTPPurposeReset  = "reset"
)

const (
	minPasswordLength = 8
	otpTTL            = 10 * time.Minute
)

// Sentinel errors the HTTP layer maps to status codes.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("please verify your email before logging in")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", minPasswordLength)
)

// AuthRepository defines the persistence operations required by the
// authentication service.
type AuthRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	// UserByEmail returns (nil, nil) when no user has the email.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID returns (nil, nil) when no user has the id.
	UserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	UpdatePassword(ctx context.Context, userID string, hash []byte) error
	MarkEmailVerified(ctx context.Context, email string) error
	DeleteUser(ctx context.Context, userID string) error
	SaveOTP(ctx context.Context, email, code, purpose string, expiresAt time.Time) error
	// ConsumeOTP returns true when a matching unexpired code was consumed.
	ConsumeOTP(ctx context.Context, email, code, purpose string) (bool, error)
}

// SignupInput is the validated signup payload.
type SignupInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Gender          string
	PhoneNumber     string
}

// ProfileInput is a partial profile mutation; empty fields are kept.
type ProfileInput struct {
	Name        string
	Gender      string
	PhoneNumber string
}

// AuthService implements account and session operations by delegating
// to an AuthRepository and a TokenService.
type AuthService struct {
	repo   AuthRepository
	tokens *TokenService
	log    *zap.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(repo AuthRepository, tokens *TokenService, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{repo: repo, tokens: tokens, log: log}
}

// Signup creates an unverified account and issues a signup OTP.
// Returns the created user and whether the OTP was dispatched.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, bool, error) {
	if len(input.Password) < minPasswordLength {
		return nil, false, ErrWeakPassword
	}
	if input.Password != input.ConfirmPassword {
		return nil, false, ErrPasswordMismatch
	}

	existing, err := s.repo.UserByEmail(ctx, input.Email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return nil, false, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Name:         input.Name,
		Gender:       input.Gender,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, false, err
	}

	otpSent, err := s.issueOTP(ctx, input.Email, OTPPurposeSignup)
	if err != nil {
		return nil, false, err
	}
	return user, otpSent, nil
}

// VerifyOTP consumes a one-time code. For the signup purpose it marks
// the email verified and returns the user together with a session
// token; for the reset purpose both return values are empty and the
// caller proceeds to ResetPassword.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code, purpose string) (*models.User, string, error) {
	if purpose == "" {
		purpose = OTPPurposeSignup
	}

	ok, err := s.repo.ConsumeOTP(ctx, email, code, purpose)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", ErrInvalidOTP
	}

	if purpose != OTPPurposeSignup {
		return nil, "", nil
	}

	if err := s.repo.MarkEmailVerified(ctx, email); err != nil {
		return nil, "", err
	}
	user, err := s.repo.UserByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrUserNotFound
	}
	user.IsEmailVerified = true

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ResendOTP issues a fresh signup code for the email.
func (s *AuthService) ResendOTP(ctx context.Context, email string) (bool, error) {
	user, err := s.repo.UserByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, ErrUserNotFound
	}
	return s.issueOTP(ctx, email, OTPPurposeSignup)
}

// ForgotPassword issues a password reset code for the email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (bool, error) {
	user, err := s.repo.UserByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, ErrUserNotFound
	}
	return s.issueOTP(ctx, email, OTPPurposeReset)
}

// ResetPassword sets a new password after validating the reset code.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword, confirmPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	ok, err := s.repo.ConsumeOTP(ctx, email, code, OTPPurposeReset)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidOTP
	}

	user, err := s.repo.UserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, user.ID, hash)
}

// Login checks credentials and returns the user with a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.repo.UserByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !user.IsEmailVerified {
		return nil, "", ErrEmailNotVerified
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// CurrentUser fetches the user by id.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile applies the non-empty fields of input and returns the
// updated user.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (*models.User, error) {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Gender != "" {
		user.Gender = input.Gender
	}
	if input.PhoneNumber != "" {
		user.PhoneNumber = input.PhoneNumber
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(currentPassword)) != nil {
		return ErrWrongPassword
	}
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, hash)
}

// DeleteAccount removes the account after confirming the password.
func (s *AuthService) DeleteAccount(ctx context.Context, userID, password string) error {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return ErrWrongPassword
	}
	return s.repo.DeleteUser(ctx, userID)
}

// issueOTP generates a 6-digit code and stores it with a TTL.
// Delivery is out of scope here: the code is logged for the
// development mail hook to pick up.
func (s *AuthService) issueOTP(ctx context.Context, email, purpose string) (bool, error) {
	code, err := generateOTP()
	if err != nil {
		return false, err
	}
	if err := s.repo.SaveOTP(ctx, email, code, purpose, time.Now().UTC().Add(otpTTL)); err != nil {
		return false, err
	}
	s.log.Debug("issued OTP",
		zap.String("email", email),
		zap.String("purpose", purpose),
		zap.String("code", code),
	)
	return true, nil
}

// generateOTP returns a crypto-random 6-digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
