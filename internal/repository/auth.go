// Package repository provides PostgreSQL persistence for users,
// one-time codes, reports, and notifications.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/atinyakov/BillboardWatch/internal/models"
)

// PostgresAuthRepository implements user and one-time-code persistence
// using a PostgreSQL database.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository with the
// given database connection.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

const userColumns = `id, email, name, gender, phone_number, password_hash, email_verified, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u      models.User
		gender sql.NullString
		phone  sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.Name, &gender, &phone, &u.PasswordHash, &u.IsEmailVerified, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Gender = gender.String
	u.PhoneNumber = phone.String
	return &u, nil
}

// CreateUser inserts a new user record.
func (r *PostgresAuthRepository) CreateUser(ctx context.Context, u *models.User) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO users (id, email, name, gender, phone_number, password_hash, email_verified, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Email, u.Name, nullable(u.Gender), nullable(u.PhoneNumber), u.PasswordHash, u.IsEmailVerified, u.CreatedAt, u.UpdatedAt,
	)
	return err
}

// UserByEmail fetches a user by email. Returns (nil, nil) when absent.
func (r *PostgresAuthRepository) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// UserByID fetches a user by id. Returns (nil, nil) when absent.
func (r *PostgresAuthRepository) UserByID(ctx context.Context, id string) (*models.User, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// UpdateUser persists profile fields and the updated_at timestamp.
func (r *PostgresAuthRepository) UpdateUser(ctx context.Context, u *models.User) error {
	_, err := r.DB.ExecContext(ctx, `
        UPDATE users
           SET name = $2, gender = $3, phone_number = $4, updated_at = $5
         WHERE id = $1`,
		u.ID, u.Name, nullable(u.Gender), nullable(u.PhoneNumber), u.UpdatedAt,
	)
	return err
}

// UpdatePassword replaces the password hash for the user.
func (r *PostgresAuthRepository) UpdatePassword(ctx context.Context, userID string, hash []byte) error {
	_, err := r.DB.ExecContext(ctx, `
        UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		userID, hash, time.Now().UTC(),
	)
	return err
}

// MarkEmailVerified flags the user's email as confirmed.
func (r *PostgresAuthRepository) MarkEmailVerified(ctx context.Context, email string) error {
	_, err := r.DB.ExecContext(ctx, `
        UPDATE users SET email_verified = TRUE, updated_at = $2 WHERE email = $1`,
		email, time.Now().UTC(),
	)
	return err
}

// DeleteUser removes the user and, via cascade, their reports and
// notifications.
func (r *PostgresAuthRepository) DeleteUser(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	return err
}

// SaveOTP stores a one-time code for the email and purpose, replacing
// any previous unconsumed code for the same pair.
func (r *PostgresAuthRepository) SaveOTP(ctx context.Context, email, code, purpose string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO otp_codes (email, code, purpose, expires_at, consumed)
        VALUES ($1, $2, $3, $4, FALSE)
        ON CONFLICT (email, purpose)
        DO UPDATE SET code = $2, expires_at = $4, consumed = FALSE`,
		email, code, purpose, expiresAt,
	)
	return err
}

// ConsumeOTP atomically marks a matching, unexpired code as consumed.
// Returns true if a code was consumed.
func (r *PostgresAuthRepository) ConsumeOTP(ctx context.Context, email, code, purpose string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE otp_codes
           SET consumed = TRUE
         WHERE email = $1
           AND code = $2
           AND purpose = $3
           AND consumed = FALSE
           AND expires_at > NOW()`,
		email, code, purpose,
	)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
