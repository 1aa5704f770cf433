// Package user manages user accounts and their persistence.
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// User represents a registered user. The URL fields are transient: they are
// computed from freshly minted capability tokens at read time and never
// persisted — file association is by path convention, not by stored columns.
type User struct {
	ID                 int64  `json:"id"`
	Username           string `json:"username"`
	Email              string `json:"email"`
	NidUploaded        bool   `json:"nidUploaded"`
	VerificationStatus string `json:"verificationStatus,omitempty"`

	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
	NidFrontURL       string `json:"nidFrontUrl,omitempty"`
	NidBackURL        string `json:"nidBackUrl,omitempty"`
}

// ErrNotFound is returned when a user does not exist.
var ErrNotFound = errors.New("user not found")

// Repository handles all user database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the created record.
func (r *Repository) Create(ctx context.Context, username, email string) (*User, error) {
	u := &User{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (username, email)
		 VALUES ($1, $2)
		 RETURNING id, username, email, nid_uploaded, verification_status`,
		username, email,
	).Scan(&u.ID, &u.Username, &u.Email, &u.NidUploaded, &u.VerificationStatus)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// GetByID fetches a user by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	u := &User{}
	err := r.db.QueryRow(ctx,
		`SELECT id, username, email, nid_uploaded, verification_status
		 FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.NidUploaded, &u.VerificationStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// SetNidStatus records that NID documents were uploaded and updates the
// verification status.
func (r *Repository) SetNidStatus(ctx context.Context, id int64, uploaded bool, status string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET nid_uploaded = $2, verification_status = $3 WHERE id = $1`,
		id, uploaded, status,
	)
	if err != nil {
		return fmt.Errorf("set nid status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user row.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
