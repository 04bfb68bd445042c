package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Staff is a barangay office account allowed to mutate records.
type Staff struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Create(ctx context.Context, s Staff) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO staff (id, username, email, password_hash)
		VALUES (?, ?, ?, ?)
	`, s.ID, s.Username, s.Email, s.PasswordHash)
	if err != nil {
		return fmt.Errorf("create staff: %w", err)
	}
	return nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*Staff, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM staff
		WHERE LOWER(email) = ?
	`, email)

	var s Staff
	if err := row.Scan(&s.ID, &s.Username, &s.Email, &s.PasswordHash, &s.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get by email: %w", err)
	}
	return &s, nil
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (*Staff, error) {
	username = strings.TrimSpace(username)
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM staff
		WHERE username = ?
	`, username)

	var s Staff
	if err := row.Scan(&s.ID, &s.Username, &s.Email, &s.PasswordHash, &s.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get by username: %w", err)
	}
	return &s, nil
}
