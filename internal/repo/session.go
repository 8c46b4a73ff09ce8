package repo

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/tasteboard/recipebox/internal/models"
)

// tokenLength is the session token size in bytes (32 bytes = 64 hex characters).
const tokenLength = 32

// ==========================
// SessionRepo
// ==========================
type SessionRepo struct {
	DB  *sql.DB
	TTL time.Duration
}

// ==========================
// Constructor
// ==========================
func NewSessionRepo(db *sql.DB, ttl time.Duration) *SessionRepo {
	return &SessionRepo{DB: db, TTL: ttl}
}

// ==========================
// Create Session (replaces any previous sessions for the user)
// ==========================
func (r *SessionRepo) Create(ctx context.Context, userID int) (*models.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(r.TTL),
		CreatedAt: now,
	}

	// Delete-then-insert in one transaction so a failed insert leaves the
	// user's previous session intact.
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`, session.Token, session.UserID, session.ExpiresAt, session.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return session, nil
}

// ==========================
// Get By Token (expired sessions are treated as missing and removed)
// ==========================
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	session := &models.Session{}

	err := r.DB.QueryRowContext(ctx, `
		SELECT token, user_id, expires_at, created_at
		FROM sessions
		WHERE token = $1
	`, token).Scan(&session.Token, &session.UserID, &session.ExpiresAt, &session.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if time.Now().After(session.ExpiresAt) {
		_ = r.Delete(ctx, session.Token)
		return nil, ErrSessionNotFound
	}

	return session, nil
}

// ==========================
// Delete (idempotent; deleting an absent token is not an error)
// ==========================
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

// ==========================
// Delete Expired (periodic sweep)
// ==========================
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, time.Now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// generateToken returns a cryptographically random hex token.
func generateToken() (string, error) {
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
