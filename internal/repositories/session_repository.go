package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/presenttv/client/internal/db"
	"github.com/presenttv/client/internal/models"
	"github.com/presenttv/client/internal/sessions"
)

// PostgresSessionStore persists Present session contexts to PostgreSQL, one
// row per profile.
type PostgresSessionStore struct {
	pool db.Pool
}

// NewPostgresSessionStore constructs a session store backed by PostgreSQL.
func NewPostgresSessionStore(pool db.Pool) *PostgresSessionStore {
	return &PostgresSessionStore{pool: pool}
}

// Save stores or replaces the session for profile.
func (s *PostgresSessionStore) Save(ctx context.Context, profile string, session models.SessionContext) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO session_contexts (profile, context_id, session_token, user_id, username, saved_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (profile)
        DO UPDATE SET context_id = EXCLUDED.context_id,
                      session_token = EXCLUDED.session_token,
                      user_id = EXCLUDED.user_id,
                      username = EXCLUDED.username,
                      saved_at = EXCLUDED.saved_at
    `, profile, session.ID, session.SessionToken, session.User.ID, session.User.Username, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert session context: %w", err)
	}

	return nil
}

// Find loads the session stored for profile. The user carries only its id
// and username.
func (s *PostgresSessionStore) Find(ctx context.Context, profile string) (models.SessionContext, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return models.SessionContext{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT context_id, session_token, user_id, username, saved_at
        FROM session_contexts
        WHERE profile = $1
    `, profile)

	var session models.SessionContext
	var savedAt time.Time
	if err := row.Scan(&session.ID, &session.SessionToken, &session.User.ID, &session.User.Username, &savedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.SessionContext{}, sessions.ErrSessionNotFound
		}
		return models.SessionContext{}, fmt.Errorf("select session context: %w", err)
	}

	session.UpdatedAt = savedAt.UTC()
	return session, nil
}

// Delete removes the session stored for profile.
func (s *PostgresSessionStore) Delete(ctx context.Context, profile string) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM session_contexts
        WHERE profile = $1
    `, profile)
	if err != nil {
		return fmt.Errorf("delete session context: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return sessions.ErrSessionNotFound
	}

	return nil
}

var _ sessions.Store = (*PostgresSessionStore)(nil)
