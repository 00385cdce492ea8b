// Package sessions keeps Present session contexts between command invocations.
package sessions

import (
	"context"
	"errors"

	"github.com/presenttv/client/internal/models"
)

// ErrSessionNotFound indicates no session is stored under the profile.
var ErrSessionNotFound = errors.New("session not found")

// Store persists one session context per named profile.
type Store interface {
	Save(ctx context.Context, profile string, session models.SessionContext) error
	Find(ctx context.Context, profile string) (models.SessionContext, error)
	Delete(ctx context.Context, profile string) error
}
