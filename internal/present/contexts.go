package present

import (
	"context"
	"log/slog"

	"github.com/presenttv/client/internal/mapper"
	"github.com/presenttv/client/internal/models"
)

// CreateSessionContext logs in and returns the session used to authenticate
// later calls.
func (c *Client) CreateSessionContext(ctx context.Context, username, password string) (models.SessionContext, error) {
	if err := requireValue("username", username); err != nil {
		return models.SessionContext{}, err
	}
	if err := requireValue("password", password); err != nil {
		return models.SessionContext{}, err
	}

	body, err := c.post(ctx, nil, "user_contexts/create", map[string]any{
		"username": username,
		"password": password,
	})
	if err != nil {
		return models.SessionContext{}, err
	}

	sc, err := result(body, c.mapper.SessionContext)
	if err != nil {
		return models.SessionContext{}, err
	}
	c.logger.Info("session context created", slog.String("user_id", sc.UserID()), slog.String("context_id", sc.ID))
	return sc, nil
}

// InvalidateSessionContext logs out. The API must confirm with status OK.
func (c *Client) InvalidateSessionContext(ctx context.Context, session *models.SessionContext) error {
	if err := requireSession(session); err != nil {
		return err
	}
	body, err := c.post(ctx, session, "user_contexts/destroy", nil)
	if err != nil {
		return err
	}
	return confirm("user_contexts/destroy", body)
}

var _ mapper.UserResolver = (*Client)(nil)
