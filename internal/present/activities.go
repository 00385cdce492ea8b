package present

import (
	"context"

	"github.com/presenttv/client/internal/mapper"
	"github.com/presenttv/client/internal/models"
)

// Activities lists the session user's activity feed, newest first.
func (c *Client) Activities(ctx context.Context, session *models.SessionContext, page PageRequest) (models.Page[models.UserActivity], error) {
	if err := requireSession(session); err != nil {
		return models.Page[models.UserActivity]{}, err
	}
	body, err := c.get(ctx, session, "activities/list_my_activities", page.values())
	if err != nil {
		return models.Page[models.UserActivity]{}, err
	}
	return mapper.Page(body, bind(ctx, c.mapper.Activity))
}
