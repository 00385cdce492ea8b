package present

import (
	"context"

	"github.com/presenttv/client/internal/mapper"
	"github.com/presenttv/client/internal/models"
)

// ListForwardDemands lists the demands made by the referenced user.
func (c *Client) ListForwardDemands(ctx context.Context, ref UserRef, page PageRequest) (models.Page[models.Demand], error) {
	q := page.values()
	if err := ref.apply(q); err != nil {
		return models.Page[models.Demand]{}, err
	}
	body, err := c.get(ctx, nil, "demands/list_user_forward_demands", q)
	if err != nil {
		return models.Page[models.Demand]{}, err
	}
	return mapper.Page(body, bind(ctx, c.mapper.Demand))
}

// MakeDemand asks username to go live.
func (c *Client) MakeDemand(ctx context.Context, session *models.SessionContext, username string) error {
	return c.demand(ctx, session, "demands/create", username)
}

// RemoveDemand withdraws a demand made earlier.
func (c *Client) RemoveDemand(ctx context.Context, session *models.SessionContext, username string) error {
	return c.demand(ctx, session, "demands/destroy", username)
}

func (c *Client) demand(ctx context.Context, session *models.SessionContext, path, username string) error {
	if err := requireSession(session); err != nil {
		return err
	}
	if err := requireValue("username", username); err != nil {
		return err
	}
	_, err := c.post(ctx, session, path, map[string]any{"username": username})
	return err
}
