package present

import (
	"context"
	"fmt"
	"net/url"

	"github.com/presenttv/client/internal/mapper"
	"github.com/presenttv/client/internal/models"
)

// CreateUser registers a new account.
func (c *Client) CreateUser(ctx context.Context, username, password, email string) (models.User, error) {
	for _, v := range []struct{ name, value string }{
		{"username", username},
		{"password", password},
		{"email", email},
	} {
		if err := requireValue(v.name, v.value); err != nil {
			return models.User{}, err
		}
	}

	body, err := c.post(ctx, nil, "users/create", map[string]any{
		"username": username,
		"password": password,
		"email":    email,
	})
	if err != nil {
		return models.User{}, err
	}
	return result(body, c.mapper.User)
}

// DestroyUser deletes the account behind session. There is no confirmation step.
func (c *Client) DestroyUser(ctx context.Context, session *models.SessionContext) error {
	if err := requireSession(session); err != nil {
		return err
	}
	_, err := c.post(ctx, session, "users/destroy", nil)
	return err
}

// Me returns the user the session belongs to.
func (c *Client) Me(ctx context.Context, session *models.SessionContext) (models.User, error) {
	if err := requireSession(session); err != nil {
		return models.User{}, err
	}
	body, err := c.get(ctx, session, "users/show_me", nil)
	if err != nil {
		return models.User{}, err
	}
	return result(body, c.mapper.User)
}

// User fetches a single user by id or username.
func (c *Client) User(ctx context.Context, ref UserRef) (models.User, error) {
	q := url.Values{}
	if err := ref.apply(q); err != nil {
		return models.User{}, err
	}
	body, err := c.get(ctx, nil, "users/show", q)
	if err != nil {
		return models.User{}, err
	}
	return result(body, c.mapper.User)
}

// UserByID fetches a single user by id.
func (c *Client) UserByID(ctx context.Context, id string) (models.User, error) {
	if err := requireValue("user id", id); err != nil {
		return models.User{}, err
	}
	return c.User(ctx, UserRef{ID: id})
}

// UserByUsername fetches a single user by username.
func (c *Client) UserByUsername(ctx context.Context, username string) (models.User, error) {
	if err := requireValue("username", username); err != nil {
		return models.User{}, err
	}
	return c.User(ctx, UserRef{Username: username})
}

// NewUsers lists recently registered users.
func (c *Client) NewUsers(ctx context.Context, page PageRequest) (models.Page[models.User], error) {
	return c.listUsers(ctx, "users/list_brand_new_users", page.values())
}

// PopularUsers lists the most followed users.
func (c *Client) PopularUsers(ctx context.Context, page PageRequest) (models.Page[models.User], error) {
	return c.listUsers(ctx, "users/list_popular_users", page.values())
}

// SearchUsers runs a free text user search.
func (c *Client) SearchUsers(ctx context.Context, query string, page PageRequest) (models.Page[models.User], error) {
	if err := requireValue("query", query); err != nil {
		return models.Page[models.User]{}, err
	}
	q := page.values()
	q.Set("query", query)
	return c.listUsers(ctx, "users/search", q)
}

// SearchUsersByUsername searches on the username field only.
func (c *Client) SearchUsersByUsername(ctx context.Context, username string, page PageRequest) (models.Page[models.User], error) {
	if err := requireValue("username", username); err != nil {
		return models.Page[models.User]{}, err
	}
	q := page.values()
	q.Set("username", username)
	return c.listUsers(ctx, "users/search", q)
}

func (c *Client) listUsers(ctx context.Context, path string, q url.Values) (models.Page[models.User], error) {
	body, err := c.get(ctx, nil, path, q)
	if err != nil {
		return models.Page[models.User]{}, err
	}
	return mapper.Page(body, c.mapper.User)
}

// Invite sends an invitation email on behalf of the session user.
func (c *Client) Invite(ctx context.Context, session *models.SessionContext, email string) error {
	if err := requireSession(session); err != nil {
		return err
	}
	if err := requireValue("email", email); err != nil {
		return err
	}
	body, err := c.post(ctx, session, "users/invite", map[string]any{"email": email})
	if err != nil {
		return err
	}
	return confirm("users/invite", body)
}

// RequestPasswordReset asks the API to email a reset link for username.
func (c *Client) RequestPasswordReset(ctx context.Context, username string) error {
	if err := requireValue("username", username); err != nil {
		return err
	}
	body, err := c.post(ctx, nil, "users/request_password_reset", map[string]any{"username": username})
	if err != nil {
		return err
	}
	return confirm("users/request_password_reset", body)
}

// UserUpdate lists profile fields to change. Nil fields are left untouched.
type UserUpdate struct {
	FullName    *string
	Description *string
	Gender      *models.Gender
	Location    *string
	Website     *string
	Email       *string
	PhoneNumber *string
}

func (u UserUpdate) payload() map[string]any {
	payload := make(map[string]any)
	set := func(key string, v *string) {
		if v != nil {
			payload[key] = *v
		}
	}
	set("full_name", u.FullName)
	set("description", u.Description)
	set("location", u.Location)
	set("website", u.Website)
	set("email", u.Email)
	set("phone_number", u.PhoneNumber)
	if u.Gender != nil {
		payload["gender"] = u.Gender.String()
	}
	return payload
}

// UpdateUser changes the session user's profile and replaces the user held
// by session with the confirmed copy returned by the API.
func (c *Client) UpdateUser(ctx context.Context, session *models.SessionContext, update UserUpdate) (models.User, error) {
	if err := requireSession(session); err != nil {
		return models.User{}, err
	}
	payload := update.payload()
	if len(payload) == 0 {
		return models.User{}, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	body, err := c.post(ctx, session, "users/update", payload)
	if err != nil {
		return models.User{}, err
	}
	user, err := result(body, c.mapper.User)
	if err != nil {
		return models.User{}, err
	}
	session.SetUser(user)
	return user, nil
}
