// Package present exposes the Present API as typed Go calls built on the
// transport bridge and the object mapper.
package present

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/presenttv/client/internal/mapper"
	"github.com/presenttv/client/internal/models"
	"github.com/presenttv/client/internal/transport"
)

// DefaultPageLimit is used when a PageRequest leaves Limit unset.
const DefaultPageLimit = 20

// Executor performs one API exchange. *transport.Bridge satisfies it.
type Executor interface {
	Execute(ctx context.Context, req transport.Request) (transport.Response, error)
}

// Client issues Present API calls and maps their results.
type Client struct {
	exec   Executor
	mapper *mapper.Mapper
	logger *slog.Logger
}

// NewClient wires a Client. The client doubles as the mapper's user resolver,
// so id-only user references are fetched through users/show.
func NewClient(exec Executor, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{exec: exec, logger: logger}
	c.mapper = mapper.New(c)
	return c
}

// Mapper returns the mapper used by the client.
func (c *Client) Mapper() *mapper.Mapper { return c.mapper }

// ResolveUser implements mapper.UserResolver.
func (c *Client) ResolveUser(ctx context.Context, id string) (models.User, error) {
	return c.UserByID(ctx, id)
}

// PageRequest selects a page of a list endpoint.
type PageRequest struct {
	Limit  int
	Cursor int
}

func (p PageRequest) values() url.Values {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	cursor := p.Cursor
	if cursor < 0 {
		cursor = 0
	}
	return url.Values{
		"limit":  {strconv.Itoa(limit)},
		"cursor": {strconv.Itoa(cursor)},
	}
}

// UserRef identifies a user by id or by username. ID wins when both are set.
type UserRef struct {
	ID       string
	Username string
}

func (r UserRef) apply(q url.Values) error {
	switch {
	case strings.TrimSpace(r.ID) != "":
		q.Set("user_id", r.ID)
	case strings.TrimSpace(r.Username) != "":
		q.Set("username", r.Username)
	default:
		return fmt.Errorf("%w: user id or username is required", ErrInvalidInput)
	}
	return nil
}

func route(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func requireSession(session *models.SessionContext) error {
	if session == nil {
		return fmt.Errorf("%w: session context is required", ErrInvalidInput)
	}
	return nil
}

func requireValue(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, name)
	}
	return nil
}

// call executes req and returns the success body. 404 API errors also match
// ErrNotFound.
func (c *Client) call(ctx context.Context, req transport.Request) (transport.Document, error) {
	resp, err := c.exec.Execute(ctx, req)
	if err != nil {
		var apiErr *transport.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w: %w", req.Route, ErrNotFound, err)
		}
		return nil, err
	}
	return resp.Body, nil
}

func (c *Client) get(ctx context.Context, session *models.SessionContext, path string, q url.Values) (transport.Document, error) {
	return c.call(ctx, transport.Request{
		Method:  transport.MethodGet,
		Route:   route(path, q),
		Session: session,
	})
}

func (c *Client) post(ctx context.Context, session *models.SessionContext, path string, payload map[string]any) (transport.Document, error) {
	return c.call(ctx, transport.Request{
		Method:  transport.MethodPostJSON,
		Route:   path,
		Payload: payload,
		Session: session,
	})
}

// confirm checks the top-level status field of an acknowledgement body.
func confirm(route string, body transport.Document) error {
	if status, _ := body["status"].(string); status != "OK" {
		return fmt.Errorf("%s: %w: status %q", route, ErrUnconfirmed, status)
	}
	return nil
}

// result maps the "result" entity of body with fn.
func result[T any](body transport.Document, fn func(map[string]any) (T, error)) (T, error) {
	doc, err := mapper.Result(body)
	if err != nil {
		var zero T
		return zero, err
	}
	return fn(doc)
}

// bind adapts a context-aware mapper method to the shape Page and result expect.
func bind[T any](ctx context.Context, fn func(context.Context, map[string]any) (T, error)) func(map[string]any) (T, error) {
	return func(doc map[string]any) (T, error) { return fn(ctx, doc) }
}
