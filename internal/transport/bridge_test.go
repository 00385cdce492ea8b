package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presenttv/client/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestBridge(t *testing.T, handler http.HandlerFunc) *Bridge {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/v1/"}, srv.Client(), discardLogger())
}

func TestExecuteGetSendsFixedHeaders(t *testing.T) {
	var got *http.Request
	bridge := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		_, _ = io.WriteString(w, `{"result":{"object":{"_id":"u1"}}}`)
	})

	session := &models.SessionContext{SessionToken: "tok", User: models.User{ID: "user-1"}}
	resp, err := bridge.Execute(context.Background(), Request{
		Method:  MethodGet,
		Route:   "users/show_me",
		Session: session,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/v1/users/show_me", got.URL.Path)
	assert.Equal(t, "user-1", got.Header.Get(HeaderUserID))
	assert.Equal(t, "tok", got.Header.Get(HeaderSessionToken))
	assert.Equal(t, DefaultUserAgent, got.Header.Get("User-Agent"))
	assert.Equal(t, DefaultAcceptLanguage, got.Header.Get("Accept-Language"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Zero(t, got.ContentLength)

	result, ok := resp.Body["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "u1", result["object"].(map[string]any)["_id"])
}

func TestExecuteAnonymousOmitsSessionHeaders(t *testing.T) {
	var got http.Header
	bridge := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := bridge.Execute(context.Background(), Request{Method: MethodGet, Route: "users/list_popular_users"})
	require.NoError(t, err)
	assert.Empty(t, got.Get(HeaderUserID))
	assert.Empty(t, got.Get(HeaderSessionToken))
}

func TestExecutePostJSONEncodesPayload(t *testing.T) {
	var body map[string]any
	bridge := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"status":"OK"}`)
	})

	resp, err := bridge.Execute(context.Background(), Request{
		Method:  MethodPostJSON,
		Route:   "user_contexts/create",
		Payload: map[string]any{"username": "alice", "password": "secret"},
	})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Body["status"])
	assert.Equal(t, map[string]any{"username": "alice", "password": "secret"}, body)
}

func TestExecutePostJSONNilPayloadSendsEmptyObject(t *testing.T) {
	var raw []byte
	bridge := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := bridge.Execute(context.Background(), Request{Method: MethodPostJSON, Route: "user_contexts/destroy"})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestExecuteSuccessPassesBodyThrough(t *testing.T) {
	bridge := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"a":1,"b":{"c":[true,"x"]}}`)
	})

	resp, err := bridge.Execute(context.Background(), Request{Method: MethodGet, Route: "x"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, json.Number("1"), resp.Body["a"])
	assert.Equal(t, map[string]any{"c": []any{true, "x"}}, resp.Body["b"])
}

func TestExecuteBoundaryStatusIsSuccess(t *testing.T) {
	bridge := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(MaxSuccessStatus)
		_, _ = io.WriteString(w, `{"ok":true}`)
	})

	resp, err := bridge.Execute(context.Background(), Request{Method: MethodGet, Route: "x"})
	require.NoError(t, err)
	assert.Equal(t, true, resp.Body["ok"])
}

func TestExecuteSuccessWithNonObjectBodyIsMalformed(t *testing.T) {
	for _, body := range []string{"", "not json", "[1,2]", "null", `{"a":1} trailing`} {
		bridge := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		})

		_, err := bridge.Execute(context.Background(), Request{Method: MethodGet, Route: "x"})
		require.Error(t, err, "body %q", body)
		assert.ErrorIs(t, err, ErrMalformedResponse, "body %q", body)
		assert.NotErrorIs(t, err, ErrAPI)
	}
}

func TestExecuteFailureCarriesErrorDocument(t *testing.T) {
	bridge := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"status":"ERROR","subject":"user not found"}`)
	})

	resp, err := bridge.Execute(context.Background(), Request{Method: MethodGet, Route: "users/show?user_id=nope"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAPI)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "user not found", apiErr.Subject())
	assert.Equal(t, resp.Body, apiErr.Document)
	assert.Contains(t, apiErr.Error(), "404")
}

func TestExecuteFailureSynthesisesDocument(t *testing.T) {
	bridge := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "Internal Server Error")
	})

	_, err := bridge.Execute(context.Background(), Request{Method: MethodGet, Route: "x"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, Document{"status": "ERROR", "subject": "Internal Server Error"}, apiErr.Document)
}

func TestExecuteTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL + "/v1/"
	srv.Close()

	bridge := New(Config{BaseURL: base}, nil, discardLogger())
	_, err := bridge.Execute(context.Background(), Request{Method: MethodGet, Route: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, base+"x", terr.URL)
}

func TestExecuteCancelledContextIsTransportFailure(t *testing.T) {
	bridge := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bridge.Execute(ctx, Request{Method: MethodGet, Route: "x"})
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

type doerStub struct {
	calls int
}

func (d *doerStub) Do(*http.Request) (*http.Response, error) {
	d.calls++
	return nil, errors.New("unexpected call")
}

func TestExecutePrerequisiteFailuresMakeNoCall(t *testing.T) {
	cases := map[string]struct {
		base string
		req  Request
	}{
		"relative base url": {
			base: "api.present.tv/v1/",
			req:  Request{Method: MethodGet, Route: "x"},
		},
		"unparseable base url": {
			base: "https://api present.tv/%zz",
			req:  Request{Method: MethodGet, Route: "x"},
		},
		"unknown method": {
			base: DefaultBaseURL,
			req:  Request{Method: Method(42), Route: "x"},
		},
		"session without token": {
			base: DefaultBaseURL,
			req:  Request{Method: MethodGet, Route: "x", Session: &models.SessionContext{User: models.User{ID: "u"}}},
		},
		"session without user": {
			base: DefaultBaseURL,
			req:  Request{Method: MethodGet, Route: "x", Session: &models.SessionContext{SessionToken: "t"}},
		},
		"unencodable payload": {
			base: DefaultBaseURL,
			req:  Request{Method: MethodPostJSON, Route: "x", Payload: map[string]any{"ch": make(chan int)}},
		},
		"missing attachment": {
			base: DefaultBaseURL,
			req: Request{
				Method: MethodPostMultipart,
				Route:  "videos/append",
				Files:  []File{FileFromPath("media_segment", "/nonexistent/segment.ts")},
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			doer := &doerStub{}
			bridge := New(Config{BaseURL: tc.base}, doer, discardLogger())

			_, err := bridge.Execute(context.Background(), tc.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrPrerequisite)
			assert.Zero(t, doer.calls)
		})
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	bridge := New(Config{}, nil, nil)
	assert.Equal(t, DefaultBaseURL, bridge.baseURL)
	assert.Equal(t, DefaultUserAgent, bridge.userAgent)
	assert.Equal(t, DefaultAcceptLanguage, bridge.acceptLanguage)

	client, ok := bridge.client.(*http.Client)
	require.True(t, ok)
	assert.Equal(t, DefaultTimeout, client.Timeout)
}
