package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/presenttv/client/internal/logging"
	"github.com/presenttv/client/internal/models"
)

const (
	DefaultBaseURL        = "https://api.present.tv/v1/"
	DefaultUserAgent      = "Present API Client v1.1"
	DefaultAcceptLanguage = "en-US,en;q=0.5"
	DefaultTimeout        = 30 * time.Second

	// MaxSuccessStatus is the highest status code treated as success.
	MaxSuccessStatus = 300

	HeaderUserID       = "Present-User-Context-User-Id"
	HeaderSessionToken = "Present-User-Context-Session-Token"
)

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config controls the fixed parts of every request.
type Config struct {
	BaseURL        string
	UserAgent      string
	AcceptLanguage string
	Timeout        time.Duration
}

// Bridge executes single exchanges against the Present API. It keeps no
// state between calls and is safe for concurrent use.
type Bridge struct {
	baseURL        string
	userAgent      string
	acceptLanguage string
	client         HTTPDoer
	logger         *slog.Logger
}

// New constructs a Bridge. A nil client gets an *http.Client with cfg.Timeout.
func New(cfg Config, client HTTPDoer, logger *slog.Logger) *Bridge {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.AcceptLanguage == "" {
		cfg.AcceptLanguage = DefaultAcceptLanguage
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		baseURL:        cfg.BaseURL,
		userAgent:      cfg.UserAgent,
		acceptLanguage: cfg.AcceptLanguage,
		client:         client,
		logger:         logger,
	}
}

// Execute performs the exchange described by req.
//
// A status at or below MaxSuccessStatus returns the decoded body. A higher
// status returns the Response together with an *APIError carrying the same
// document. Failures before a response is received are *TransportError;
// requests that cannot be built are *PrerequisiteError.
func (b *Bridge) Execute(ctx context.Context, req Request) (Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	target, err := b.resolve(req.Route)
	if err != nil {
		return Response{}, err
	}
	if err := checkSession(req.Session); err != nil {
		return Response{}, err
	}

	requestID := uuid.NewString()
	ctx = logging.WithRequestID(ctx, requestID)
	ctx, span := logging.StartSpan(ctx, "present.api", b.logger)
	logger := span.Logger().With(
		slog.String("request_id", requestID),
		slog.String("method", req.Method.String()),
		slog.String("route", req.Route),
		slog.Bool("authenticated", req.Session != nil),
	)

	httpReq, err := b.newHTTPRequest(ctx, req, target)
	if err != nil {
		span.Fail(err)
		return Response{}, err
	}

	logger.Debug("sending present api request", slog.String("url", target))

	resp, err := b.client.Do(httpReq)
	if err != nil {
		terr := &TransportError{Method: httpReq.Method, URL: target, Err: err}
		span.Fail(terr)
		return Response{}, terr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		terr := &TransportError{Method: httpReq.Method, URL: target, Err: fmt.Errorf("read body: %w", err)}
		span.Fail(terr, slog.Int("status", resp.StatusCode))
		return Response{}, terr
	}

	out, err := classify(resp.StatusCode, raw)
	if err != nil {
		span.Fail(err, slog.Int("status", resp.StatusCode))
		return out, err
	}
	span.End(slog.Int("status", resp.StatusCode))
	return out, nil
}

func (b *Bridge) resolve(route string) (string, error) {
	base, err := url.Parse(b.baseURL)
	if err != nil {
		return "", &PrerequisiteError{Reason: "invalid base url", Err: err}
	}
	if (base.Scheme != "https" && base.Scheme != "http") || base.Host == "" {
		return "", &PrerequisiteError{Reason: fmt.Sprintf("base url %q is not absolute", b.baseURL)}
	}

	target := b.baseURL + route
	if _, err := url.Parse(target); err != nil {
		return "", &PrerequisiteError{Reason: "invalid route", Err: err}
	}
	return target, nil
}

func checkSession(session *models.SessionContext) error {
	if session == nil {
		return nil
	}
	if session.UserID() == "" {
		return &PrerequisiteError{Reason: "session context has no user id"}
	}
	if session.SessionToken == "" {
		return &PrerequisiteError{Reason: "session context has no session token"}
	}
	return nil
}

func (b *Bridge) newHTTPRequest(ctx context.Context, req Request, target string) (*http.Request, error) {
	var (
		body        io.Reader
		contentType = "application/json"
	)

	switch req.Method {
	case MethodGet:
	case MethodPostJSON:
		payload := req.Payload
		if payload == nil {
			payload = map[string]any{}
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, &PrerequisiteError{Reason: "encode json payload", Err: err}
		}
		body = bytes.NewReader(encoded)
	case MethodPostMultipart:
		r, ct, err := streamMultipart(ctx, req.Fields, req.Files)
		if err != nil {
			return nil, err
		}
		body, contentType = r, ct
	default:
		return nil, &PrerequisiteError{Reason: fmt.Sprintf("unsupported method %d", int(req.Method))}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method.httpMethod(), target, body)
	if err != nil {
		if c, ok := body.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, &PrerequisiteError{Reason: "build http request", Err: err}
	}

	httpReq.Header.Set("Connection", "Keep-Alive")
	httpReq.Header.Set("Accept-Language", b.acceptLanguage)
	httpReq.Header.Set("User-Agent", b.userAgent)
	httpReq.Header.Set("Content-Type", contentType)
	if req.Session != nil {
		httpReq.Header.Set(HeaderUserID, req.Session.UserID())
		httpReq.Header.Set(HeaderSessionToken, req.Session.SessionToken)
	}

	return httpReq, nil
}

// streamMultipart opens every attachment up front, so a missing file is a
// prerequisite failure, then writes the body through a pipe. The HTTP client
// closes the returned reader when the exchange ends, which unblocks the writer.
func streamMultipart(ctx context.Context, fields []Field, files []File) (io.ReadCloser, string, error) {
	opened := make([]openedFile, 0, len(files))
	closeAll := func() {
		for _, f := range opened {
			_ = f.body.Close()
		}
	}
	for _, f := range files {
		if f.Open == nil {
			closeAll()
			return nil, "", &PrerequisiteError{Reason: fmt.Sprintf("attachment %q has no source", f.Field)}
		}
		rc, err := f.Open(ctx)
		if err != nil {
			closeAll()
			return nil, "", &PrerequisiteError{Reason: fmt.Sprintf("open attachment %q", f.Field), Err: err}
		}
		opened = append(opened, openedFile{File: f, body: rc})
	}

	pr, pw := io.Pipe()
	mw, err := newMultipartWriter(pw)
	if err != nil {
		closeAll()
		return nil, "", &PrerequisiteError{Reason: "multipart boundary", Err: err}
	}

	go func() {
		pw.CloseWithError(writeMultipart(mw, fields, opened))
	}()

	return pr, mw.FormDataContentType(), nil
}

func classify(status int, raw []byte) (Response, error) {
	if status <= MaxSuccessStatus {
		doc, err := decodeDocument(raw)
		if err != nil {
			return Response{Status: status}, fmt.Errorf("%w: status %d: %v", ErrMalformedResponse, status, err)
		}
		return Response{Status: status, Body: doc}, nil
	}

	doc, err := decodeDocument(raw)
	if err != nil {
		doc = Document{"status": "ERROR", "subject": string(raw)}
	}
	return Response{Status: status, Body: doc}, &APIError{Status: status, Document: doc}
}

func decodeDocument(raw []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("body is not a json object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after json object")
	}
	return doc, nil
}
