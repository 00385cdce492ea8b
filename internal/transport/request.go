package transport

import (
	"context"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/presenttv/client/internal/models"
)

// Method selects how the request body is encoded.
type Method int

const (
	MethodGet Method = iota + 1
	MethodPostJSON
	MethodPostMultipart
)

func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodPostJSON:
		return "POST_JSON"
	case MethodPostMultipart:
		return "POST_MULTIPART"
	default:
		return "UNKNOWN"
	}
}

func (m Method) httpMethod() string {
	if m == MethodGet {
		return "GET"
	}
	return "POST"
}

// Document is a decoded JSON object. Numbers are kept as json.Number.
type Document = map[string]any

// Request describes a single API exchange. Route is appended verbatim to the
// base URL, so the caller builds and escapes the query string.
type Request struct {
	Method Method
	Route  string
	// Payload is the JSON body of a POST_JSON request.
	Payload map[string]any
	// Fields and Files make up a POST_MULTIPART body, in order.
	Fields []Field
	Files  []File
	// Session authenticates the call when non-nil.
	Session *models.SessionContext
}

// Field is a text part of a multipart body.
type Field struct {
	Name  string
	Value string
}

// File is a binary part of a multipart body. Open is called once per request
// and the returned reader is closed when the part has been written.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Open        func(ctx context.Context) (io.ReadCloser, error)
}

func (f File) contentType() string {
	if f.ContentType != "" {
		return f.ContentType
	}
	if ct := mime.TypeByExtension(filepath.Ext(f.Filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// FileFromPath attaches a file on local disk under the given form field.
func FileFromPath(field, path string) File {
	return File{
		Field:    field,
		Filename: filepath.Base(path),
		Open: func(context.Context) (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// Response is a successful or API-failed exchange.
type Response struct {
	Status int
	Body   Document
}
