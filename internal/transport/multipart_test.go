package transport

import (
	"bytes"
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type receivedPart struct {
	name        string
	filename    string
	contentType string
	encoding    string
	body        []byte
}

func readParts(t *testing.T, r *http.Request) []receivedPart {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)
	require.Equal(t, MultipartBoundary, params["boundary"])

	var parts []receivedPart
	reader := multipart.NewReader(r.Body, params["boundary"])
	for {
		p, err := reader.NextPart()
		if err == io.EOF {
			return parts
		}
		require.NoError(t, err)
		body, err := io.ReadAll(p)
		require.NoError(t, err)
		parts = append(parts, receivedPart{
			name:        p.FormName(),
			filename:    p.FileName(),
			contentType: p.Header.Get("Content-Type"),
			encoding:    p.Header.Get("Content-Transfer-Encoding"),
			body:        body,
		})
	}
}

func memoryFile(field, filename string, data []byte) File {
	return File{
		Field:    field,
		Filename: filename,
		Open: func(context.Context) (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func TestExecuteMultipartWritesFieldsThenFiles(t *testing.T) {
	small := []byte("segment-a")
	// Larger than the copy buffer so the file spans several writes.
	large := bytes.Repeat([]byte{0x00, 0xff, 0x47}, 3*copyBufferSize)

	var parts []receivedPart
	bridge := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
		parts = readParts(t, r)
		_, _ = io.WriteString(w, `{"result":{}}`)
	})

	fields := []Field{
		{Name: "video_id", Value: "v1"},
		{Name: "media_sequence", Value: "3"},
		{Name: "playlist_session", Value: `{"meta":{"id":"p1"}}`},
	}
	files := []File{
		memoryFile("media_segment", "a.ts", small),
		memoryFile("thumbnail", "blob", large),
	}

	_, err := bridge.Execute(context.Background(), Request{
		Method: MethodPostMultipart,
		Route:  "videos/append",
		Fields: fields,
		Files:  files,
	})
	require.NoError(t, err)
	require.Len(t, parts, len(fields)+len(files))

	for i, f := range fields {
		assert.Equal(t, f.Name, parts[i].name)
		assert.Empty(t, parts[i].filename)
		assert.Equal(t, "text/plain; charset=UTF-8", parts[i].contentType)
		assert.Equal(t, f.Value, string(parts[i].body))
	}

	fileParts := parts[len(fields):]
	assert.Equal(t, "media_segment", fileParts[0].name)
	assert.Equal(t, "a.ts", fileParts[0].filename)
	assert.Equal(t, "binary", fileParts[0].encoding)
	assert.Equal(t, small, fileParts[0].body)

	assert.Equal(t, "thumbnail", fileParts[1].name)
	assert.Equal(t, "blob", fileParts[1].filename)
	assert.Equal(t, "application/octet-stream", fileParts[1].contentType)
	assert.Len(t, fileParts[1].body, len(large))
	assert.Equal(t, large, fileParts[1].body)
}

func TestExecuteMultipartEmptyBody(t *testing.T) {
	var parts []receivedPart
	bridge := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
		parts = readParts(t, r)
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := bridge.Execute(context.Background(), Request{Method: MethodPostMultipart, Route: "x"})
	require.NoError(t, err)
	assert.Empty(t, parts)
}

func TestExecuteMultipartFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "segment.ts")
	data := []byte(strings.Repeat("ts-payload", 1000))
	require.NoError(t, os.WriteFile(path, data, 0o600))

	var parts []receivedPart
	bridge := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
		parts = readParts(t, r)
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := bridge.Execute(context.Background(), Request{
		Method: MethodPostMultipart,
		Route:  "videos/append",
		Files:  []File{FileFromPath("media_segment", path)},
	})
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "segment.ts", parts[0].filename)
	assert.Equal(t, data, parts[0].body)
}

type trackingCloser struct {
	io.Reader
	closed bool
}

func (c *trackingCloser) Close() error {
	c.closed = true
	return nil
}

func TestWriteMultipartClosesFiles(t *testing.T) {
	var buf bytes.Buffer
	mw, err := newMultipartWriter(&buf)
	require.NoError(t, err)

	body := &trackingCloser{Reader: strings.NewReader("data")}
	err = writeMultipart(mw, []Field{{Name: `quo"te`, Value: "v"}}, []openedFile{{
		File: File{Field: "f", Filename: "clip.ts", ContentType: "video/mp2t"},
		body: body,
	}})
	require.NoError(t, err)
	assert.True(t, body.closed)
	assert.Contains(t, buf.String(), `name="quo\"te"`)
	assert.Contains(t, buf.String(), "Content-Type: video/mp2t")
	assert.True(t, strings.HasSuffix(buf.String(), "--"+MultipartBoundary+"--\r\n"))
}
