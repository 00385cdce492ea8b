package present

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presenttv/client/internal/models"
	"github.com/presenttv/client/internal/transport"
)

type appenderStub struct {
	mu      sync.Mutex
	order   []string
	failOn  string
	block   chan struct{}
	videoID string
}

func (a *appenderStub) Append(ctx context.Context, segment transport.File) (models.Video, error) {
	if a.block != nil {
		select {
		case <-a.block:
		case <-ctx.Done():
			return models.Video{}, ctx.Err()
		}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.order = append(a.order, segment.Filename)
	if segment.Filename == a.failOn {
		return models.Video{}, errors.New("append rejected")
	}
	return models.Video{ID: a.videoID}, nil
}

func (a *appenderStub) appended() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.order...)
}

type archiverStub struct {
	mu    sync.Mutex
	saved map[string][]byte
	err   error
}

func (s *archiverStub) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		s.saved = make(map[string][]byte)
	}
	s.saved[key] = data
	return "s3://bucket/" + key, nil
}

func memorySegment(name string, data []byte) transport.File {
	return transport.File{
		Field:    MediaSegmentField,
		Filename: name,
		Open: func(context.Context) (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func TestSegmentUploaderPreservesOrder(t *testing.T) {
	appender := &appenderStub{videoID: "v1"}
	archiver := &archiverStub{}
	uploader := NewSegmentUploader(appender, archiver, UploaderConfig{QueueSize: 2, ArchivePrefix: "archive"}, discardLogger())

	names := []string{"s1.ts", "s2.ts", "s3.ts", "s4.ts", "s5.ts"}
	for _, name := range names {
		require.NoError(t, uploader.Enqueue(context.Background(), memorySegment(name, []byte(name))))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, uploader.Shutdown(ctx))

	assert.Equal(t, names, appender.appended())
	assert.Equal(t, len(names), uploader.Appended())
	assert.Equal(t, []byte("s3.ts"), archiver.saved["archive/v1/s3.ts"])
	assert.Len(t, archiver.saved, len(names))
}

func TestSegmentUploaderReportsFailures(t *testing.T) {
	appender := &appenderStub{videoID: "v1", failOn: "bad.ts"}
	uploader := NewSegmentUploader(appender, nil, UploaderConfig{}, discardLogger())

	for _, name := range []string{"a.ts", "bad.ts", "c.ts"} {
		require.NoError(t, uploader.Enqueue(context.Background(), memorySegment(name, nil)))
	}

	err := uploader.Shutdown(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.ts")
	assert.Equal(t, 2, uploader.Appended())
	assert.Equal(t, []string{"a.ts", "bad.ts", "c.ts"}, appender.appended())
}

func TestSegmentUploaderArchiveFailureIsNotFatal(t *testing.T) {
	uploader := NewSegmentUploader(&appenderStub{videoID: "v1"}, &archiverStub{err: errors.New("bucket gone")}, UploaderConfig{}, discardLogger())

	require.NoError(t, uploader.Enqueue(context.Background(), memorySegment("a.ts", []byte("a"))))
	require.NoError(t, uploader.Shutdown(context.Background()))
	assert.Equal(t, 1, uploader.Appended())
}

func TestSegmentUploaderRejectsAfterShutdown(t *testing.T) {
	uploader := NewSegmentUploader(&appenderStub{}, nil, UploaderConfig{}, discardLogger())
	require.NoError(t, uploader.Shutdown(context.Background()))

	err := uploader.Enqueue(context.Background(), memorySegment("late.ts", nil))
	assert.ErrorIs(t, err, ErrUploaderClosed)

	// Shutdown is idempotent.
	assert.NoError(t, uploader.Shutdown(context.Background()))
}

func TestSegmentUploaderShutdownTimeout(t *testing.T) {
	appender := &appenderStub{block: make(chan struct{})}
	uploader := NewSegmentUploader(appender, nil, UploaderConfig{}, discardLogger())
	require.NoError(t, uploader.Enqueue(context.Background(), memorySegment("stuck.ts", nil)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := uploader.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSegmentUploaderEnqueueHonoursContext(t *testing.T) {
	appender := &appenderStub{block: make(chan struct{})}
	uploader := NewSegmentUploader(appender, nil, UploaderConfig{QueueSize: 1}, discardLogger())
	defer func() {
		close(appender.block)
		_ = uploader.Shutdown(context.Background())
	}()

	// One segment is held by the worker and one fills the queue.
	require.NoError(t, uploader.Enqueue(context.Background(), memorySegment("a.ts", nil)))
	require.Eventually(t, func() bool { return len(uploader.jobs) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, uploader.Enqueue(context.Background(), memorySegment("b.ts", nil)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := uploader.Enqueue(ctx, memorySegment("c.ts", nil))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
