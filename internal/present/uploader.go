package present

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/presenttv/client/internal/models"
	"github.com/presenttv/client/internal/transport"
)

// SegmentAppender appends one segment to a recording. *Recorder satisfies it.
type SegmentAppender interface {
	Append(ctx context.Context, segment transport.File) (models.Video, error)
}

// SegmentArchiver keeps a copy of every appended segment.
type SegmentArchiver interface {
	Save(ctx context.Context, key string, r io.Reader) (string, error)
}

// UploaderConfig controls the queue of a SegmentUploader.
type UploaderConfig struct {
	QueueSize     int
	ArchivePrefix string
	AppendTimeout time.Duration
}

// SegmentUploader feeds segments to an appender from a single background
// worker, in the order they were enqueued. Each append is still one
// synchronous API call.
type SegmentUploader struct {
	appender SegmentAppender
	archiver SegmentArchiver
	cfg      UploaderConfig
	logger   *slog.Logger

	jobs   chan transport.File
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// sendMu guards closed and the send side of jobs.
	sendMu sync.RWMutex
	closed bool

	mu       sync.Mutex
	appended int
	errs     []error
}

// NewSegmentUploader starts the worker. archiver may be nil.
func NewSegmentUploader(appender SegmentAppender, archiver SegmentArchiver, cfg UploaderConfig, logger *slog.Logger) *SegmentUploader {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if cfg.AppendTimeout <= 0 {
		cfg.AppendTimeout = 2 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	u := &SegmentUploader{
		appender: appender,
		archiver: archiver,
		cfg:      cfg,
		logger:   logger,
		jobs:     make(chan transport.File, cfg.QueueSize),
		ctx:      ctx,
		cancel:   cancel,
	}

	u.wg.Add(1)
	go u.worker()

	return u
}

// Enqueue schedules a segment. It blocks while the queue is full.
func (u *SegmentUploader) Enqueue(ctx context.Context, segment transport.File) error {
	u.sendMu.RLock()
	defer u.sendMu.RUnlock()

	if u.closed {
		return ErrUploaderClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-u.ctx.Done():
		return ErrUploaderClosed
	case u.jobs <- segment:
		return nil
	}
}

// Shutdown stops accepting segments and waits for the queue to drain. If ctx
// expires first, in-flight appends are cancelled and ctx.Err() is returned.
// Otherwise the joined append failures, if any, are returned.
func (u *SegmentUploader) Shutdown(ctx context.Context) error {
	u.sendMu.Lock()
	if !u.closed {
		u.closed = true
		close(u.jobs)
	}
	u.sendMu.Unlock()

	done := make(chan struct{})
	go func() {
		u.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		u.cancel()
		return ctx.Err()
	case <-done:
		u.cancel()
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	return errors.Join(u.errs...)
}

// Appended returns the number of segments appended so far.
func (u *SegmentUploader) Appended() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.appended
}

func (u *SegmentUploader) worker() {
	defer u.wg.Done()

	for segment := range u.jobs {
		if u.ctx.Err() != nil {
			u.record(segment, u.ctx.Err())
			continue
		}
		u.handle(segment)
	}
}

func (u *SegmentUploader) handle(segment transport.File) {
	if u.appender == nil {
		u.logger.Error("segment uploader missing appender", "segment", segment.Filename)
		u.record(segment, errors.New("no appender configured"))
		return
	}

	ctx, cancel := context.WithTimeout(u.ctx, u.cfg.AppendTimeout)
	defer cancel()

	video, err := u.appender.Append(ctx, segment)
	if err != nil {
		u.logger.Error("segment append failed", "segment", segment.Filename, "error", err)
		u.record(segment, err)
		return
	}

	u.record(segment, nil)
	u.archive(ctx, video.ID, segment)
}

func (u *SegmentUploader) record(segment transport.File, err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err != nil {
		u.errs = append(u.errs, fmt.Errorf("segment %s: %w", segment.Filename, err))
		return
	}
	u.appended++
}

// archive copies an appended segment to the archiver. Failures are logged
// and do not affect the recording.
func (u *SegmentUploader) archive(ctx context.Context, videoID string, segment transport.File) {
	if u.archiver == nil || segment.Open == nil {
		return
	}

	key := path.Join(u.cfg.ArchivePrefix, videoID, segment.Filename)
	if strings.TrimSpace(segment.Filename) == "" {
		u.logger.Warn("segment has no filename, skipping archive", "videoId", videoID)
		return
	}

	body, err := segment.Open(ctx)
	if err != nil {
		u.logger.Error("reopen segment for archive", "segment", segment.Filename, "error", err)
		return
	}
	defer body.Close()

	location, err := u.archiver.Save(ctx, key, body)
	if err != nil {
		u.logger.Error("archive segment", "key", key, "error", err)
		return
	}
	u.logger.Debug("segment archived", "key", key, "location", location)
}
