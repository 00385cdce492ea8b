package present

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/presenttv/client/internal/models"
	"github.com/presenttv/client/internal/transport"
)

// Recorder drives one recording: a single Create followed by any number of
// Append calls. Calls are serialised so the sequence numbers stay in order.
type Recorder struct {
	client  *Client
	session *models.SessionContext

	mu       sync.Mutex
	started  bool
	video    models.Video
	playlist models.PlaylistSession
}

// NewRecorder returns a Recorder acting as session.
func NewRecorder(client *Client, session *models.SessionContext) *Recorder {
	return &Recorder{client: client, session: session}
}

// Create starts the recording. A second call returns ErrRecordingStarted.
func (r *Recorder) Create(ctx context.Context, title string) (models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return models.Video{}, ErrRecordingStarted
	}

	video, playlist, err := r.client.CreateVideo(ctx, r.session, title)
	if err != nil {
		return models.Video{}, fmt.Errorf("create video: %w", err)
	}

	r.started = true
	r.video = video
	r.playlist = playlist
	r.client.logger.Info("recording started",
		slog.String("video_id", video.ID),
		slog.String("playlist_session_id", playlist.ID),
	)
	return video, nil
}

// Append uploads the next segment and replaces the held video and playlist
// session with the ones returned by the API. On failure both are unchanged,
// so the same segment can be appended again.
func (r *Recorder) Append(ctx context.Context, segment transport.File) (models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return models.Video{}, ErrRecordingNotStarted
	}

	sequence := r.playlist.NumSegments() + 1
	video, playlist, err := r.client.AppendSegment(ctx, r.session, r.video.ID, r.playlist, segment)
	if err != nil {
		return models.Video{}, fmt.Errorf("append segment %d: %w", sequence, err)
	}

	r.video = video
	r.playlist = playlist
	r.client.logger.Debug("segment appended",
		slog.String("video_id", video.ID),
		slog.Int("media_sequence", sequence),
		slog.Int("segments", playlist.NumSegments()),
	)
	return video, nil
}

// Video returns the latest video state and whether recording has started.
func (r *Recorder) Video() (models.Video, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.video, r.started
}

// PlaylistSession returns the latest playlist session and whether recording has started.
func (r *Recorder) PlaylistSession() (models.PlaylistSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playlist, r.started
}
