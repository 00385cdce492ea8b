package present

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/presenttv/client/internal/mapper"
	"github.com/presenttv/client/internal/models"
	"github.com/presenttv/client/internal/transport"
)

// MediaSegmentField is the multipart field carrying an appended segment.
const MediaSegmentField = "media_segment"

// CreateVideo starts a new recording and returns the video together with
// the playlist session that must accompany every append.
func (c *Client) CreateVideo(ctx context.Context, session *models.SessionContext, title string) (models.Video, models.PlaylistSession, error) {
	if err := requireSession(session); err != nil {
		return models.Video{}, models.PlaylistSession{}, err
	}
	body, err := c.post(ctx, session, "videos/create", map[string]any{"title": title})
	if err != nil {
		return models.Video{}, models.PlaylistSession{}, err
	}
	return c.recording(ctx, body)
}

// AppendSegment uploads one media segment. The sequence number sent is the
// playlist's current segment count plus one.
func (c *Client) AppendSegment(ctx context.Context, session *models.SessionContext, videoID string, playlist models.PlaylistSession, segment transport.File) (models.Video, models.PlaylistSession, error) {
	if err := requireSession(session); err != nil {
		return models.Video{}, models.PlaylistSession{}, err
	}
	if err := requireValue("video id", videoID); err != nil {
		return models.Video{}, models.PlaylistSession{}, err
	}

	encoded, err := json.Marshal(playlist)
	if err != nil {
		return models.Video{}, models.PlaylistSession{}, fmt.Errorf("encode playlist session: %w", err)
	}
	if segment.Field == "" {
		segment.Field = MediaSegmentField
	}

	body, err := c.call(ctx, transport.Request{
		Method: transport.MethodPostMultipart,
		Route:  "videos/append",
		Fields: []transport.Field{
			{Name: "video_id", Value: videoID},
			{Name: "media_sequence", Value: strconv.Itoa(playlist.NumSegments() + 1)},
			{Name: "playlist_session", Value: string(encoded)},
		},
		Files:   []transport.File{segment},
		Session: session,
	})
	if err != nil {
		return models.Video{}, models.PlaylistSession{}, err
	}
	return c.recording(ctx, body)
}

// recording maps the result of create and append: a video entity whose
// document also carries the playlistSession.
func (c *Client) recording(ctx context.Context, body transport.Document) (models.Video, models.PlaylistSession, error) {
	doc, err := mapper.Result(body)
	if err != nil {
		return models.Video{}, models.PlaylistSession{}, err
	}
	video, err := c.mapper.Video(ctx, doc)
	if err != nil {
		return models.Video{}, models.PlaylistSession{}, err
	}
	psDoc, err := mapper.Object(doc, "playlistSession")
	if err != nil {
		return models.Video{}, models.PlaylistSession{}, fmt.Errorf("result: %w", err)
	}
	playlist, err := c.mapper.PlaylistSession(psDoc)
	if err != nil {
		return models.Video{}, models.PlaylistSession{}, fmt.Errorf("result.playlistSession: %w", err)
	}
	return video, playlist, nil
}

// Video fetches a single video.
func (c *Client) Video(ctx context.Context, id string) (models.Video, error) {
	if err := requireValue("video id", id); err != nil {
		return models.Video{}, err
	}
	body, err := c.get(ctx, nil, "videos/show", url.Values{"video_id": {id}})
	if err != nil {
		return models.Video{}, err
	}
	return result(body, bind(ctx, c.mapper.Video))
}

// HomeVideos lists the session user's home feed.
func (c *Client) HomeVideos(ctx context.Context, session *models.SessionContext, page PageRequest) (models.Page[models.Video], error) {
	if err := requireSession(session); err != nil {
		return models.Page[models.Video]{}, err
	}
	return c.listVideos(ctx, session, "videos/list_home_videos", page.values())
}

// PopularVideos lists the most viewed videos.
func (c *Client) PopularVideos(ctx context.Context, page PageRequest) (models.Page[models.Video], error) {
	return c.listVideos(ctx, nil, "videos/list_popular_videos", page.values())
}

// NewVideos lists the most recent videos.
func (c *Client) NewVideos(ctx context.Context, page PageRequest) (models.Page[models.Video], error) {
	return c.listVideos(ctx, nil, "videos/list_brand_new_videos", page.values())
}

// UserVideos lists videos created by the referenced user.
func (c *Client) UserVideos(ctx context.Context, ref UserRef, page PageRequest) (models.Page[models.Video], error) {
	q := page.values()
	if err := ref.apply(q); err != nil {
		return models.Page[models.Video]{}, err
	}
	return c.listVideos(ctx, nil, "videos/list_user_videos", q)
}

// SearchVideos runs a free text video search.
func (c *Client) SearchVideos(ctx context.Context, query string, page PageRequest) (models.Page[models.Video], error) {
	if err := requireValue("query", query); err != nil {
		return models.Page[models.Video]{}, err
	}
	q := page.values()
	q.Set("query", query)
	return c.listVideos(ctx, nil, "videos/search", q)
}

func (c *Client) listVideos(ctx context.Context, session *models.SessionContext, path string, q url.Values) (models.Page[models.Video], error) {
	body, err := c.get(ctx, session, path, q)
	if err != nil {
		return models.Page[models.Video]{}, err
	}
	return mapper.Page(body, bind(ctx, c.mapper.Video))
}
