package mapper

import (
	"context"

	"github.com/presenttv/client/internal/models"
)

// Video maps a video entity document. A creatorUser given as an id string is
// fetched through the resolver.
func (m *Mapper) Video(ctx context.Context, doc map[string]any) (models.Video, error) {
	return m.mapVideo(ctx, newFields(doc, ""))
}

func (m *Mapper) mapVideo(ctx context.Context, root fields) (models.Video, error) {
	ent, err := splitEntity(root.m, root.path)
	if err != nil {
		return models.Video{}, err
	}
	obj := ent.object

	var video models.Video
	if video.ID, err = obj.str("_id"); err != nil {
		return models.Video{}, err
	}
	if video.Title, err = obj.optStr("title"); err != nil {
		return models.Video{}, err
	}
	if video.CreatedAt, err = obj.timestamp("_creationDate"); err != nil {
		return models.Video{}, err
	}
	if video.UpdatedAt, err = obj.timestamp("_lastUpdateDate"); err != nil {
		return models.Video{}, err
	}

	span, err := obj.object("creationTimeRange")
	if err != nil {
		return models.Video{}, err
	}
	if video.CreationStart, err = span.timestamp("startDate"); err != nil {
		return models.Video{}, err
	}
	if video.CreationEnd, err = span.optTimestamp("endDate"); err != nil {
		return models.Video{}, err
	}

	if video.Creator, err = m.userRef(ctx, obj, "creatorUser"); err != nil {
		return models.Video{}, err
	}

	if urls, ok, err := obj.optObject("mediaUrls"); err != nil {
		return models.Video{}, err
	} else if ok {
		if err := mapMediaURLs(urls, &video); err != nil {
			return models.Video{}, err
		}
	}

	if video.Likes, err = obj.count("likes"); err != nil {
		return models.Video{}, err
	}
	if video.Views, err = obj.count("views"); err != nil {
		return models.Video{}, err
	}
	if video.IsAvailable, err = obj.boolean("isAvailable"); err != nil {
		return models.Video{}, err
	}
	visibility, err := obj.object("visibility")
	if err != nil {
		return models.Video{}, err
	}
	if video.Visibility, err = mapVisibility(visibility); err != nil {
		return models.Video{}, err
	}

	if video.Comments, err = m.mapVideoComments(ctx, obj); err != nil {
		return models.Video{}, err
	}

	if ent.hasMeta {
		if video.Meta, err = mapSubjectiveMeta(ent.meta); err != nil {
			return models.Video{}, err
		}
	}
	return video, nil
}

// mapMediaURLs reads the still image and both playlist URLs. The block is
// optional but all three URLs are required once it is present.
func mapMediaURLs(urls fields, video *models.Video) error {
	images, err := urls.object("images")
	if err != nil {
		return err
	}
	if video.StillImageURL, err = images.str("480px"); err != nil {
		return err
	}
	playlists, err := urls.object("playlists")
	if err != nil {
		return err
	}
	live, err := playlists.object("live")
	if err != nil {
		return err
	}
	if video.LiveURL, err = live.str("master"); err != nil {
		return err
	}
	replay, err := playlists.object("replay")
	if err != nil {
		return err
	}
	video.ReplayURL, err = replay.str("master")
	return err
}

func (m *Mapper) mapVideoComments(ctx context.Context, obj fields) ([]models.Comment, error) {
	block, ok, err := obj.optObject("comments")
	if err != nil || !ok || !block.has("results") {
		return nil, err
	}
	results, err := block.array("results")
	if err != nil {
		return nil, err
	}
	comments := make([]models.Comment, 0, len(results))
	for i := range results {
		doc, err := elem(results, i, block.at("results"))
		if err != nil {
			return nil, err
		}
		comment, err := m.mapComment(ctx, doc)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

// Comment maps a comment entity document. The video field may embed the
// video or hold its id.
func (m *Mapper) Comment(ctx context.Context, doc map[string]any) (models.Comment, error) {
	return m.mapComment(ctx, newFields(doc, ""))
}

func (m *Mapper) mapComment(ctx context.Context, root fields) (models.Comment, error) {
	obj, err := root.object("object")
	if err != nil {
		return models.Comment{}, err
	}

	var comment models.Comment
	if comment.ID, err = obj.str("_id"); err != nil {
		return models.Comment{}, err
	}
	if comment.Body, err = obj.str("body"); err != nil {
		return models.Comment{}, err
	}
	if comment.CreatedAt, err = obj.timestamp("_creationDate"); err != nil {
		return models.Comment{}, err
	}
	if comment.UpdatedAt, err = obj.timestamp("_lastUpdateDate"); err != nil {
		return models.Comment{}, err
	}
	sourceUser, err := obj.object("sourceUser")
	if err != nil {
		return models.Comment{}, err
	}
	if comment.Source, err = mapUser(sourceUser); err != nil {
		return models.Comment{}, err
	}

	if v, ok := obj.lookup("video"); ok {
		switch ref := v.(type) {
		case string:
			comment.VideoID = ref
		case map[string]any:
			video, err := m.mapVideo(ctx, newFields(ref, obj.at("video")))
			if err != nil {
				return models.Comment{}, err
			}
			comment.Video = &video
			comment.VideoID = video.ID
		default:
			return models.Comment{}, wrongType(obj.at("video"), "object or id", v)
		}
	}
	return comment, nil
}

// Demand maps a demand entity document. sourceUser is normally an id and is
// fetched through the resolver; targetUser is embedded.
func (m *Mapper) Demand(ctx context.Context, doc map[string]any) (models.Demand, error) {
	obj, err := newFields(doc, "").object("object")
	if err != nil {
		return models.Demand{}, err
	}

	var demand models.Demand
	if demand.ID, err = obj.str("_id"); err != nil {
		return models.Demand{}, err
	}
	if demand.CreatedAt, err = obj.timestamp("_creationDate"); err != nil {
		return models.Demand{}, err
	}
	if demand.UpdatedAt, err = obj.timestamp("_lastUpdateDate"); err != nil {
		return models.Demand{}, err
	}
	target, err := obj.object("targetUser")
	if err != nil {
		return models.Demand{}, err
	}
	if demand.Target, err = mapUser(target); err != nil {
		return models.Demand{}, err
	}
	if demand.Source, err = m.userRef(ctx, obj, "sourceUser"); err != nil {
		return models.Demand{}, err
	}
	return demand, nil
}
