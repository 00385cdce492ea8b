package mapper

import (
	"context"
	"fmt"

	"github.com/presenttv/client/internal/models"
)

// Activity maps an activity feed entry to its concrete variant. Tags outside
// models.ActivityTypes yield a *MappingError wrapping ErrUnknownActivityType.
func (m *Mapper) Activity(ctx context.Context, doc map[string]any) (models.UserActivity, error) {
	obj, err := newFields(doc, "").object("object")
	if err != nil {
		return nil, err
	}

	tag, err := obj.str("type")
	if err != nil {
		return nil, err
	}

	base, err := m.activityBase(ctx, obj)
	if err != nil {
		return nil, err
	}

	switch t := models.ActivityType(tag); t {
	case models.ActivityNewComment:
		return models.NewCommentActivity{ActivityBase: base}, nil
	case models.ActivityNewCommentMention:
		commentDoc, err := obj.object("comment")
		if err != nil {
			return nil, err
		}
		comment, err := m.mapComment(ctx, commentDoc)
		if err != nil {
			return nil, err
		}
		return models.NewCommentMentionActivity{ActivityBase: base, Comment: comment}, nil
	case models.ActivityNewDemand:
		return models.NewDemandActivity{ActivityBase: base}, nil
	case models.ActivityNewFollower:
		return models.NewFollowerActivity{ActivityBase: base}, nil
	case models.ActivityNewLike:
		return models.NewLikeActivity{ActivityBase: base}, nil
	case models.ActivityNewVideoByDemandedUser:
		return models.NewVideoByDemandedUserActivity{ActivityBase: base}, nil
	case models.ActivityNewVideoByFriend:
		return models.NewVideoByFriendActivity{ActivityBase: base}, nil
	case models.ActivityNewVideoMention:
		return models.NewVideoMentionActivity{ActivityBase: base}, nil
	case models.ActivityNewViewer:
		return models.NewViewerActivity{ActivityBase: base}, nil
	default:
		return nil, &MappingError{Field: obj.at("type"), Err: fmt.Errorf("%w: %q", ErrUnknownActivityType, tag)}
	}
}

func (m *Mapper) activityBase(ctx context.Context, obj fields) (models.ActivityBase, error) {
	var (
		base models.ActivityBase
		err  error
	)
	if base.ID, err = obj.str("_id"); err != nil {
		return base, err
	}
	if base.Subject, err = obj.str("subject"); err != nil {
		return base, err
	}
	if base.IsUnread, err = obj.boolean("isUnread"); err != nil {
		return base, err
	}
	if base.TargetUserID, err = obj.str("targetUser"); err != nil {
		return base, err
	}
	if base.CreatedAt, err = obj.timestamp("_creationDate"); err != nil {
		return base, err
	}
	if base.UpdatedAt, err = obj.timestamp("_lastUpdateDate"); err != nil {
		return base, err
	}
	source, err := obj.object("sourceUser")
	if err != nil {
		return base, err
	}
	if base.Source, err = mapUser(source); err != nil {
		return base, err
	}

	// Follower activities carry no video.
	videoDoc, ok, err := obj.optObject("video")
	if err != nil {
		return base, err
	}
	if ok {
		video, err := m.mapVideo(ctx, videoDoc)
		if err != nil {
			return base, err
		}
		base.Video = &video
	}
	return base, nil
}
