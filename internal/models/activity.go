package models

import "time"

// ActivityType is the wire tag selecting a user activity variant.
type ActivityType string

const (
	ActivityNewComment             ActivityType = "newComment"
	ActivityNewCommentMention      ActivityType = "newCommentMention"
	ActivityNewDemand              ActivityType = "newDemand"
	ActivityNewFollower            ActivityType = "newFollower"
	ActivityNewLike                ActivityType = "newLike"
	ActivityNewVideoByDemandedUser ActivityType = "newVideoByDemandedUser"
	ActivityNewVideoByFriend       ActivityType = "newVideoByFriend"
	ActivityNewVideoMention        ActivityType = "newVideoMention"
	ActivityNewViewer              ActivityType = "newViewer"
)

// ActivityTypes is the closed set of tags the API emits. Every entry must have
// a case in the activity mapper.
var ActivityTypes = []ActivityType{
	ActivityNewComment,
	ActivityNewCommentMention,
	ActivityNewDemand,
	ActivityNewFollower,
	ActivityNewLike,
	ActivityNewVideoByDemandedUser,
	ActivityNewVideoByFriend,
	ActivityNewVideoMention,
	ActivityNewViewer,
}

// ActivityBase holds the fields shared by every activity variant.
type ActivityBase struct {
	ID           string
	Subject      string
	Source       User
	Video        *Video
	TargetUserID string
	IsUnread     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Base returns the shared fields.
func (b ActivityBase) Base() ActivityBase { return b }

func (ActivityBase) userActivity() {}

// UserActivity is a notification in a user's activity feed. The set of
// implementations is closed to this package.
type UserActivity interface {
	Type() ActivityType
	Base() ActivityBase
	userActivity()
}

type NewCommentActivity struct{ ActivityBase }

type NewCommentMentionActivity struct {
	ActivityBase
	Comment Comment
}

type NewDemandActivity struct{ ActivityBase }

type NewFollowerActivity struct{ ActivityBase }

type NewLikeActivity struct{ ActivityBase }

type NewVideoByDemandedUserActivity struct{ ActivityBase }

type NewVideoByFriendActivity struct{ ActivityBase }

type NewVideoMentionActivity struct{ ActivityBase }

type NewViewerActivity struct{ ActivityBase }

func (NewCommentActivity) Type() ActivityType             { return ActivityNewComment }
func (NewCommentMentionActivity) Type() ActivityType      { return ActivityNewCommentMention }
func (NewDemandActivity) Type() ActivityType              { return ActivityNewDemand }
func (NewFollowerActivity) Type() ActivityType            { return ActivityNewFollower }
func (NewLikeActivity) Type() ActivityType                { return ActivityNewLike }
func (NewVideoByDemandedUserActivity) Type() ActivityType { return ActivityNewVideoByDemandedUser }
func (NewVideoByFriendActivity) Type() ActivityType       { return ActivityNewVideoByFriend }
func (NewVideoMentionActivity) Type() ActivityType        { return ActivityNewVideoMention }
func (NewViewerActivity) Type() ActivityType              { return ActivityNewViewer }
