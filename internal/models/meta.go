package models

// Relation is one of the relationship kinds tracked by subjective meta.
type Relation string

const (
	RelationDemand     Relation = "demand"
	RelationFriendship Relation = "friendship"
	RelationLike       Relation = "like"
)

// Direction selects which side of a relation a flag describes. Forward is the
// session user towards the object, backward the object towards the session user.
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
)

// Relations lists every relation in wire order.
var Relations = []Relation{RelationDemand, RelationFriendship, RelationLike}

// SubjectiveMeta describes how the acting session user relates to an object.
type SubjectiveMeta struct {
	DemandForward      bool
	DemandBackward     bool
	FriendshipForward  bool
	FriendshipBackward bool
	LikeForward        bool
	LikeBackward       bool
}

// Get returns the flag for a relation and direction. Unknown pairs report false.
func (m SubjectiveMeta) Get(r Relation, d Direction) bool {
	if p := m.flag(r, d); p != nil {
		return *p
	}
	return false
}

// Set stores the flag for a relation and direction and reports whether the
// pair was recognised.
func (m *SubjectiveMeta) Set(r Relation, d Direction, v bool) bool {
	p := m.flag(r, d)
	if p == nil {
		return false
	}
	*p = v
	return true
}

func (m *SubjectiveMeta) flag(r Relation, d Direction) *bool {
	switch {
	case r == RelationDemand && d == DirectionForward:
		return &m.DemandForward
	case r == RelationDemand && d == DirectionBackward:
		return &m.DemandBackward
	case r == RelationFriendship && d == DirectionForward:
		return &m.FriendshipForward
	case r == RelationFriendship && d == DirectionBackward:
		return &m.FriendshipBackward
	case r == RelationLike && d == DirectionForward:
		return &m.LikeForward
	case r == RelationLike && d == DirectionBackward:
		return &m.LikeBackward
	}
	return nil
}

// VisibilityEntity names an audience a video can be visible to.
type VisibilityEntity string

const VisibilityEveryone VisibilityEntity = "everyone"

// VisibilityEntities lists the audiences the API currently reports.
var VisibilityEntities = []VisibilityEntity{VisibilityEveryone}

// Visibility maps audiences to whether they can see the video. Missing
// entries mean not visible.
type Visibility map[VisibilityEntity]bool

// Visible reports whether the audience can see the object.
func (v Visibility) Visible(e VisibilityEntity) bool {
	return v[e]
}
