package models

import "time"

// Video is a recorded or live broadcast.
type Video struct {
	ID    string
	Title string
	// Creator is either embedded in the payload or resolved by id.
	Creator       User
	StillImageURL string
	LiveURL       string
	ReplayURL     string
	Likes         int
	Views         int
	IsAvailable   bool
	Visibility    Visibility
	Comments      []Comment
	CreationStart time.Time
	// CreationEnd is zero while the video is still being recorded.
	CreationEnd time.Time
	Meta        SubjectiveMeta
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Comment is a message left on a video.
type Comment struct {
	ID     string
	Body   string
	Source User
	// Video is set only when the payload embeds the full video document.
	Video     *Video
	VideoID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Demand records that Source asked Target to go live.
type Demand struct {
	ID        string
	Source    User
	Target    User
	CreatedAt time.Time
	UpdatedAt time.Time
}
