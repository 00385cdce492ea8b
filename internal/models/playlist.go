package models

import "encoding/json"

// MediaSegment is one HLS segment of a recording. It has no identity beyond
// its position in the playlist.
type MediaSegment struct {
	Sequence              int
	DiscontinuitySequence int
	TimeElapsed           float64
	Duration              float64
}

// PlaylistSession is the server-side state of a recording in progress. It is
// sent back verbatim with every append request.
type PlaylistSession struct {
	ID                string
	Segments          []MediaSegment
	ShouldFinish      bool
	IsFinished        bool
	ShouldBeAvailable bool
	IsAvailable       bool
	WindowLength      int
	MaxDuration       int
}

// NumSegments returns the number of media segments appended so far.
func (p PlaylistSession) NumSegments() int { return len(p.Segments) }

type playlistSessionWire struct {
	Config struct {
		TargetDuration int `json:"targetDuration"`
		WindowLength   int `json:"windowLength"`
	} `json:"config"`
	Meta struct {
		ID                string `json:"id"`
		ShouldFinish      bool   `json:"shouldFinish"`
		IsFinished        bool   `json:"isFinished"`
		ShouldBeAvailable bool   `json:"shouldBeAvailable"`
		IsAvailable       bool   `json:"isAvailable"`
	} `json:"meta"`
	MediaSegments []mediaSegmentWire `json:"mediaSegments"`
}

type mediaSegmentWire struct {
	MediaSequence         int     `json:"mediaSequence"`
	DiscontinuitySequence int     `json:"discontinuitySequence"`
	TimeElapsed           float64 `json:"timeElapsed"`
	Duration              float64 `json:"duration"`
}

// MarshalJSON encodes the session in the nested config/meta/mediaSegments
// shape consumed by the append call.
func (p PlaylistSession) MarshalJSON() ([]byte, error) {
	var w playlistSessionWire
	w.Config.TargetDuration = p.MaxDuration
	w.Config.WindowLength = p.WindowLength
	w.Meta.ID = p.ID
	w.Meta.ShouldFinish = p.ShouldFinish
	w.Meta.IsFinished = p.IsFinished
	w.Meta.ShouldBeAvailable = p.ShouldBeAvailable
	w.Meta.IsAvailable = p.IsAvailable
	w.MediaSegments = make([]mediaSegmentWire, 0, len(p.Segments))
	for _, s := range p.Segments {
		w.MediaSegments = append(w.MediaSegments, mediaSegmentWire{
			MediaSequence:         s.Sequence,
			DiscontinuitySequence: s.DiscontinuitySequence,
			TimeElapsed:           s.TimeElapsed,
			Duration:              s.Duration,
		})
	}
	return json.Marshal(w)
}
