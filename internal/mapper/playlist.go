package mapper

import "github.com/presenttv/client/internal/models"

// MediaSegment maps one entry of a playlist session's mediaSegments array.
func (m *Mapper) MediaSegment(doc map[string]any) (models.MediaSegment, error) {
	return mapMediaSegment(newFields(doc, ""))
}

func mapMediaSegment(f fields) (models.MediaSegment, error) {
	var (
		seg models.MediaSegment
		err error
	)
	if seg.Sequence, err = f.integer("mediaSequence"); err != nil {
		return seg, err
	}
	if seg.DiscontinuitySequence, err = f.integer("discontinuitySequence"); err != nil {
		return seg, err
	}
	if seg.TimeElapsed, err = f.float("timeElapsed"); err != nil {
		return seg, err
	}
	if seg.Duration, err = f.float("duration"); err != nil {
		return seg, err
	}
	return seg, nil
}

// PlaylistSession maps the config/meta/mediaSegments document produced by
// models.PlaylistSession.MarshalJSON and returned by the recording calls.
func (m *Mapper) PlaylistSession(doc map[string]any) (models.PlaylistSession, error) {
	return mapPlaylistSession(newFields(doc, ""))
}

func mapPlaylistSession(f fields) (models.PlaylistSession, error) {
	var ps models.PlaylistSession

	config, err := f.object("config")
	if err != nil {
		return ps, err
	}
	if ps.WindowLength, err = config.integer("windowLength"); err != nil {
		return ps, err
	}
	if ps.MaxDuration, err = config.integer("targetDuration"); err != nil {
		return ps, err
	}

	meta, err := f.object("meta")
	if err != nil {
		return ps, err
	}
	if ps.ID, err = meta.str("id"); err != nil {
		return ps, err
	}
	flags := []struct {
		key string
		dst *bool
	}{
		{"shouldFinish", &ps.ShouldFinish},
		{"isFinished", &ps.IsFinished},
		{"shouldBeAvailable", &ps.ShouldBeAvailable},
		{"isAvailable", &ps.IsAvailable},
	}
	for _, flag := range flags {
		if *flag.dst, err = meta.boolean(flag.key); err != nil {
			return ps, err
		}
	}

	segments, err := f.array("mediaSegments")
	if err != nil {
		return ps, err
	}
	ps.Segments = make([]models.MediaSegment, 0, len(segments))
	for i := range segments {
		doc, err := elem(segments, i, f.at("mediaSegments"))
		if err != nil {
			return ps, err
		}
		seg, err := mapMediaSegment(doc)
		if err != nil {
			return ps, err
		}
		ps.Segments = append(ps.Segments, seg)
	}
	return ps, nil
}
