package present

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/presenttv/client/internal/models"
	"github.com/presenttv/client/internal/transport"
)

const fixtureDate = "2014-06-04T12:00:00.000Z"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	bridge := transport.New(transport.Config{BaseURL: srv.URL + "/v1/"}, srv.Client(), discardLogger())
	return NewClient(bridge, discardLogger())
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("encode fixture: %v", err)
	}
}

func testSession() *models.SessionContext {
	return &models.SessionContext{ID: "ctx-1", SessionToken: "token-1", User: models.User{ID: "me"}}
}

func userFixture(id string) map[string]any {
	return map[string]any{
		"object": map[string]any{
			"_id":             id,
			"_creationDate":   fixtureDate,
			"_lastUpdateDate": fixtureDate,
			"username":        id,
			"displayUsername": id,
			"profile": map[string]any{
				"fullName": "User " + id,
				"picture":  map[string]any{"url": "https://cdn.example.com/" + id + ".png"},
			},
			"demands":   map[string]any{"count": 0},
			"followers": map[string]any{"count": 0},
			"friends":   map[string]any{"count": 0},
			"videos":    map[string]any{"count": 0},
			"likes":     map[string]any{"count": 0},
			"views":     map[string]any{"count": 0},
		},
		"subjectiveObjectMeta": map[string]any{},
	}
}

func videoFixture(id string, creator any) map[string]any {
	return map[string]any{
		"object": map[string]any{
			"_id":               id,
			"_creationDate":     fixtureDate,
			"_lastUpdateDate":   fixtureDate,
			"title":             "video " + id,
			"creatorUser":       creator,
			"creationTimeRange": map[string]any{"startDate": fixtureDate},
			"likes":             map[string]any{"count": 1},
			"views":             map[string]any{"count": 2},
			"isAvailable":       true,
			"visibility":        map[string]any{"everyone": true},
		},
		"subjectiveObjectMeta": map[string]any{},
	}
}

func playlistFixture(id string, segments int) map[string]any {
	list := make([]any, 0, segments)
	for i := 1; i <= segments; i++ {
		list = append(list, map[string]any{
			"mediaSequence":         i,
			"discontinuitySequence": 0,
			"timeElapsed":           float64(i-1) * 2,
			"duration":              2.0,
		})
	}
	return map[string]any{
		"config": map[string]any{"targetDuration": 2, "windowLength": 5},
		"meta": map[string]any{
			"id":                id,
			"shouldFinish":      false,
			"isFinished":        false,
			"shouldBeAvailable": true,
			"isAvailable":       segments > 0,
		},
		"mediaSegments": list,
	}
}

// recordingFixture is the result of videos/create and videos/append.
func recordingFixture(videoID string, segments int) map[string]any {
	doc := videoFixture(videoID, userFixture("me"))
	doc["playlistSession"] = playlistFixture("ps-"+videoID, segments)
	return map[string]any{"status": "OK", "result": doc}
}

func activityFixture(id, tag string, video map[string]any) map[string]any {
	obj := map[string]any{
		"_id":             id,
		"_creationDate":   fixtureDate,
		"_lastUpdateDate": fixtureDate,
		"subject":         "activity " + id,
		"type":            tag,
		"isUnread":        false,
		"sourceUser":      userFixture("someone"),
		"targetUser":      "me",
	}
	if video != nil {
		obj["video"] = video
	}
	return map[string]any{"object": obj}
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Errorf("decode request body: %v", err)
	}
	return body
}
