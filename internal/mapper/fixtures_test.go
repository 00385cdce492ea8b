package mapper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/presenttv/client/internal/models"
)

const (
	testCreated = "2014-06-04T12:00:00.000Z"
	testUpdated = "2014-06-05T08:30:15.250+0200"
)

func decodeJSON(t *testing.T, raw string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var doc map[string]any
	require.NoError(t, dec.Decode(&doc))
	return doc
}

func counter(n int) map[string]any {
	return map[string]any{"count": n}
}

func userDoc(id string) map[string]any {
	return map[string]any{
		"object": map[string]any{
			"_id":             id,
			"_creationDate":   testCreated,
			"_lastUpdateDate": testUpdated,
			"username":        id + "-name",
			"displayUsername": id + "-Name",
			"email":           id + "@example.com",
			"profile": map[string]any{
				"fullName":    "Full " + id,
				"description": "about " + id,
				"website":     "https://example.com/" + id,
				"gender":      "female",
				"picture":     map[string]any{"url": "https://cdn.example.com/" + id + ".png"},
			},
			"demands":   counter(1),
			"followers": counter(2),
			"friends":   counter(3),
			"videos":    counter(4),
			"likes":     counter(5),
			"views":     counter(6),
		},
		"subjectiveObjectMeta": map[string]any{
			"demand":     map[string]any{"forward": true, "backward": false},
			"friendship": map[string]any{"forward": false, "backward": true},
		},
	}
}

func commentDoc(id string, video any) map[string]any {
	obj := map[string]any{
		"_id":             id,
		"_creationDate":   testCreated,
		"_lastUpdateDate": testUpdated,
		"body":            "nice one",
		"sourceUser":      userDoc("commenter"),
	}
	if video != nil {
		obj["video"] = video
	}
	return map[string]any{"object": obj}
}

func videoDoc(id string, creator any) map[string]any {
	return map[string]any{
		"object": map[string]any{
			"_id":             id,
			"_creationDate":   testCreated,
			"_lastUpdateDate": testUpdated,
			"title":           "video " + id,
			"creatorUser":     creator,
			"creationTimeRange": map[string]any{
				"startDate": testCreated,
				"endDate":   testUpdated,
			},
			"mediaUrls": map[string]any{
				"images": map[string]any{"480px": "https://cdn.example.com/" + id + ".jpg"},
				"playlists": map[string]any{
					"live":   map[string]any{"master": "https://live.example.com/" + id + ".m3u8"},
					"replay": map[string]any{"master": "https://replay.example.com/" + id + ".m3u8"},
				},
			},
			"likes":       counter(10),
			"views":       counter(20),
			"isAvailable": true,
			"visibility":  map[string]any{"everyone": true},
			"comments": map[string]any{
				"results": []any{commentDoc("c1", id)},
			},
		},
		"subjectiveObjectMeta": map[string]any{
			"like": map[string]any{"forward": true, "backward": false},
		},
	}
}

func activityDoc(tag models.ActivityType) map[string]any {
	obj := map[string]any{
		"_id":             "act-" + string(tag),
		"_creationDate":   testCreated,
		"_lastUpdateDate": testUpdated,
		"subject":         "something happened",
		"type":            string(tag),
		"isUnread":        true,
		"sourceUser":      userDoc("actor"),
		"video":           videoDoc("v1", userDoc("creator")),
		"targetUser":      "me",
	}
	if tag == models.ActivityNewCommentMention {
		obj["comment"] = commentDoc("mention-comment", "v1")
	}
	return map[string]any{"object": obj}
}

// object returns the "object" block of an entity document for mutation.
func object(doc map[string]any) map[string]any {
	return doc["object"].(map[string]any)
}

type resolverStub struct {
	users map[string]models.User
	err   error
	calls []string
}

func (r *resolverStub) ResolveUser(ctx context.Context, id string) (models.User, error) {
	r.calls = append(r.calls, id)
	if r.err != nil {
		return models.User{}, r.err
	}
	user, ok := r.users[id]
	if !ok {
		return models.User{}, errNotFoundStub
	}
	return user, nil
}

var errNotFoundStub = errors.New("user not found")
