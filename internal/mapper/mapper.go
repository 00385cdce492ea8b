// Package mapper turns decoded Present API documents into models entities.
//
// Entity documents have the shape {"object": {...}, "subjectiveObjectMeta":
// {...}}. Required fields that are absent, null or of the wrong type produce
// a *MappingError naming the dotted field path. Optional fields fall back to
// their zero value.
package mapper

import (
	"context"
	"fmt"

	"github.com/presenttv/client/internal/models"
)

// UserResolver fetches a user by id. Some documents reference a user by id
// instead of embedding it.
type UserResolver interface {
	ResolveUser(ctx context.Context, id string) (models.User, error)
}

// Mapper holds the resolver used for id references. Its methods do not
// otherwise touch the network and are safe for concurrent use.
type Mapper struct {
	resolver UserResolver
}

// New returns a Mapper. resolver may be nil when the caller never maps
// documents that reference users by id.
func New(resolver UserResolver) *Mapper {
	return &Mapper{resolver: resolver}
}

func (m *Mapper) resolveUser(ctx context.Context, path, id string) (models.User, error) {
	if m == nil || m.resolver == nil {
		return models.User{}, &MappingError{Field: path, Err: ErrNoResolver}
	}
	user, err := m.resolver.ResolveUser(ctx, id)
	if err != nil {
		return models.User{}, &MappingError{Field: path, Err: fmt.Errorf("resolve user %s: %w", id, err)}
	}
	return user, nil
}

// userRef maps a field that holds either an embedded user document or a
// user id string.
func (m *Mapper) userRef(ctx context.Context, f fields, key string) (models.User, error) {
	v, ok := f.lookup(key)
	if !ok {
		return models.User{}, missing(f.at(key))
	}
	switch ref := v.(type) {
	case map[string]any:
		return mapUser(newFields(ref, f.at(key)))
	case string:
		if ref == "" {
			return models.User{}, missing(f.at(key))
		}
		return m.resolveUser(ctx, f.at(key), ref)
	default:
		return models.User{}, wrongType(f.at(key), "object or id", v)
	}
}

type entity struct {
	object fields
	meta   fields
	// hasMeta is false when the document carries no subjectiveObjectMeta.
	hasMeta bool
}

func splitEntity(doc map[string]any, path string) (entity, error) {
	root := newFields(doc, path)
	object, err := root.object("object")
	if err != nil {
		return entity{}, err
	}
	meta, ok, err := root.optObject("subjectiveObjectMeta")
	if err != nil {
		return entity{}, err
	}
	return entity{object: object, meta: meta, hasMeta: ok}, nil
}

// SubjectiveMeta maps a subjectiveObjectMeta document. Each relation block
// and direction flag is optional.
func SubjectiveMeta(doc map[string]any) (models.SubjectiveMeta, error) {
	return mapSubjectiveMeta(newFields(doc, "subjectiveObjectMeta"))
}

func mapSubjectiveMeta(f fields) (models.SubjectiveMeta, error) {
	var meta models.SubjectiveMeta
	if f.m == nil {
		return meta, nil
	}
	for _, r := range models.Relations {
		block, ok, err := f.optObject(string(r))
		if err != nil {
			return meta, err
		}
		if !ok {
			continue
		}
		for _, d := range []models.Direction{models.DirectionForward, models.DirectionBackward} {
			v, err := block.optBoolean(string(d))
			if err != nil {
				return meta, err
			}
			meta.Set(r, d, v)
		}
	}
	return meta, nil
}

// Visibility maps a visibility document such as {"everyone": true}.
func Visibility(doc map[string]any) (models.Visibility, error) {
	return mapVisibility(newFields(doc, "visibility"))
}

func mapVisibility(f fields) (models.Visibility, error) {
	vis := make(models.Visibility, len(models.VisibilityEntities))
	for _, e := range models.VisibilityEntities {
		v, err := f.boolean(string(e))
		if err != nil {
			return nil, err
		}
		vis[e] = v
	}
	return vis, nil
}

// User maps a user entity document.
func (m *Mapper) User(doc map[string]any) (models.User, error) {
	return mapUser(newFields(doc, ""))
}

func mapUser(root fields) (models.User, error) {
	ent, err := splitEntity(root.m, root.path)
	if err != nil {
		return models.User{}, err
	}
	obj := ent.object

	var user models.User
	if user.ID, err = obj.str("_id"); err != nil {
		return models.User{}, err
	}
	if user.Username, err = obj.str("username"); err != nil {
		return models.User{}, err
	}
	if user.VanityUsername, err = obj.str("displayUsername"); err != nil {
		return models.User{}, err
	}
	if user.Email, err = obj.optStr("email"); err != nil {
		return models.User{}, err
	}
	if user.CreatedAt, err = obj.timestamp("_creationDate"); err != nil {
		return models.User{}, err
	}
	if user.UpdatedAt, err = obj.timestamp("_lastUpdateDate"); err != nil {
		return models.User{}, err
	}

	profile, err := obj.object("profile")
	if err != nil {
		return models.User{}, err
	}
	if user.Profile, err = mapProfile(profile); err != nil {
		return models.User{}, err
	}

	counters := []struct {
		key string
		dst *int
	}{
		{"demands", &user.Counts.Demands},
		{"followers", &user.Counts.Followers},
		{"friends", &user.Counts.Friends},
		{"videos", &user.Counts.Videos},
		{"likes", &user.Counts.Likes},
		{"views", &user.Counts.Views},
	}
	for _, c := range counters {
		if *c.dst, err = obj.count(c.key); err != nil {
			return models.User{}, err
		}
	}

	if ent.hasMeta {
		if user.Meta, err = mapSubjectiveMeta(ent.meta); err != nil {
			return models.User{}, err
		}
	}
	return user, nil
}

// Profile maps the profile block of a user object.
func (m *Mapper) Profile(doc map[string]any) (models.UserProfile, error) {
	return mapProfile(newFields(doc, "profile"))
}

func mapProfile(f fields) (models.UserProfile, error) {
	var (
		profile models.UserProfile
		err     error
	)
	if profile.FullName, err = f.optStr("fullName"); err != nil {
		return profile, err
	}
	if profile.Description, err = f.optStr("description"); err != nil {
		return profile, err
	}
	if profile.WebsiteURL, err = f.optStr("website"); err != nil {
		return profile, err
	}
	picture, err := f.object("picture")
	if err != nil {
		return profile, err
	}
	if profile.PictureURL, err = picture.str("url"); err != nil {
		return profile, err
	}
	gender, err := f.optStr("gender")
	if err != nil {
		return profile, err
	}
	profile.Gender = models.ParseGender(gender)
	return profile, nil
}

// SessionContext maps the object returned by user_contexts/create.
func (m *Mapper) SessionContext(doc map[string]any) (models.SessionContext, error) {
	obj, err := newFields(doc, "").object("object")
	if err != nil {
		return models.SessionContext{}, err
	}

	var sc models.SessionContext
	if sc.ID, err = obj.str("_id"); err != nil {
		return models.SessionContext{}, err
	}
	if sc.SessionToken, err = obj.str("sessionToken"); err != nil {
		return models.SessionContext{}, err
	}
	if sc.CreatedAt, err = obj.optTimestamp("_creationDate"); err != nil {
		return models.SessionContext{}, err
	}
	if sc.UpdatedAt, err = obj.optTimestamp("_lastUpdateDate"); err != nil {
		return models.SessionContext{}, err
	}
	userDoc, err := obj.object("user")
	if err != nil {
		return models.SessionContext{}, err
	}
	if sc.User, err = mapUser(userDoc); err != nil {
		return models.SessionContext{}, err
	}
	return sc, nil
}
