package models

import (
	"strings"
	"time"
)

// Gender is the optional gender carried on a user profile.
type Gender int

const (
	GenderUnspecified Gender = iota
	GenderMale
	GenderFemale
)

// ParseGender reads the leading letter of the wire value. Anything other than
// F or M is unspecified.
func ParseGender(s string) Gender {
	s = strings.TrimSpace(s)
	if s == "" {
		return GenderUnspecified
	}
	switch strings.ToUpper(s[:1]) {
	case "F":
		return GenderFemale
	case "M":
		return GenderMale
	default:
		return GenderUnspecified
	}
}

// String returns the value the API expects in update requests.
func (g Gender) String() string {
	switch g {
	case GenderFemale:
		return "Female"
	case GenderMale:
		return "Male"
	default:
		return ""
	}
}

// UserProfile is the descriptive part of a user account.
type UserProfile struct {
	FullName    string
	Description string
	PictureURL  string
	WebsiteURL  string
	Gender      Gender
}

// Counts holds the six per-user counters reported by the API.
type Counts struct {
	Demands   int
	Followers int
	Friends   int
	Likes     int
	Videos    int
	Views     int
}

// CountsUpdate carries partial counter changes; nil fields are left untouched.
type CountsUpdate struct {
	Demands   *int
	Followers *int
	Friends   *int
	Likes     *int
	Videos    *int
	Views     *int
}

// User represents a Present account as seen by the acting session user.
// A User is owned by a single writer; it is not safe for concurrent mutation.
type User struct {
	ID             string
	Username       string
	VanityUsername string
	Email          string
	Profile        UserProfile
	Counts         Counts
	Meta           SubjectiveMeta
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SetFullName updates the profile name locally.
func (u *User) SetFullName(name string) { u.Profile.FullName = name }

// SetDescription updates the profile description locally.
func (u *User) SetDescription(description string) { u.Profile.Description = description }

// SetWebsite updates the profile website locally.
func (u *User) SetWebsite(url string) { u.Profile.WebsiteURL = url }

// SetGender updates the profile gender locally.
func (u *User) SetGender(g Gender) { u.Profile.Gender = g }

// SetEmail updates the account email locally.
func (u *User) SetEmail(email string) { u.Email = email }

// ApplyCounts overwrites the counters present in the update.
func (u *User) ApplyCounts(update CountsUpdate) {
	if update.Demands != nil {
		u.Counts.Demands = *update.Demands
	}
	if update.Followers != nil {
		u.Counts.Followers = *update.Followers
	}
	if update.Friends != nil {
		u.Counts.Friends = *update.Friends
	}
	if update.Likes != nil {
		u.Counts.Likes = *update.Likes
	}
	if update.Videos != nil {
		u.Counts.Videos = *update.Videos
	}
	if update.Views != nil {
		u.Counts.Views = *update.Views
	}
}

// SessionContext identifies the caller on authenticated requests.
type SessionContext struct {
	ID           string
	SessionToken string
	User         User
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserID returns the id of the embedded user.
func (s *SessionContext) UserID() string {
	if s == nil {
		return ""
	}
	return s.User.ID
}

// SetUser replaces the embedded user, typically after an update confirmation.
func (s *SessionContext) SetUser(user User) { s.User = user }
