package model

import "time"

// Hobby is a catalog entry — seeded data, not user data.
// The slug ("watercolor-painting") is the stable key used by the AI job API;
// the numeric-ish xid is only used for foreign keys.
type Hobby struct {
	ID       string `json:"id"       db:"id"`
	Slug     string `json:"slug"     db:"slug"`
	Name     string `json:"name"     db:"name"`
	Category string `json:"category" db:"category"`
}

// UserHobbyStatus tracks where a user stands with a hobby they picked up.
type UserHobbyStatus string

const (
	HobbyActive  UserHobbyStatus = "active"
	HobbyPaused  UserHobbyStatus = "paused"
	HobbyDropped UserHobbyStatus = "dropped"
)

// UserHobby links a user to a hobby they are practicing.
// A user can hold several hobbies at once; the "hobbies explored" stat counts
// these rows regardless of status — trying and dropping still counts as exploring.
type UserHobby struct {
	ID        string          `json:"id"        db:"id"`
	UserID    string          `json:"userId"    db:"user_id"`
	HobbyID   string          `json:"hobbyId"   db:"hobby_id"`
	Status    UserHobbyStatus `json:"status"    db:"status"`
	StartedAt time.Time       `json:"startedAt" db:"started_at"`

	// Hobby is populated on reads that join the catalog; nil otherwise.
	Hobby *Hobby `json:"hobby,omitempty" db:"-"`
}
