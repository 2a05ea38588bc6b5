// Package milestone holds the milestone rule catalog and the pure engine that
// evaluates it against a stats snapshot.
//
// The catalog is static configuration, not user data. Each entry pairs the
// display fields (which are also seeded into the milestones DB table, keyed by
// slug) with a predicate over model.StatsSnapshot. Keeping the predicates in
// code rather than in the DB means they're type-checked, testable at exact
// boundaries, and can't drift out of sync with a stored expression language
// we'd otherwise have to invent.
package milestone

import "github.com/anikasharma/meraki/internal/model"

// Definition is one catalog entry. Check must be a pure function of the
// snapshot — no I/O, no clock reads.
type Definition struct {
	Slug        string
	Title       string
	Description string
	Icon        string
	Check       func(model.StatsSnapshot) bool
}

// Catalog returns the canonical milestone list, in display order.
//
// Every threshold uses >= so a user landing exactly on the boundary is
// awarded immediately, not on the next recomputation. The streak milestones
// read LongestStreak, not CurrentStreak — a streak that lapsed after hitting
// seven days still earned the badge.
func Catalog() []Definition {
	return []Definition{
		{
			Slug:        "first-steps",
			Title:       "First Steps",
			Description: "Log your very first practice session",
			Icon:        "footprints",
			Check:       func(s model.StatsSnapshot) bool { return s.TotalSessions >= 1 },
		},
		{
			Slug:        "building-momentum",
			Title:       "Building Momentum",
			Description: "Maintain a 7-day practice streak",
			Icon:        "fire",
			Check:       func(s model.StatsSnapshot) bool { return s.LongestStreak >= 7 },
		},
		{
			Slug:        "challenge-champion",
			Title:       "Challenge Champion",
			Description: "Complete 5 creative challenges",
			Icon:        "trophy",
			Check:       func(s model.StatsSnapshot) bool { return s.ChallengesCompleted >= 5 },
		},
		{
			Slug:        "explorer",
			Title:       "Explorer",
			Description: "Try 3 different hobbies",
			Icon:        "compass",
			Check:       func(s model.StatsSnapshot) bool { return s.HobbiesExplored >= 3 },
		},
		{
			Slug:        "dedicated-creator",
			Title:       "Dedicated Creator",
			Description: "Accumulate 10 hours of practice",
			Icon:        "clock",
			Check:       func(s model.StatsSnapshot) bool { return s.TotalHours >= 10 },
		},
		{
			Slug:        "consistency-king",
			Title:       "Consistency King",
			Description: "Maintain a 30-day practice streak",
			Icon:        "crown",
			Check:       func(s model.StatsSnapshot) bool { return s.LongestStreak >= 30 },
		},
		{
			Slug:        "month-one",
			Title:       "Month One",
			Description: "Be on your creative journey for 30 days",
			Icon:        "calendar",
			Check:       func(s model.StatsSnapshot) bool { return s.DaysSinceJoining >= 30 },
		},
	}
}
