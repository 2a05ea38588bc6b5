package sqlite

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/anikasharma/meraki/internal/model"
	"github.com/anikasharma/meraki/internal/repository"
)

var _ repository.StatsProvider = (*DB)(nil)

// Snapshot computes the on-demand activity aggregate for one user.
//
// Nothing here is cached or stored: the snapshot is recomputed from the
// session/challenge/hobby tables every time, so the milestone engine always
// evaluates fresh numbers. Day boundaries are UTC throughout — the same
// convention used when rows are inserted.
func (db *DB) Snapshot(ctx context.Context, userID string) (model.StatsSnapshot, error) {
	var snap model.StatsSnapshot

	var totalMinutes int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(duration), 0)
		 FROM practice_sessions WHERE user_id = ?`,
		userID,
	).Scan(&snap.TotalSessions, &totalMinutes)
	if err != nil {
		return snap, fmt.Errorf("sqlite: counting sessions: %w", err)
	}
	snap.TotalHours = float64(totalMinutes) / 60.0

	err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_challenges
		 WHERE user_id = ? AND status = 'completed'`,
		userID,
	).Scan(&snap.ChallengesCompleted)
	if err != nil {
		return snap, fmt.Errorf("sqlite: counting completed challenges: %w", err)
	}

	// Every user_hobbies row counts as exploring, whatever its status —
	// trying a hobby and dropping it is still trying it.
	err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_hobbies WHERE user_id = ?`,
		userID,
	).Scan(&snap.HobbiesExplored)
	if err != nil {
		return snap, fmt.Errorf("sqlite: counting user hobbies: %w", err)
	}

	var joinedAt time.Time
	err = db.conn.QueryRowContext(ctx,
		`SELECT created_at FROM users WHERE id = ?`, userID,
	).Scan(&joinedAt)
	if err != nil {
		return snap, fmt.Errorf("sqlite: reading user join date: %w", err)
	}
	snap.DaysSinceJoining = int(time.Now().UTC().Sub(joinedAt).Hours() / 24)

	days, err := db.sessionDays(ctx, userID)
	if err != nil {
		return snap, err
	}
	snap.CurrentStreak, snap.LongestStreak = streaks(days, time.Now().UTC())

	return snap, nil
}

// sessionDays returns the distinct UTC dates (midnight-truncated) on which
// the user logged any session, newest first.
func (db *DB) sessionDays(ctx context.Context, userID string) ([]time.Time, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT created_at FROM practice_sessions
		 WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading session dates: %w", err)
	}
	defer rows.Close()

	seen := make(map[time.Time]bool)
	var days []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("sqlite: scanning session date: %w", err)
		}
		day := ts.UTC().Truncate(24 * time.Hour)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating session dates: %w", err)
	}

	// Rows come back newest-first but day truncation can reorder ties;
	// sort to be certain before the streak walk.
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days, nil
}

// streaks derives (current, longest) from a newest-first list of distinct
// session days.
//
// The current streak is the run of consecutive days ending today or
// yesterday — practicing yesterday but not (yet) today still counts as an
// unbroken streak, since today isn't over. The longest streak is the best
// consecutive run anywhere in history.
func streaks(days []time.Time, now time.Time) (current, longest int) {
	if len(days) == 0 {
		return 0, 0
	}

	today := now.Truncate(24 * time.Hour)
	dayGap := func(a, b time.Time) int {
		return int(a.Sub(b).Hours() / 24)
	}

	// Current streak: walk from the most recent day backwards as long as
	// each day is exactly one before the previous.
	if gap := dayGap(today, days[0]); gap <= 1 {
		current = 1
		for i := 1; i < len(days); i++ {
			if dayGap(days[i-1], days[i]) == 1 {
				current++
			} else {
				break
			}
		}
	}

	// Longest streak: scan the whole history for the best run.
	longest = 1
	run := 1
	for i := 1; i < len(days); i++ {
		if dayGap(days[i-1], days[i]) == 1 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	if current > longest {
		longest = current
	}

	return current, longest
}

// StreakDays builds the dashboard's 7-day strip: for each of the last seven
// UTC days (oldest first), whether the user practiced, only thought about it,
// or did nothing. Practice outranks thought on days with both.
func (db *DB) StreakDays(ctx context.Context, userID string) ([]model.DayActivity, error) {
	since := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -6)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT created_at, session_type FROM practice_sessions
		 WHERE user_id = ? AND created_at >= ?`,
		userID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading streak sessions: %w", err)
	}
	defer rows.Close()

	byDay := make(map[time.Time]model.DayActivity)
	for rows.Next() {
		var ts time.Time
		var sessionType model.SessionType
		if err := rows.Scan(&ts, &sessionType); err != nil {
			return nil, fmt.Errorf("sqlite: scanning streak session: %w", err)
		}
		day := ts.UTC().Truncate(24 * time.Hour)
		if sessionType == model.SessionPractice {
			byDay[day] = model.DayPracticed
		} else if byDay[day] != model.DayPracticed {
			byDay[day] = model.DayThought
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating streak sessions: %w", err)
	}

	days := make([]model.DayActivity, 7)
	for i := 0; i < 7; i++ {
		day := since.AddDate(0, 0, i)
		if activity, ok := byDay[day]; ok {
			days[i] = activity
		} else {
			days[i] = model.DayNone
		}
	}

	return days, nil
}

// Heatmap buckets per-day practice minutes over the last 84 days (12 weeks)
// into intensities 0–3, oldest first: 0 = none, 1 = under 30 min,
// 2 = under an hour, 3 = an hour or more.
func (db *DB) Heatmap(ctx context.Context, userID string) ([]int, error) {
	const windowDays = 84
	since := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -(windowDays - 1))

	rows, err := db.conn.QueryContext(ctx,
		`SELECT created_at, duration FROM practice_sessions
		 WHERE user_id = ? AND created_at >= ?`,
		userID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading heatmap sessions: %w", err)
	}
	defer rows.Close()

	minutesByDay := make(map[time.Time]int)
	for rows.Next() {
		var ts time.Time
		var duration int
		if err := rows.Scan(&ts, &duration); err != nil {
			return nil, fmt.Errorf("sqlite: scanning heatmap session: %w", err)
		}
		day := ts.UTC().Truncate(24 * time.Hour)
		minutesByDay[day] += duration
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating heatmap sessions: %w", err)
	}

	heatmap := make([]int, windowDays)
	for i := 0; i < windowDays; i++ {
		minutes := minutesByDay[since.AddDate(0, 0, i)]
		switch {
		case minutes == 0:
			heatmap[i] = 0
		case minutes < 30:
			heatmap[i] = 1
		case minutes < 60:
			heatmap[i] = 2
		default:
			heatmap[i] = 3
		}
	}

	return heatmap, nil
}
