package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anikasharma/meraki/internal/apperror"
	"github.com/anikasharma/meraki/internal/model"
)

func saveTestChallenge(t *testing.T, db *DB, userID, id, title string) *model.UserChallenge {
	t.Helper()
	ctx := context.Background()

	hobby, err := db.GetHobbyBySlug(ctx, "pottery")
	if err != nil {
		t.Fatalf("GetHobbyBySlug: %v", err)
	}
	uc, err := db.SaveGeneratedChallenge(ctx, userID, &model.Challenge{
		ID:          id,
		HobbyID:     hobby.ID,
		Title:       title,
		Description: "generated",
		Difficulty:  "beginner",
	})
	if err != nil {
		t.Fatalf("SaveGeneratedChallenge: %v", err)
	}
	return uc
}

func TestSaveGeneratedChallenge(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	userID := createTestUser(t, db, "challenges@example.com")

	uc := saveTestChallenge(t, db, userID, "job-abc", "Texture study")
	if uc.Status != model.ChallengeActive {
		t.Errorf("status = %s, want active", uc.Status)
	}

	list, err := db.ListUserChallenges(ctx, userID)
	if err != nil {
		t.Fatalf("ListUserChallenges: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("ListUserChallenges returned %d rows, want 1", len(list))
	}
	if list[0].Challenge == nil || list[0].Challenge.Title != "Texture study" {
		t.Errorf("joined challenge = %+v", list[0].Challenge)
	}
}

func TestSaveGeneratedChallenge_DuplicateIsConflict(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	userID := createTestUser(t, db, "dup@example.com")

	saveTestChallenge(t, db, userID, "job-abc", "Texture study")

	hobby, err := db.GetHobbyBySlug(ctx, "pottery")
	if err != nil {
		t.Fatalf("GetHobbyBySlug: %v", err)
	}
	_, err = db.SaveGeneratedChallenge(ctx, userID, &model.Challenge{
		ID: "job-abc", HobbyID: hobby.ID, Title: "Texture study", Difficulty: "beginner",
	})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("second save error = %v, want conflict", err)
	}

	// The failed re-save left nothing behind.
	list, err := db.ListUserChallenges(ctx, userID)
	if err != nil {
		t.Fatalf("ListUserChallenges: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("ListUserChallenges returned %d rows after conflict, want 1", len(list))
	}
}

func TestChallengeLifecycle_FeedsCompletedTitles(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	userID := createTestUser(t, db, "lifecycle@example.com")

	uc := saveTestChallenge(t, db, userID, "job-1", "Texture study")
	saveTestChallenge(t, db, userID, "job-2", "Glaze test")

	now := time.Now().UTC()
	if err := db.SetChallengeStatus(ctx, userID, uc.ID, model.ChallengeCompleted, &now); err != nil {
		t.Fatalf("SetChallengeStatus: %v", err)
	}

	titles, err := db.CompletedChallengeTitles(ctx, userID, 5)
	if err != nil {
		t.Fatalf("CompletedChallengeTitles: %v", err)
	}
	if len(titles) != 1 || titles[0] != "Texture study" {
		t.Errorf("titles = %v, want [Texture study]", titles)
	}

	snap, err := db.Snapshot(ctx, userID)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.ChallengesCompleted != 1 {
		t.Errorf("ChallengesCompleted = %d, want 1", snap.ChallengesCompleted)
	}
}
