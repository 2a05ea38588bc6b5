package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anikasharma/meraki/internal/apperror"
	"github.com/anikasharma/meraki/internal/model"
	"github.com/anikasharma/meraki/internal/repository"
)

// HobbyService serves the hobby catalog and manages each user's hobby links.
type HobbyService struct {
	hobbies repository.HobbyRepository
	logger  *slog.Logger
}

func NewHobbyService(hobbies repository.HobbyRepository, logger *slog.Logger) *HobbyService {
	return &HobbyService{hobbies: hobbies, logger: logger}
}

// ListCatalog returns the seeded hobby catalog. Public — no user required.
func (s *HobbyService) ListCatalog(ctx context.Context) ([]model.Hobby, error) {
	return s.hobbies.ListHobbies(ctx)
}

// ListForUser returns the user's hobby links with catalog data joined.
func (s *HobbyService) ListForUser(ctx context.Context, userID string) ([]model.UserHobby, error) {
	return s.hobbies.ListUserHobbies(ctx, userID)
}

// Add links the user to a catalog hobby by slug. Adding a hobby twice returns
// the conflict untouched — the handler maps it to 409 and the client treats
// it as already-added.
func (s *HobbyService) Add(ctx context.Context, userID, slug string) (*model.UserHobby, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apperror.ValidationFailed("slug", "hobby slug is required")
	}

	hobby, err := s.hobbies.GetHobbyBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("service/hobby: looking up hobby %s: %w", slug, err)
	}

	uh := &model.UserHobby{
		UserID:  userID,
		HobbyID: hobby.ID,
		Status:  model.HobbyActive,
	}
	if err := s.hobbies.AddUserHobby(ctx, uh); err != nil {
		return nil, fmt.Errorf("service/hobby: adding hobby %s for user %s: %w", slug, userID, err)
	}
	uh.Hobby = hobby

	s.logger.Info("hobby added",
		slog.String("userID", userID),
		slog.String("slug", slug),
	)

	return uh, nil
}
