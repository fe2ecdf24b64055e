package players

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

var ErrValidation = errors.New("validation failed")

var updatableFields = map[string]struct{}{
	"name":          {},
	"number":        {},
	"position":      {},
	"height_cm":     {},
	"dominant_hand": {},
}

type Player struct {
	ID           string  `json:"id"`
	TeamID       string  `json:"team_id"`
	Name         string  `json:"name"`
	Number       *int    `json:"number,omitempty"`
	Position     *string `json:"position,omitempty"`
	HeightCm     *int    `json:"height_cm,omitempty"`
	DominantHand *string `json:"dominant_hand,omitempty"`
	CreatedBy    string  `json:"created_by"`
}

type CreateParams struct {
	TeamID       string  `json:"team_id" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	Number       *int    `json:"number"`
	Position     *string `json:"position"`
	HeightCm     *int    `json:"height_cm"`
	DominantHand *string `json:"dominant_hand"`
	CreatedBy    string  `json:"-" validate:"required"`
}

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Player, error)
	ListByTeam(ctx context.Context, teamID string) ([]Player, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Get(ctx context.Context, id string) (*Player, error)
	Delete(ctx context.Context, id string) error
}

var validate = validator.New()

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "players").Logger()}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Player, error) {
	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: team_id and name are required", ErrValidation)
	}
	player, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("player_id", player.ID).Str("team_id", player.TeamID).Msg("player created")
	return player, nil
}

func (s *Service) ListByTeam(ctx context.Context, teamID string) ([]Player, error) {
	if teamID == "" {
		return nil, fmt.Errorf("%w: team_id is required", ErrValidation)
	}
	return s.repo.ListByTeam(ctx, teamID)
}

// Update applies the whitelisted subset of body and returns the fresh
// row.
func (s *Service) Update(ctx context.Context, id string, body map[string]any) (*Player, error) {
	fields := FilterUpdate(body)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no valid fields to update", ErrValidation)
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// FilterUpdate keeps only the whitelisted PATCH fields.
func FilterUpdate(body map[string]any) map[string]any {
	fields := make(map[string]any, len(body))
	for key, value := range body {
		if _, ok := updatableFields[key]; ok {
			fields[key] = value
		}
	}
	return fields
}
