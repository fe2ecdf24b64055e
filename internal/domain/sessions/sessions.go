package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Defaults applied when a create request leaves fields unset.
const (
	DefaultKind      = "training"
	DefaultEvalLevel = "simple"
	DefaultBestOf    = 5
	DefaultStatus    = "open"
)

var ErrValidation = errors.New("validation failed")

// updatableFields is the PATCH whitelist; everything else in the body
// is dropped.
var updatableFields = map[string]struct{}{
	"status":        {},
	"eval_level":    {},
	"opponent_name": {},
	"best_of":       {},
}

type Session struct {
	ID             string    `json:"id"`
	TeamID         string    `json:"team_id"`
	OpponentTeamID *string   `json:"opponent_team_id,omitempty"`
	OpponentName   *string   `json:"opponent_name,omitempty"`
	Kind           string    `json:"kind"`
	EvalLevel      string    `json:"eval_level"`
	BestOf         int       `json:"best_of"`
	Status         string    `json:"status"`
	CreatedBy      string    `json:"created_by"`
	StartedAt      time.Time `json:"started_at"`
}

type CreateParams struct {
	TeamID         string  `json:"team_id" validate:"required"`
	OpponentTeamID *string `json:"opponent_team_id"`
	OpponentName   *string `json:"opponent_name"`
	Kind           string  `json:"kind"`
	EvalLevel      string  `json:"eval_level"`
	BestOf         int     `json:"best_of"`
	Status         string  `json:"status"`
	CreatedBy      string  `json:"-" validate:"required"`
}

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Session, error)
	List(ctx context.Context) ([]Session, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Get(ctx context.Context, id string) (*Session, error)

	// Score and Boxscore are opaque remote procedures; aggregation
	// semantics live entirely in the store.
	Score(ctx context.Context, sessionID string) (json.RawMessage, error)
	Boxscore(ctx context.Context, sessionID string) (json.RawMessage, error)
}

var validate = validator.New()

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "sessions").Logger()}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Session, error) {
	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: team_id is required", ErrValidation)
	}
	if params.Kind == "" {
		params.Kind = DefaultKind
	}
	if params.EvalLevel == "" {
		params.EvalLevel = DefaultEvalLevel
	}
	if params.BestOf == 0 {
		params.BestOf = DefaultBestOf
	}
	if params.Status == "" {
		params.Status = DefaultStatus
	}

	session, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("session_id", session.ID).Str("team_id", session.TeamID).Msg("session created")
	return session, nil
}

func (s *Service) List(ctx context.Context) ([]Session, error) {
	return s.repo.List(ctx)
}

// Update applies the whitelisted subset of body to the session and
// returns the fresh row. A body with no whitelisted field is a
// validation error.
func (s *Service) Update(ctx context.Context, id string, body map[string]any) (*Session, error) {
	fields := FilterUpdate(body)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no valid fields to update", ErrValidation)
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Score(ctx context.Context, sessionID string) (json.RawMessage, error) {
	return s.repo.Score(ctx, sessionID)
}

func (s *Service) Boxscore(ctx context.Context, sessionID string) (json.RawMessage, error) {
	return s.repo.Boxscore(ctx, sessionID)
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
