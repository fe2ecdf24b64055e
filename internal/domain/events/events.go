package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Pagination bounds for the event log. The limit is clamped, never
// rejected, so a greedy client still gets a bounded response.
const (
	DefaultLimit = 100
	MaxLimit     = 500
)

var ErrValidation = errors.New("validation failed")

// Event is one row of the append-only log. EventSeq is assigned by the
// store and treated here as an opaque, strictly increasing cursor;
// events are never updated or deleted through this layer.
type Event struct {
	ID             string         `json:"id"`
	SessionID      string         `json:"session_id"`
	TeamSide       string         `json:"team_side"`
	PlayerID       *string        `json:"player_id,omitempty"`
	OpponentNumber *int           `json:"opponent_number,omitempty"`
	Kind           string         `json:"kind"`
	Result         *string        `json:"result,omitempty"`
	Notes          *string        `json:"notes,omitempty"`
	Meta           map[string]any `json:"meta"`
	SetNo          *int           `json:"set_no,omitempty"`
	EventSeq       int64          `json:"event_seq"`
	CreatedBy      string         `json:"created_by"`
	CreatedAt      time.Time      `json:"created_at"`
}

type CreateParams struct {
	SessionID      string         `json:"session_id" validate:"required"`
	TeamSide       string         `json:"team_side" validate:"required"`
	PlayerID       *string        `json:"player_id"`
	OpponentNumber *int           `json:"opponent_number"`
	Kind           string         `json:"kind" validate:"required"`
	Result         *string        `json:"result"`
	Notes          *string        `json:"notes"`
	Meta           map[string]any `json:"meta"`
	SetNo          *int           `json:"set_no"`
	CreatedBy      string         `json:"-" validate:"required"`
}

// ListParams selects a forward page of the log. After is a sequence
// cursor: only events with event_seq strictly greater are returned,
// which keeps pagination stable under concurrent appends. Limit is a
// pointer so an explicit zero is distinguishable from no limit at all.
type ListParams struct {
	SessionID string
	After     *int64
	Limit     *int
}

type Repository interface {
	Insert(ctx context.Context, params CreateParams) (*Event, error)
	List(ctx context.Context, params ListParams) ([]Event, error)
}

var validate = validator.New()

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "events").Logger()}
}

// Append inserts one event. Meta defaults to an empty mapping so the
// stored column is never null.
func (s *Service) Append(ctx context.Context, params CreateParams) (*Event, error) {
	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: session_id, team_side and kind are required", ErrValidation)
	}
	if params.Meta == nil {
		params.Meta = map[string]any{}
	}
	event, err := s.repo.Insert(ctx, params)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().
		Str("session_id", event.SessionID).
		Int64("event_seq", event.EventSeq).
		Str("kind", event.Kind).
		Msg("event appended")
	return event, nil
}

// List returns events for one session ordered by ascending event_seq.
// The session filter is mandatory and validated before any I/O.
func (s *Service) List(ctx context.Context, params ListParams) ([]Event, error) {
	if params.SessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", ErrValidation)
	}
	effective := ClampLimit(params.Limit)
	params.Limit = &effective
	return s.repo.List(ctx, params)
}

// ClampLimit bounds a requested page size to [1, MaxLimit]. An absent
// limit gets the default; an explicit value is always clamped into the
// range, so a requested zero yields one row, never the default page.
func ClampLimit(limit *int) int {
	if limit == nil {
		return DefaultLimit
	}
	if *limit < 1 {
		return 1
	}
	if *limit > MaxLimit {
		return MaxLimit
	}
	return *limit
}
