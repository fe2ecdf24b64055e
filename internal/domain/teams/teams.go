package teams

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Membership roles. Owner and coach are the privileged roles allowed to
// manage a team's roster.
const (
	RoleOwner   = "owner"
	RoleCoach   = "coach"
	RoleAnalyst = "analyst"

	// DefaultMemberRole is assigned when an add-member request names
	// no role.
	DefaultMemberRole = RoleAnalyst
)

var ErrValidation = errors.New("validation failed")

type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsOurs    bool      `json:"is_ours"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type Member struct {
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type CreateParams struct {
	Name      string `json:"name" validate:"required"`
	IsOurs    *bool  `json:"is_ours"`
	CreatedBy string `json:"-" validate:"required"`
}

type AddMemberParams struct {
	TeamID string `validate:"required"`
	UserID string `validate:"required"`
	// Role is passed through; the store's check constraint is the
	// authority on which roles exist.
	Role string
}

// Repository is the caller-scoped view of teams: every query runs under
// the caller's RLS policies.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Team, error)
	List(ctx context.Context) ([]Team, error)
	StaffReader
}

// StaffReader provides the two lookups behind the staff-or-creator
// check. Both report absence explicitly instead of erroring so the
// check can fail closed.
type StaffReader interface {
	MembershipRole(ctx context.Context, teamID, userID string) (string, bool, error)
	CreatorOf(ctx context.Context, teamID string) (string, bool, error)
}

// MemberWriter is the privileged view used for roster mutations. It
// bypasses RLS, so it must only ever run behind IsStaffOrCreator.
type MemberWriter interface {
	AddMember(ctx context.Context, member Member) (*Member, error)
	RemoveMember(ctx context.Context, teamID, userID string) error
	ListMembers(ctx context.Context, teamID string) ([]Member, error)
}

var validate = validator.New()

// IsStaffOrCreator reports whether the user may perform privileged
// membership mutations on the team: first by membership role (owner or
// coach), then by the team's creator field. Absence of either row means
// no; this check is the sole enforcement point for the privileged
// handle and must never fail open.
func IsStaffOrCreator(ctx context.Context, repo StaffReader, teamID, userID string) (bool, error) {
	role, found, err := repo.MembershipRole(ctx, teamID, userID)
	if err != nil {
		return false, fmt.Errorf("membership lookup: %w", err)
	}
	if found && (role == RoleOwner || role == RoleCoach) {
		return true, nil
	}

	creator, found, err := repo.CreatorOf(ctx, teamID)
	if err != nil {
		return false, fmt.Errorf("creator lookup: %w", err)
	}
	return found && creator == userID, nil
}

// Service wraps a request-scoped repository with validation and
// logging. Construction is per request because the repository is bound
// to the caller's query handle.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "teams").Logger()}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Team, error) {
	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	team, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("team_id", team.ID).Str("created_by", team.CreatedBy).Msg("team created")
	return team, nil
}

func (s *Service) List(ctx context.Context) ([]Team, error) {
	return s.repo.List(ctx)
}

// AddMember writes a roster row through the privileged handle. The
// caller must have passed IsStaffOrCreator first.
func (s *Service) AddMember(ctx context.Context, writer MemberWriter, params AddMemberParams) (*Member, error) {
	if params.Role == "" {
		params.Role = DefaultMemberRole
	}
	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: user_id is required", ErrValidation)
	}
	member, err := writer.AddMember(ctx, Member{TeamID: params.TeamID, UserID: params.UserID, Role: params.Role})
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("team_id", params.TeamID).
		Str("member_id", params.UserID).
		Str("role", params.Role).
		Msg("member added")
	return member, nil
}
