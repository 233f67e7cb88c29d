// Package service provides business logic layer for team module.
package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/festy23/memberquery/internal/entity"
	teamModel "github.com/festy23/memberquery/internal/team/model"
	"github.com/festy23/memberquery/internal/team/repository"
)

// Service defines the interface for team business logic operations.
type Service interface {
	// CreateTeam creates a team without members.
	CreateTeam(ctx context.Context, req *teamModel.CreateTeamRequest) (*teamModel.TeamResponse, error)

	// GetTeam returns a team with its members.
	GetTeam(ctx context.Context, id int64) (*teamModel.TeamResponse, error)

	// ListTeams returns every team with its member count.
	ListTeams(ctx context.Context) ([]teamModel.TeamSummary, error)
}

type service struct {
	repo   repository.Repository
	logger *zap.SugaredLogger
}

// New creates a new team service instance.
func New(repo repository.Repository, logger *zap.SugaredLogger) Service {
	return &service{
		repo:   repo,
		logger: logger,
	}
}

func (s *service) CreateTeam(ctx context.Context, req *teamModel.CreateTeamRequest) (*teamModel.TeamResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, teamModel.ErrInvalidTeamName
	}

	team := entity.NewTeam(name)
	if err := s.repo.Save(ctx, team); err != nil {
		return nil, err
	}
	s.logger.Infow("team created", "team_id", team.ID, "name", team.Name)

	return toResponse(team), nil
}

func (s *service) GetTeam(ctx context.Context, id int64) (*teamModel.TeamResponse, error) {
	team, err := s.repo.FindWithMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, teamModel.ErrTeamNotFound
	}
	return toResponse(team), nil
}

func (s *service) ListTeams(ctx context.Context) ([]teamModel.TeamSummary, error) {
	return s.repo.FindAll(ctx)
}

func toResponse(team *entity.Team) *teamModel.TeamResponse {
	members := make([]teamModel.TeamMember, 0, len(team.Members))
	for _, m := range team.Members {
		members = append(members, teamModel.TeamMember{
			MemberID: m.ID,
			Username: m.Username,
			Age:      m.Age,
		})
	}
	return &teamModel.TeamResponse{
		TeamID:  team.ID,
		Name:    team.Name,
		Members: members,
	}
}
