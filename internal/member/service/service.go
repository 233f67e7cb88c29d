// Package service provides business logic layer for member module.
package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/memberquery/internal/entity"
	"github.com/festy23/memberquery/internal/member/model"
	"github.com/festy23/memberquery/internal/member/repository"
	teamRepository "github.com/festy23/memberquery/internal/team/repository"
	"github.com/festy23/memberquery/pkg/query"
)

// Service defines the interface for member business logic operations.
type Service interface {
	// CreateMember stores a new member, optionally in an existing team.
	CreateMember(ctx context.Context, req *model.CreateMemberRequest) (*model.MemberTeamDto, error)

	// GetMember returns the member with its team name.
	GetMember(ctx context.Context, id int64) (*model.MemberTeamDto, error)

	// FindByUsername returns the members with the exact username.
	FindByUsername(ctx context.Context, username string) ([]entity.Member, error)

	// Search returns every member matching cond.
	Search(ctx context.Context, cond model.MemberSearchCond) ([]model.MemberTeamDto, error)

	// SearchPageSimple returns one page, always counting the total.
	SearchPageSimple(ctx context.Context, cond model.MemberSearchCond, req model.PageRequest) (*query.Page[model.MemberTeamDto], error)

	// SearchPageComplex returns one page, counting only when needed.
	SearchPageComplex(ctx context.Context, cond model.MemberSearchCond, req model.PageRequest) (*query.Page[model.MemberTeamDto], error)

	// Seed stores teamA, teamB and n members unless teamA already exists.
	Seed(ctx context.Context, n int) error
}

type service struct {
	repo   repository.Repository
	teams  teamRepository.Repository
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new member service instance.
func New(repo repository.Repository, teams teamRepository.Repository, db *gorm.DB, logger *zap.SugaredLogger) Service {
	return &service{
		repo:   repo,
		teams:  teams,
		db:     db,
		logger: logger,
	}
}

func (s *service) CreateMember(ctx context.Context, req *model.CreateMemberRequest) (*model.MemberTeamDto, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, model.ErrInvalidUsername
	}
	if req.Age < 0 {
		return nil, model.ErrInvalidAge
	}

	var team *entity.Team
	if req.TeamID != nil {
		var err error
		team, err = s.teams.FindByID(ctx, *req.TeamID)
		if err != nil {
			return nil, err
		}
		if team == nil {
			return nil, model.ErrTeamNotFound
		}
	}

	m := entity.NewMember(username, req.Age, team)
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, err
	}
	s.logger.Infow("member created", "member_id", m.ID, "team_id", req.TeamID)

	return toDto(m), nil
}

func (s *service) GetMember(ctx context.Context, id int64) (*model.MemberTeamDto, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, model.ErrMemberNotFound
	}
	return toDto(m), nil
}

func (s *service) FindByUsername(ctx context.Context, username string) ([]entity.Member, error) {
	return s.repo.FindByUsernameTyped(ctx, username)
}

func (s *service) Search(ctx context.Context, cond model.MemberSearchCond) ([]model.MemberTeamDto, error) {
	if cond.IsEmpty() {
		s.logger.Debugw("member search without filters scans every row")
	}
	return s.repo.SearchByBuilder(ctx, cond)
}

func (s *service) SearchPageSimple(ctx context.Context, cond model.MemberSearchCond, req model.PageRequest) (*query.Page[model.MemberTeamDto], error) {
	p, err := toPageable(req)
	if err != nil {
		return nil, err
	}
	return s.repo.SearchPageSimple(ctx, cond, p)
}

func (s *service) SearchPageComplex(ctx context.Context, cond model.MemberSearchCond, req model.PageRequest) (*query.Page[model.MemberTeamDto], error) {
	p, err := toPageable(req)
	if err != nil {
		return nil, err
	}
	return s.repo.SearchPageComplex(ctx, cond, p)
}

// Seed creates teamA and teamB and members member0..member{n-1} with age i;
// even members join teamA and odd ones teamB.
func (s *service) Seed(ctx context.Context, n int) error {
	existing, err := s.teams.FindByName(ctx, "teamA")
	if err != nil {
		return err
	}
	if existing != nil {
		s.logger.Infow("sample data already present, skipping")
		return nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txTeams := teamRepository.New(tx, s.logger)
		txMembers := repository.New(tx, s.logger)

		teamA := entity.NewTeam("teamA")
		teamB := entity.NewTeam("teamB")
		for _, team := range []*entity.Team{teamA, teamB} {
			if err := txTeams.Save(ctx, team); err != nil {
				return err
			}
		}

		for i := 0; i < n; i++ {
			team := teamA
			if i%2 != 0 {
				team = teamB
			}
			if err := txMembers.Save(ctx, entity.NewMember(fmt.Sprintf("member%d", i), i, team)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to seed sample data: %w", err)
	}

	s.logger.Infow("sample data seeded", "members", n)
	return nil
}

func toDto(m *entity.Member) *model.MemberTeamDto {
	dto := model.NewMemberTeamDto(m.ID, m.Username, m.Age, m.TeamID, nil)
	if m.Team != nil {
		name := m.Team.Name
		dto.TeamName = &name
	}
	return &dto
}
