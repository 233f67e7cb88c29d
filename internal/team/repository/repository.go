// Package repository provides data access layer for team module.
package repository

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/festy23/memberquery/internal/entity"
	teamModel "github.com/festy23/memberquery/internal/team/model"
	"github.com/festy23/memberquery/pkg/query"
)

// Repository defines the interface for team data access operations.
type Repository interface {
	// Save inserts the team, or updates it when it already has an id.
	Save(ctx context.Context, team *entity.Team) error

	// FindByID returns the team or nil when it does not exist.
	FindByID(ctx context.Context, id int64) (*entity.Team, error)

	// FindByName returns the team or nil when it does not exist.
	FindByName(ctx context.Context, name string) (*entity.Team, error)

	// FindWithMembers returns the team with its members loaded, or nil.
	FindWithMembers(ctx context.Context, id int64) (*entity.Team, error)

	// FindAll returns every team with its member count.
	FindAll(ctx context.Context) ([]teamModel.TeamSummary, error)
}

type repository struct {
	db     *gorm.DB
	f      *query.Factory
	logger *zap.SugaredLogger
}

// New creates a new team repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, f: query.NewFactory(db), logger: logger}
}

// Save inserts or updates the team row only; members are saved separately.
func (r *repository) Save(ctx context.Context, team *entity.Team) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(team).Error
	if err != nil {
		if isDuplicateError(err) {
			return teamModel.ErrTeamExists
		}
		r.logger.Errorw("failed to save team", "name", team.Name, "error", err)
		return err
	}
	r.logger.Debugw("team saved", "team_id", team.ID, "name", team.Name)
	return nil
}

// isDuplicateError checks if error is a unique constraint violation.
func isDuplicateError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

func (r *repository) FindByID(ctx context.Context, id int64) (*entity.Team, error) {
	return r.first(r.db.WithContext(ctx).Where("team_id = ?", id))
}

func (r *repository) FindByName(ctx context.Context, name string) (*entity.Team, error) {
	return r.first(r.db.WithContext(ctx).Where("name = ?", name))
}

func (r *repository) FindWithMembers(ctx context.Context, id int64) (*entity.Team, error) {
	return r.first(r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("member_id ASC")
		}).
		Where("team_id = ?", id))
}

func (r *repository) first(tx *gorm.DB) (*entity.Team, error) {
	var team entity.Team
	if err := tx.First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

// FindAll counts members per team; teams without members report zero.
func (r *repository) FindAll(ctx context.Context) ([]teamModel.TeamSummary, error) {
	t, m := entity.Team_, entity.Member_
	proj := query.Fields[teamModel.TeamSummary](
		t.ID.As("team_id"),
		t.Name,
		m.ID.Count().As("member_count"),
	)
	return query.Select(r.f, proj).
		From(t).
		LeftJoin(m, m.TeamID.EqExpr(t.ID)).
		GroupBy(t.ID, t.Name).
		OrderBy(t.ID.Asc()).
		Fetch(ctx)
}
