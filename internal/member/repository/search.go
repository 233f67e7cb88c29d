package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/festy23/memberquery/internal/entity"
	"github.com/festy23/memberquery/internal/member/model"
	"github.com/festy23/memberquery/pkg/query"
)

// searchPredicates returns one predicate per filter; absent filters yield nil,
// which Where skips.
func searchPredicates(cond model.MemberSearchCond) []*query.Predicate {
	return []*query.Predicate{
		usernameEq(cond.Username),
		teamNameEq(cond.TeamName),
		ageGoe(cond.AgeGoe),
		ageLoe(cond.AgeLoe),
	}
}

func usernameEq(username *string) *query.Predicate {
	if username == nil {
		return nil
	}
	return entity.Member_.Username.Eq(*username)
}

func teamNameEq(teamName *string) *query.Predicate {
	if teamName == nil {
		return nil
	}
	return entity.Team_.Name.Eq(*teamName)
}

func ageGoe(age *int) *query.Predicate {
	if age == nil {
		return nil
	}
	return entity.Member_.Age.Goe(*age)
}

func ageLoe(age *int) *query.Predicate {
	if age == nil {
		return nil
	}
	return entity.Member_.Age.Loe(*age)
}

func (r *repository) SearchByScopes(ctx context.Context, cond model.MemberSearchCond) ([]model.MemberTeamDto, error) {
	var rows []model.MemberTeamDto
	err := r.db.WithContext(ctx).
		Table("members").
		Select("members.member_id, members.username, members.age, members.team_id, teams.name AS team_name").
		Joins("LEFT JOIN teams ON teams.team_id = members.team_id").
		Scopes(
			scopeUsername(cond.Username),
			scopeTeamName(cond.TeamName),
			scopeAgeGoe(cond.AgeGoe),
			scopeAgeLoe(cond.AgeLoe),
		).
		Order("members.member_id ASC").
		Scan(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to search members", "error", err)
		return nil, err
	}
	if rows == nil {
		return []model.MemberTeamDto{}, nil
	}
	return rows, nil
}

func noop(db *gorm.DB) *gorm.DB { return db }

func scopeUsername(username *string) func(*gorm.DB) *gorm.DB {
	if username == nil {
		return noop
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("members.username = ?", *username)
	}
}

func scopeTeamName(teamName *string) func(*gorm.DB) *gorm.DB {
	if teamName == nil {
		return noop
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("teams.name = ?", *teamName)
	}
}

func scopeAgeGoe(age *int) func(*gorm.DB) *gorm.DB {
	if age == nil {
		return noop
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("members.age >= ?", *age)
	}
}

func scopeAgeLoe(age *int) func(*gorm.DB) *gorm.DB {
	if age == nil {
		return noop
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("members.age <= ?", *age)
	}
}
