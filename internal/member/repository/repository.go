// Package repository provides data access layer for member module.
package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/festy23/memberquery/internal/entity"
	"github.com/festy23/memberquery/internal/member/model"
	"github.com/festy23/memberquery/pkg/query"
)

// Repository defines the interface for member data access operations.
type Repository interface {
	// Save inserts the member, or updates it when it already has an id.
	Save(ctx context.Context, m *entity.Member) error

	// FindByID returns the member or nil when it does not exist.
	FindByID(ctx context.Context, id int64) (*entity.Member, error)

	// FindAll loads every member through gorm.
	FindAll(ctx context.Context) ([]entity.Member, error)

	// FindAllTyped loads every member through the typed query builder.
	FindAllTyped(ctx context.Context) ([]entity.Member, error)

	// FindByUsername loads members with the exact username through gorm.
	FindByUsername(ctx context.Context, username string) ([]entity.Member, error)

	// FindByUsernameTyped loads members with the exact username through the typed query builder.
	FindByUsernameTyped(ctx context.Context, username string) ([]entity.Member, error)

	// FindAllBy loads members matching p; a nil predicate matches all.
	FindAllBy(ctx context.Context, p *query.Predicate, orders ...query.OrderSpecifier) ([]entity.Member, error)

	// FindMemberDtos projects every member into MemberDto through its constructor.
	FindMemberDtos(ctx context.Context) ([]model.MemberDto, error)

	// FindUserDtos projects every member into UserDto, aliasing username to name.
	FindUserDtos(ctx context.Context) ([]model.UserDto, error)

	// SearchByBuilder searches with a BooleanBuilder accumulating the present filters.
	SearchByBuilder(ctx context.Context, cond model.MemberSearchCond) ([]model.MemberTeamDto, error)

	// Search searches with one optional predicate per filter.
	Search(ctx context.Context, cond model.MemberSearchCond) ([]model.MemberTeamDto, error)

	// SearchByScopes searches with plain gorm scopes; results match Search.
	SearchByScopes(ctx context.Context, cond model.MemberSearchCond) ([]model.MemberTeamDto, error)

	// SearchPageSimple returns one page and always counts the total.
	SearchPageSimple(ctx context.Context, cond model.MemberSearchCond, p query.Pageable) (*query.Page[model.MemberTeamDto], error)

	// SearchPageComplex returns one page and counts only when the content
	// does not determine the total.
	SearchPageComplex(ctx context.Context, cond model.MemberSearchCond, p query.Pageable) (*query.Page[model.MemberTeamDto], error)

	// BulkRenameYoungerThan renames every member younger than age.
	BulkRenameYoungerThan(ctx context.Context, age int, username string) (int64, error)

	// BulkAddAge adds delta to every member's age.
	BulkAddAge(ctx context.Context, delta int) (int64, error)

	// BulkDeleteOlderThan deletes every member older than age.
	BulkDeleteOlderThan(ctx context.Context, age int) (int64, error)
}

type repository struct {
	db     *gorm.DB
	f      *query.Factory
	logger *zap.SugaredLogger
}

// New creates a new member repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, f: query.NewFactory(db), logger: logger}
}

// Save inserts or updates m. Associations are not cascaded; the team must
// already be stored.
func (r *repository) Save(ctx context.Context, m *entity.Member) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(m).Error
	if err != nil {
		r.logger.Errorw("failed to save member", "member_id", m.ID, "error", err)
		return err
	}
	r.logger.Debugw("member saved", "member_id", m.ID)
	return nil
}

// FindByID returns the member or nil when it does not exist.
func (r *repository) FindByID(ctx context.Context, id int64) (*entity.Member, error) {
	var m entity.Member
	err := r.db.WithContext(ctx).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if m.TeamID == nil {
		return &m, nil
	}

	var team entity.Team
	if err := r.db.WithContext(ctx).First(&team, *m.TeamID).Error; err != nil {
		r.logger.Errorw("failed to load member team", "member_id", m.ID, "team_id", *m.TeamID, "error", err)
		return nil, err
	}
	m.Team = &team
	return &m, nil
}

func (r *repository) FindAll(ctx context.Context) ([]entity.Member, error) {
	var members []entity.Member
	if err := r.db.WithContext(ctx).Order("member_id ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repository) FindAllTyped(ctx context.Context) ([]entity.Member, error) {
	m := entity.Member_
	return query.SelectFrom(r.f, m.EntityPath).OrderBy(m.ID.Asc()).Fetch(ctx)
}

func (r *repository) FindByUsername(ctx context.Context, username string) ([]entity.Member, error) {
	var members []entity.Member
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("member_id ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repository) FindByUsernameTyped(ctx context.Context, username string) ([]entity.Member, error) {
	m := entity.Member_
	return query.SelectFrom(r.f, m.EntityPath).
		Where(m.Username.Eq(username)).
		OrderBy(m.ID.Asc()).
		Fetch(ctx)
}

func (r *repository) FindAllBy(ctx context.Context, p *query.Predicate, orders ...query.OrderSpecifier) ([]entity.Member, error) {
	m := entity.Member_
	if len(orders) == 0 {
		orders = []query.OrderSpecifier{m.ID.Asc()}
	}
	return query.SelectFrom(r.f, m.EntityPath).Where(p).OrderBy(orders...).Fetch(ctx)
}

func (r *repository) FindMemberDtos(ctx context.Context) ([]model.MemberDto, error) {
	m := entity.Member_
	proj := query.Constructor[model.MemberDto](model.NewMemberDto, m.Username, m.Age)
	return query.Select(r.f, proj).From(m).OrderBy(m.ID.Asc()).Fetch(ctx)
}

func (r *repository) FindUserDtos(ctx context.Context) ([]model.UserDto, error) {
	m := entity.Member_
	proj := query.Fields[model.UserDto](m.Username.As("name"), m.Age)
	return query.Select(r.f, proj).From(m).OrderBy(m.ID.Asc()).Fetch(ctx)
}

// memberTeam is the member LEFT JOIN team query projected into MemberTeamDto.
// The outer join keeps team-less members unless a team filter is applied.
func (r *repository) memberTeam() *query.Query[model.MemberTeamDto] {
	m, t := entity.Member_, entity.Team_
	proj := query.Fields[model.MemberTeamDto](
		m.ID.As("member_id"),
		m.Username,
		m.Age,
		m.TeamID,
		t.Name.As("team_name"),
	)
	return query.Select(r.f, proj).
		From(m).
		LeftJoin(t, m.TeamID.EqExpr(t.ID))
}

func (r *repository) SearchByBuilder(ctx context.Context, cond model.MemberSearchCond) ([]model.MemberTeamDto, error) {
	m, t := entity.Member_, entity.Team_

	builder := query.NewBooleanBuilder()
	if cond.Username != nil {
		builder.And(m.Username.Eq(*cond.Username))
	}
	if cond.TeamName != nil {
		builder.And(t.Name.Eq(*cond.TeamName))
	}
	if cond.AgeGoe != nil {
		builder.And(m.Age.Goe(*cond.AgeGoe))
	}
	if cond.AgeLoe != nil {
		builder.And(m.Age.Loe(*cond.AgeLoe))
	}

	return r.memberTeam().
		Where(builder.Value()).
		OrderBy(m.ID.Asc()).
		Fetch(ctx)
}

func (r *repository) Search(ctx context.Context, cond model.MemberSearchCond) ([]model.MemberTeamDto, error) {
	return r.memberTeam().
		Where(searchPredicates(cond)...).
		OrderBy(entity.Member_.ID.Asc()).
		Fetch(ctx)
}

func (r *repository) SearchPageSimple(ctx context.Context, cond model.MemberSearchCond, p query.Pageable) (*query.Page[model.MemberTeamDto], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return r.memberTeam().
		Where(searchPredicates(cond)...).
		FetchPage(ctx, withDefaultSort(p))
}

func (r *repository) SearchPageComplex(ctx context.Context, cond model.MemberSearchCond, p query.Pageable) (*query.Page[model.MemberTeamDto], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	content, err := r.memberTeam().
		Where(searchPredicates(cond)...).
		Paged(withDefaultSort(p)).
		Fetch(ctx)
	if err != nil {
		return nil, err
	}

	count := r.memberTeam().Where(searchPredicates(cond)...)
	return query.NewPageLazy(content, p, func() (int64, error) {
		r.logger.Debugw("counting member search", "offset", p.Offset, "size", p.Size)
		return count.FetchCount(ctx)
	})
}

func (r *repository) BulkRenameYoungerThan(ctx context.Context, age int, username string) (int64, error) {
	m := entity.Member_
	affected, err := r.f.Update(m).
		Set(m.Username.Set(username)).
		Where(m.Age.Lt(age)).
		Execute(ctx)
	if err != nil {
		return 0, err
	}
	r.logger.Infow("bulk renamed members", "younger_than", age, "affected", affected)
	return affected, nil
}

func (r *repository) BulkAddAge(ctx context.Context, delta int) (int64, error) {
	m := entity.Member_
	affected, err := r.f.Update(m).
		Set(m.Age.SetExpr(m.Age.Add(delta))).
		Execute(ctx)
	if err != nil {
		return 0, err
	}
	r.logger.Infow("bulk added age", "delta", delta, "affected", affected)
	return affected, nil
}

func (r *repository) BulkDeleteOlderThan(ctx context.Context, age int) (int64, error) {
	m := entity.Member_
	affected, err := r.f.Delete(m).Where(m.Age.Gt(age)).Execute(ctx)
	if err != nil {
		return 0, err
	}
	r.logger.Infow("bulk deleted members", "older_than", age, "affected", affected)
	return affected, nil
}

// withDefaultSort orders by member id when p carries no sort, so that paging
// is stable.
func withDefaultSort(p query.Pageable) query.Pageable {
	if len(p.Sort) > 0 {
		return p
	}
	return p.WithSort(entity.Member_.ID.Asc())
}
