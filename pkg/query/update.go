package query

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Assignment is one SET item of an UPDATE.
type Assignment struct {
	col   *clause.Column
	value interface{}
}

func newAssignment(col *clause.Column, value interface{}) Assignment {
	return Assignment{col: col, value: value}
}

// UpdateClause is a bulk UPDATE. It writes straight to the table: structs
// loaded earlier are not refreshed and must be read again.
type UpdateClause struct {
	db    *gorm.DB
	rel   clause.Table
	sets  []Assignment
	where []*Predicate
}

func (f *Factory) Update(rel Relation) *UpdateClause {
	return &UpdateClause{db: f.db, rel: rel.relation()}
}

func (u *UpdateClause) Set(as ...Assignment) *UpdateClause {
	u.sets = append(u.sets, as...)
	return u
}

// Where restricts the rows updated; without it every row is updated.
func (u *UpdateClause) Where(ps ...*Predicate) *UpdateClause {
	u.where = appendPredicates(u.where, ps)
	return u
}

func (u *UpdateClause) SQL() (string, []interface{}, error) {
	if len(u.sets) == 0 {
		return "", nil, ErrEmptyUpdate
	}
	b := newBuilder(u.db.Dialector)
	b.bare = u.rel.Alias
	b.WriteString("UPDATE ")
	b.quote(u.rel.Name)
	b.WriteString(" SET ")
	for i, a := range u.sets {
		if a.col == nil {
			return "", nil, ErrNotAPath
		}
		if a.col.Table != u.rel.Alias {
			return "", nil, fmt.Errorf("%w: %s.%s does not belong to %s", ErrNotAPath, a.col.Table, a.col.Name, u.rel.Alias)
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.quote(a.col.Name)
		b.WriteString(" = ")
		b.AddVar(b, a.value)
	}
	if len(u.where) > 0 {
		b.WriteString(" WHERE ")
		writeConjunction(b, u.where)
	}
	if err := b.err(); err != nil {
		return "", nil, err
	}
	return b.String(), b.vars, nil
}

// Execute runs the update and returns the number of affected rows.
func (u *UpdateClause) Execute(ctx context.Context) (int64, error) {
	sql, vars, err := u.SQL()
	if err != nil {
		return 0, err
	}
	res := u.db.WithContext(ctx).Exec(sql, vars...)
	return res.RowsAffected, res.Error
}

// DeleteClause is a bulk DELETE with the same staleness caveat as UpdateClause.
type DeleteClause struct {
	db    *gorm.DB
	rel   clause.Table
	where []*Predicate
}

func (f *Factory) Delete(rel Relation) *DeleteClause {
	return &DeleteClause{db: f.db, rel: rel.relation()}
}

func (d *DeleteClause) Where(ps ...*Predicate) *DeleteClause {
	d.where = appendPredicates(d.where, ps)
	return d
}

func (d *DeleteClause) SQL() (string, []interface{}, error) {
	b := newBuilder(d.db.Dialector)
	b.bare = d.rel.Alias
	b.WriteString("DELETE FROM ")
	b.quote(d.rel.Name)
	if len(d.where) > 0 {
		b.WriteString(" WHERE ")
		writeConjunction(b, d.where)
	}
	if err := b.err(); err != nil {
		return "", nil, err
	}
	return b.String(), b.vars, nil
}

func (d *DeleteClause) Execute(ctx context.Context) (int64, error) {
	sql, vars, err := d.SQL()
	if err != nil {
		return 0, err
	}
	res := d.db.WithContext(ctx).Exec(sql, vars...)
	return res.RowsAffected, res.Error
}
