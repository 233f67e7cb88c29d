// Package query is a type-safe SQL query builder on top of gorm.
//
// Queries are composed from typed paths (see EntityPath, NumberPath,
// StringPath), rendered through gorm's clause package and executed with
// gorm's Raw, so they share the connection, context, logging and dialect of
// the *gorm.DB they were created from.
package query

import (
	"context"
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Factory creates queries bound to a database handle.
type Factory struct {
	db *gorm.DB
}

func NewFactory(db *gorm.DB) *Factory {
	return &Factory{db: db}
}

// DB returns the underlying handle.
func (f *Factory) DB() *gorm.DB {
	return f.db
}

type joinKind string

const (
	innerJoin joinKind = "INNER JOIN"
	leftJoin  joinKind = "LEFT JOIN"
	rightJoin joinKind = "RIGHT JOIN"
)

type join struct {
	kind joinKind
	rel  clause.Table
	on   *Predicate
}

type selectSpec struct {
	from     []clause.Table
	joins    []join
	where    []*Predicate
	groupBy  []Selection
	having   []*Predicate
	orderBy  []OrderSpecifier
	offset   int64
	limit    int
	distinct bool
	errs     []error
}

func (s selectSpec) clone() selectSpec {
	out := s
	out.from = append([]clause.Table(nil), s.from...)
	out.joins = append([]join(nil), s.joins...)
	out.where = append([]*Predicate(nil), s.where...)
	out.groupBy = append([]Selection(nil), s.groupBy...)
	out.having = append([]*Predicate(nil), s.having...)
	out.orderBy = append([]OrderSpecifier(nil), s.orderBy...)
	out.errs = append([]error(nil), s.errs...)
	return out
}

func (s *selectSpec) addFrom(rels []Relation) {
	for _, r := range rels {
		s.from = append(s.from, r.relation())
	}
}

func (s *selectSpec) addJoin(kind joinKind, rel Relation, on *Predicate) {
	s.joins = append(s.joins, join{kind: kind, rel: rel.relation(), on: on})
}

func (s *selectSpec) addOn(ps []*Predicate) {
	if len(s.joins) == 0 {
		s.errs = append(s.errs, fmt.Errorf("query: On called without a join"))
		return
	}
	last := &s.joins[len(s.joins)-1]
	last.on = last.on.And(AllOf(ps...))
}

func appendPredicates(dst []*Predicate, ps []*Predicate) []*Predicate {
	for _, p := range ps {
		if p != nil {
			dst = append(dst, p)
		}
	}
	return dst
}

func (s *selectSpec) build(b *sqlBuilder, sels []Selection) {
	b.WriteString("SELECT ")
	if s.distinct {
		b.WriteString("DISTINCT ")
	}
	for i, sel := range sels {
		if i > 0 {
			b.WriteString(", ")
		}
		sel.Build(b)
		b.WriteString(" AS ")
		label := sel.Label()
		if label == "" {
			label = fmt.Sprintf("col_%d", i+1)
		}
		b.quote(label)
	}
	s.buildFrom(b)
	if len(s.groupBy) > 0 {
		b.WriteString(" GROUP BY ")
		for i, g := range s.groupBy {
			if i > 0 {
				b.WriteString(", ")
			}
			g.Build(b)
		}
	}
	if len(s.having) > 0 {
		b.WriteString(" HAVING ")
		writeConjunction(b, s.having)
	}
	if len(s.orderBy) > 0 {
		b.WriteString(" ORDER BY ")
		for i, o := range s.orderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			o.Build(b)
		}
	}
	if s.limit > 0 {
		b.WriteString(" LIMIT ")
		b.writeInt(int64(s.limit))
	}
	if s.offset > 0 {
		if s.limit <= 0 && b.dialector.Name() == "sqlite" {
			b.WriteString(" LIMIT -1")
		}
		b.WriteString(" OFFSET ")
		b.writeInt(s.offset)
	}
}

func (s *selectSpec) buildFrom(b *sqlBuilder) {
	if len(s.from) == 0 {
		_ = b.AddError(ErrMissingFrom)
		return
	}
	b.WriteString(" FROM ")
	for i, t := range s.from {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteQuoted(t)
	}
	for _, j := range s.joins {
		b.WriteByte(' ')
		b.WriteString(string(j.kind))
		b.WriteByte(' ')
		b.WriteQuoted(j.rel)
		b.WriteString(" ON ")
		if j.on == nil {
			b.WriteString("1 = 1")
		} else {
			j.on.Build(b)
		}
	}
	if len(s.where) > 0 {
		b.WriteString(" WHERE ")
		writeConjunction(b, s.where)
	}
}

func writeConjunction(b *sqlBuilder, ps []*Predicate) {
	for i, p := range ps {
		if i > 0 {
			b.WriteString(" AND ")
		}
		p.Build(b)
	}
}

// buildCount renders a COUNT over the same rows, ignoring order and paging.
// DISTINCT and grouped queries are counted through a derived table.
func (s *selectSpec) buildCount(b *sqlBuilder, sels []Selection) {
	if s.distinct || len(s.groupBy) > 0 {
		inner := s.clone()
		inner.orderBy, inner.limit, inner.offset = nil, 0, 0
		b.WriteString("SELECT COUNT(*) FROM (")
		inner.build(b, sels)
		b.WriteString(") AS ")
		b.quote("cnt")
		return
	}
	b.WriteString("SELECT COUNT(*)")
	s.buildFrom(b)
}

// Query is a SELECT producing values of T. Builder methods mutate and return
// the receiver; use Clone to branch.
type Query[T any] struct {
	db   *gorm.DB
	proj Projection[T]
	spec selectSpec
}

// Select starts a query with the given projection; add relations with From.
func Select[T any](f *Factory, p Projection[T]) *Query[T] {
	return &Query[T]{db: f.db, proj: p}
}

// SelectValue starts a query projecting a single expression.
func SelectValue[T any](f *Factory, e Expression[T]) *Query[T] {
	return Select(f, Value(e))
}

// SelectFrom selects whole entities from their own relation.
func SelectFrom[T any](f *Factory, e EntityPath[T]) *Query[T] {
	return Select(f, e.Projection()).From(e)
}

// SelectTuple projects heterogeneous expressions into Tuples.
func SelectTuple(f *Factory, sels ...Selection) *Query[Tuple] {
	return Select(f, tupleProjection(f.db.Dialector, sels))
}

func (q *Query[T]) Clone() *Query[T] {
	return &Query[T]{db: q.db, proj: q.proj, spec: q.spec.clone()}
}

func (q *Query[T]) From(rels ...Relation) *Query[T] {
	q.spec.addFrom(rels)
	return q
}

// Join adds an inner join; on may be nil and supplied later with On.
func (q *Query[T]) Join(rel Relation, on *Predicate) *Query[T] {
	q.spec.addJoin(innerJoin, rel, on)
	return q
}

func (q *Query[T]) LeftJoin(rel Relation, on *Predicate) *Query[T] {
	q.spec.addJoin(leftJoin, rel, on)
	return q
}

func (q *Query[T]) RightJoin(rel Relation, on *Predicate) *Query[T] {
	q.spec.addJoin(rightJoin, rel, on)
	return q
}

// On adds conditions to the most recent join.
func (q *Query[T]) On(ps ...*Predicate) *Query[T] {
	q.spec.addOn(ps)
	return q
}

// Where adds conditions joined with AND; nil conditions are ignored.
func (q *Query[T]) Where(ps ...*Predicate) *Query[T] {
	q.spec.where = appendPredicates(q.spec.where, ps)
	return q
}

func (q *Query[T]) GroupBy(sels ...Selection) *Query[T] {
	q.spec.groupBy = append(q.spec.groupBy, sels...)
	return q
}

func (q *Query[T]) Having(ps ...*Predicate) *Query[T] {
	q.spec.having = appendPredicates(q.spec.having, ps)
	return q
}

func (q *Query[T]) OrderBy(os ...OrderSpecifier) *Query[T] {
	q.spec.orderBy = append(q.spec.orderBy, os...)
	return q
}

func (q *Query[T]) Offset(n int64) *Query[T] {
	q.spec.offset = n
	return q
}

func (q *Query[T]) Limit(n int) *Query[T] {
	q.spec.limit = n
	return q
}

func (q *Query[T]) Distinct() *Query[T] {
	q.spec.distinct = true
	return q
}

func (q *Query[T]) check() error {
	if q.proj.err != nil {
		return q.proj.err
	}
	if q.proj.fetch == nil {
		return fmt.Errorf("%w: empty projection", ErrProjection)
	}
	if len(q.spec.errs) > 0 {
		return q.spec.errs[0]
	}
	return nil
}

// SQL renders the query with '?' placeholders and its bound values.
func (q *Query[T]) SQL() (string, []interface{}, error) {
	if err := q.check(); err != nil {
		return "", nil, err
	}
	b := newBuilder(q.db.Dialector)
	q.spec.build(b, q.proj.sels)
	if err := b.err(); err != nil {
		return "", nil, err
	}
	return b.String(), b.vars, nil
}

// CountSQL renders the count query used by FetchCount.
func (q *Query[T]) CountSQL() (string, []interface{}, error) {
	if err := q.check(); err != nil {
		return "", nil, err
	}
	b := newBuilder(q.db.Dialector)
	q.spec.buildCount(b, q.proj.sels)
	if err := b.err(); err != nil {
		return "", nil, err
	}
	return b.String(), b.vars, nil
}

// Fetch returns all rows; an empty result is an empty slice.
func (q *Query[T]) Fetch(ctx context.Context) ([]T, error) {
	sql, vars, err := q.SQL()
	if err != nil {
		return nil, err
	}
	return q.proj.fetch(q.db.WithContext(ctx).Raw(sql, vars...))
}

// FetchOne returns the single matching row, nil when there is none and
// ErrNonUniqueResult when there are several.
func (q *Query[T]) FetchOne(ctx context.Context) (*T, error) {
	c := q.Clone()
	if c.spec.limit == 0 || c.spec.limit > 2 {
		c.spec.limit = 2
	}
	rows, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return &rows[0], nil
	default:
		return nil, ErrNonUniqueResult
	}
}

// FetchFirst returns the first row or nil.
func (q *Query[T]) FetchFirst(ctx context.Context) (*T, error) {
	rows, err := q.Clone().Limit(1).Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// FetchCount counts the rows the query would return without paging.
func (q *Query[T]) FetchCount(ctx context.Context) (int64, error) {
	sql, vars, err := q.CountSQL()
	if err != nil {
		return 0, err
	}
	var total int64
	if err := q.db.WithContext(ctx).Raw(sql, vars...).Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Results is a window of rows together with the unpaged total.
type Results[T any] struct {
	Items  []T
	Total  int64
	Offset int64
	Limit  int
}

// FetchResults runs the count query and, when it is non-zero, the content query.
func (q *Query[T]) FetchResults(ctx context.Context) (*Results[T], error) {
	total, err := q.FetchCount(ctx)
	if err != nil {
		return nil, err
	}
	res := &Results[T]{Items: []T{}, Total: total, Offset: q.spec.offset, Limit: q.spec.limit}
	if total == 0 {
		return res, nil
	}
	items, err := q.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	res.Items = items
	return res, nil
}

// Paged applies the window and sort of p.
func (q *Query[T]) Paged(p Pageable) *Query[T] {
	return q.OrderBy(p.Sort...).Offset(p.Offset).Limit(p.Size)
}

// FetchPage returns one page with an eagerly counted total.
func (q *Query[T]) FetchPage(ctx context.Context, p Pageable) (*Page[T], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	res, err := q.Clone().Paged(p).FetchResults(ctx)
	if err != nil {
		return nil, err
	}
	return NewPage(res.Items, p, res.Total), nil
}

// SubQuery is a nested SELECT usable as an expression or an EXISTS operand.
type SubQuery[T any] struct {
	sel  Selection
	spec *selectSpec
}

// Sub starts a subquery selecting e.
func Sub[T any](e Expression[T]) *SubQuery[T] {
	return &SubQuery[T]{sel: e, spec: &selectSpec{}}
}

func (s *SubQuery[T]) From(rels ...Relation) *SubQuery[T] {
	s.spec.addFrom(rels)
	return s
}

func (s *SubQuery[T]) Join(rel Relation, on *Predicate) *SubQuery[T] {
	s.spec.addJoin(innerJoin, rel, on)
	return s
}

func (s *SubQuery[T]) Where(ps ...*Predicate) *SubQuery[T] {
	s.spec.where = appendPredicates(s.spec.where, ps)
	return s
}

func (s *SubQuery[T]) GroupBy(sels ...Selection) *SubQuery[T] {
	s.spec.groupBy = append(s.spec.groupBy, sels...)
	return s
}

func (s *SubQuery[T]) Having(ps ...*Predicate) *SubQuery[T] {
	s.spec.having = appendPredicates(s.spec.having, ps)
	return s
}

func (s *SubQuery[T]) OrderBy(os ...OrderSpecifier) *SubQuery[T] {
	s.spec.orderBy = append(s.spec.orderBy, os...)
	return s
}

func (s *SubQuery[T]) Limit(n int) *SubQuery[T] {
	s.spec.limit = n
	return s
}

func (s *SubQuery[T]) Build(b clause.Builder) {
	sb, ok := builderOf(b)
	if !ok {
		return
	}
	for _, err := range s.spec.errs {
		_ = sb.AddError(err)
	}
	sb.WriteByte('(')
	s.spec.build(sb, []Selection{s.sel})
	sb.WriteByte(')')
}

func (s *SubQuery[T]) Label() string { return "" }

func (s *SubQuery[T]) scanType() reflect.Type { return scanTypeOf[T]() }

func (s *SubQuery[T]) path() *clause.Column { return nil }

func (s *SubQuery[T]) typed(T) {}

// As labels the subquery when used as a selected column.
func (s *SubQuery[T]) As(alias string) SimpleExpression[T] {
	return newSimple[T](s, alias)
}
