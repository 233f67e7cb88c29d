package query

import (
	"cmp"
	"reflect"

	"gorm.io/gorm/clause"
)

// Selection is anything that can appear in a SELECT list.
type Selection interface {
	clause.Expression
	// Label is the result column name used for field and setter mapping.
	Label() string
	scanType() reflect.Type
	path() *clause.Column
}

// Expression is a Selection producing values of type T.
type Expression[T any] interface {
	Selection
	typed(T)
}

// Number lists the Go types usable with arithmetic expressions.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

type expression struct {
	node  clause.Expression
	label string
	col   *clause.Column
}

func (e expression) Build(b clause.Builder) {
	if e.node != nil {
		e.node.Build(b)
	}
}

func (e expression) Label() string { return e.label }

func (e expression) path() *clause.Column { return e.col }

type columnNode clause.Column

func (c columnNode) Build(b clause.Builder) {
	b.WriteQuoted(clause.Column(c))
}

func column(alias, name string) expression {
	col := clause.Column{Table: alias, Name: name}
	return expression{node: columnNode(col), label: name, col: &col}
}

func scanTypeOf[T any]() reflect.Type {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}

func fn(sql string, args ...interface{}) clause.Expression {
	return clause.Expr{SQL: sql, Vars: args}
}

// SimpleExpression supports equality, null checks and aggregate counting.
type SimpleExpression[T any] struct {
	expression
}

func newSimple[T any](node clause.Expression, label string) SimpleExpression[T] {
	return SimpleExpression[T]{expression{node: node, label: label}}
}

func (SimpleExpression[T]) typed(T) {}

func (SimpleExpression[T]) scanType() reflect.Type { return scanTypeOf[T]() }

// As sets the result label of the expression.
func (e SimpleExpression[T]) As(alias string) SimpleExpression[T] {
	e.label = alias
	return e
}

func (e SimpleExpression[T]) Eq(v T) *Predicate {
	return newPredicate(clause.Eq{Column: e, Value: v})
}

func (e SimpleExpression[T]) EqExpr(o Expression[T]) *Predicate {
	return newPredicate(clause.Eq{Column: e, Value: o})
}

func (e SimpleExpression[T]) Ne(v T) *Predicate {
	return newPredicate(clause.Neq{Column: e, Value: v})
}

func (e SimpleExpression[T]) NeExpr(o Expression[T]) *Predicate {
	return newPredicate(clause.Neq{Column: e, Value: o})
}

// In renders an IN list; an empty list matches nothing.
func (e SimpleExpression[T]) In(values ...T) *Predicate {
	vs := make([]interface{}, len(values))
	for i, v := range values {
		vs[i] = v
	}
	if len(vs) == 0 {
		return newPredicate(fn("1 = 0"))
	}
	return newPredicate(clause.IN{Column: e, Values: vs})
}

func (e SimpleExpression[T]) NotIn(values ...T) *Predicate {
	return e.In(values...).Not()
}

// InSub matches rows whose value appears in the result of a subquery.
func (e SimpleExpression[T]) InSub(sub Expression[T]) *Predicate {
	return newPredicate(fn("? IN ?", e, sub))
}

func (e SimpleExpression[T]) IsNull() *Predicate {
	return newPredicate(fn("? IS NULL", e))
}

func (e SimpleExpression[T]) IsNotNull() *Predicate {
	return newPredicate(fn("? IS NOT NULL", e))
}

func (e SimpleExpression[T]) Count() NumberExpression[int64] {
	return newNumber[int64](fn("COUNT(?)", e), "")
}

func (e SimpleExpression[T]) CountDistinct() NumberExpression[int64] {
	return newNumber[int64](fn("COUNT(DISTINCT ?)", e), "")
}

func (e SimpleExpression[T]) Asc() OrderSpecifier  { return OrderSpecifier{target: e} }
func (e SimpleExpression[T]) Desc() OrderSpecifier { return OrderSpecifier{target: e, desc: true} }

// Set assigns a value to the column in an update clause.
func (e SimpleExpression[T]) Set(v T) Assignment {
	return newAssignment(e.col, v)
}

// SetExpr assigns the result of another expression in an update clause.
func (e SimpleExpression[T]) SetExpr(o Expression[T]) Assignment {
	return newAssignment(e.col, o)
}

func (e SimpleExpression[T]) SetNull() Assignment {
	return newAssignment(e.col, nil)
}

// ComparableExpression adds ordering comparisons.
type ComparableExpression[T cmp.Ordered] struct {
	SimpleExpression[T]
}

func (e ComparableExpression[T]) As(alias string) ComparableExpression[T] {
	e.label = alias
	return e
}

func (e ComparableExpression[T]) Gt(v T) *Predicate {
	return newPredicate(clause.Gt{Column: e, Value: v})
}

// Goe is greater-or-equal.
func (e ComparableExpression[T]) Goe(v T) *Predicate {
	return newPredicate(clause.Gte{Column: e, Value: v})
}

func (e ComparableExpression[T]) Lt(v T) *Predicate {
	return newPredicate(clause.Lt{Column: e, Value: v})
}

// Loe is less-or-equal.
func (e ComparableExpression[T]) Loe(v T) *Predicate {
	return newPredicate(clause.Lte{Column: e, Value: v})
}

func (e ComparableExpression[T]) GtExpr(o Expression[T]) *Predicate {
	return newPredicate(clause.Gt{Column: e, Value: o})
}

func (e ComparableExpression[T]) GoeExpr(o Expression[T]) *Predicate {
	return newPredicate(clause.Gte{Column: e, Value: o})
}

func (e ComparableExpression[T]) LtExpr(o Expression[T]) *Predicate {
	return newPredicate(clause.Lt{Column: e, Value: o})
}

func (e ComparableExpression[T]) LoeExpr(o Expression[T]) *Predicate {
	return newPredicate(clause.Lte{Column: e, Value: o})
}

func (e ComparableExpression[T]) Between(lo, hi T) *Predicate {
	return newPredicate(fn("? BETWEEN ? AND ?", e, lo, hi))
}

func (e ComparableExpression[T]) Max() ComparableExpression[T] {
	return ComparableExpression[T]{newSimple[T](fn("MAX(?)", e), "")}
}

func (e ComparableExpression[T]) Min() ComparableExpression[T] {
	return ComparableExpression[T]{newSimple[T](fn("MIN(?)", e), "")}
}

// NumberExpression adds arithmetic and numeric aggregates.
type NumberExpression[T Number] struct {
	ComparableExpression[T]
}

func newNumber[T Number](node clause.Expression, label string) NumberExpression[T] {
	return NumberExpression[T]{ComparableExpression[T]{newSimple[T](node, label)}}
}

// NumberPath is a numeric column of the relation with the given alias.
func NumberPath[T Number](alias, name string) NumberExpression[T] {
	return NumberExpression[T]{ComparableExpression[T]{SimpleExpression[T]{column(alias, name)}}}
}

func (e NumberExpression[T]) As(alias string) NumberExpression[T] {
	e.label = alias
	return e
}

func (e NumberExpression[T]) Add(v T) NumberExpression[T] {
	return newNumber[T](fn("(? + ?)", e, v), "")
}

func (e NumberExpression[T]) AddExpr(o Expression[T]) NumberExpression[T] {
	return newNumber[T](fn("(? + ?)", e, o), "")
}

func (e NumberExpression[T]) Subtract(v T) NumberExpression[T] {
	return newNumber[T](fn("(? - ?)", e, v), "")
}

func (e NumberExpression[T]) Multiply(v T) NumberExpression[T] {
	return newNumber[T](fn("(? * ?)", e, v), "")
}

func (e NumberExpression[T]) Divide(v T) NumberExpression[T] {
	return newNumber[T](fn("(? / ?)", e, v), "")
}

func (e NumberExpression[T]) Negate() NumberExpression[T] {
	return newNumber[T](fn("(- ?)", e), "")
}

func (e NumberExpression[T]) Sum() NumberExpression[T] {
	return newNumber[T](fn("SUM(?)", e), "")
}

func (e NumberExpression[T]) Avg() NumberExpression[float64] {
	return newNumber[float64](fn("AVG(?)", e), "")
}

func (e NumberExpression[T]) Max() NumberExpression[T] {
	return newNumber[T](fn("MAX(?)", e), "")
}

func (e NumberExpression[T]) Min() NumberExpression[T] {
	return newNumber[T](fn("MIN(?)", e), "")
}

// StringValue casts the number to text.
func (e NumberExpression[T]) StringValue() StringExpression {
	return newString(fn("CAST(? AS TEXT)", e), "")
}

// StringExpression adds text functions and pattern matching.
type StringExpression struct {
	ComparableExpression[string]
}

func newString(node clause.Expression, label string) StringExpression {
	return StringExpression{ComparableExpression[string]{newSimple[string](node, label)}}
}

// StringPath is a text column of the relation with the given alias.
func StringPath(alias, name string) StringExpression {
	return StringExpression{ComparableExpression[string]{SimpleExpression[string]{column(alias, name)}}}
}

func (e StringExpression) As(alias string) StringExpression {
	e.label = alias
	return e
}

// Like matches a pattern with SQL wildcards.
func (e StringExpression) Like(pattern string) *Predicate {
	return newPredicate(clause.Like{Column: e, Value: pattern})
}

func (e StringExpression) Contains(s string) *Predicate {
	return e.Like("%" + s + "%")
}

func (e StringExpression) StartsWith(s string) *Predicate {
	return e.Like(s + "%")
}

func (e StringExpression) EndsWith(s string) *Predicate {
	return e.Like("%" + s)
}

func (e StringExpression) EqualsIgnoreCase(s string) *Predicate {
	return newPredicate(fn("LOWER(?) = LOWER(?)", e, s))
}

func (e StringExpression) Lower() StringExpression {
	return newString(fn("LOWER(?)", e), "")
}

func (e StringExpression) Upper() StringExpression {
	return newString(fn("UPPER(?)", e), "")
}

func (e StringExpression) Length() NumberExpression[int] {
	return newNumber[int](fn("LENGTH(?)", e), "")
}

func (e StringExpression) Concat(s string) StringExpression {
	return newString(fn("(? || ?)", e, s), "")
}

func (e StringExpression) ConcatExpr(o Expression[string]) StringExpression {
	return newString(fn("(? || ?)", e, o), "")
}

// Replace substitutes every occurrence of from with to.
func (e StringExpression) Replace(from, to string) StringExpression {
	return newString(fn("REPLACE(?, ?, ?)", e, from, to), "")
}

func (e StringExpression) Max() StringExpression {
	return newString(fn("MAX(?)", e), "")
}

func (e StringExpression) Min() StringExpression {
	return newString(fn("MIN(?)", e), "")
}

// Path is a column of any scannable type, e.g. a boolean or timestamp.
func Path[T any](alias, name string) SimpleExpression[T] {
	return SimpleExpression[T]{column(alias, name)}
}

// ComparablePath is an ordered column that is neither numeric nor text.
func ComparablePath[T cmp.Ordered](alias, name string) ComparableExpression[T] {
	return ComparableExpression[T]{SimpleExpression[T]{column(alias, name)}}
}

// Nullable views an expression as producing *T so NULL results stay distinguishable.
func Nullable[T any](e Expression[T]) SimpleExpression[*T] {
	return SimpleExpression[*T]{expression{node: e, label: e.Label(), col: e.path()}}
}

// Coerce reinterprets a numeric expression as another numeric Go type.
func Coerce[T, U Number](e Expression[U]) NumberExpression[T] {
	out := newNumber[T](e, e.Label())
	out.col = e.path()
	return out
}

// Constant selects a bound literal value.
func Constant[T any](v T) SimpleExpression[T] {
	return newSimple[T](fn("?", v), "")
}

// CountAll is COUNT(*).
func CountAll() NumberExpression[int64] {
	return newNumber[int64](fn("COUNT(*)"), "count")
}

// Template renders raw SQL with '?' placeholders bound to args; args may be expressions.
func Template[T any](sql string, args ...interface{}) SimpleExpression[T] {
	return newSimple[T](fn(sql, args...), "")
}

func StringTemplate(sql string, args ...interface{}) StringExpression {
	return newString(fn(sql, args...), "")
}

func NumberTemplate[T Number](sql string, args ...interface{}) NumberExpression[T] {
	return newNumber[T](fn(sql, args...), "")
}

func BooleanTemplate(sql string, args ...interface{}) *Predicate {
	return newPredicate(fn(sql, args...))
}
