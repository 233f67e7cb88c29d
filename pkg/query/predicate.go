package query

import (
	"gorm.io/gorm/clause"
)

// Predicate is a boolean SQL condition. A nil *Predicate means "no condition":
// combinators and Where skip it, so optional filters can be returned as nil.
type Predicate struct {
	node clause.Expression
}

func newPredicate(node clause.Expression) *Predicate {
	return &Predicate{node: node}
}

func (p *Predicate) Build(b clause.Builder) {
	if p == nil || p.node == nil {
		return
	}
	p.node.Build(b)
}

// And joins two conditions; a nil side yields the other side unchanged.
func (p *Predicate) And(o *Predicate) *Predicate {
	if p == nil {
		return o
	}
	if o == nil {
		return p
	}
	return newPredicate(junction{op: " AND ", parts: []*Predicate{p, o}})
}

// Or joins two conditions; a nil side yields the other side unchanged.
func (p *Predicate) Or(o *Predicate) *Predicate {
	if p == nil {
		return o
	}
	if o == nil {
		return p
	}
	return newPredicate(junction{op: " OR ", parts: []*Predicate{p, o}})
}

func (p *Predicate) Not() *Predicate {
	if p == nil {
		return nil
	}
	return newPredicate(fn("NOT (?)", p))
}

type junction struct {
	op    string
	parts []*Predicate
}

func (j junction) Build(b clause.Builder) {
	b.WriteByte('(')
	for i, p := range j.parts {
		if i > 0 {
			b.WriteString(j.op)
		}
		p.Build(b)
	}
	b.WriteByte(')')
}

// AllOf combines the non-nil predicates with AND; nil when none remain.
func AllOf(ps ...*Predicate) *Predicate {
	var out *Predicate
	for _, p := range ps {
		out = out.And(p)
	}
	return out
}

// AnyOf combines the non-nil predicates with OR; nil when none remain.
func AnyOf(ps ...*Predicate) *Predicate {
	var out *Predicate
	for _, p := range ps {
		out = out.Or(p)
	}
	return out
}

// Exists matches when the subquery yields at least one row.
func Exists(sub Selection) *Predicate {
	return newPredicate(fn("EXISTS ?", sub))
}

func NotExists(sub Selection) *Predicate {
	return newPredicate(fn("NOT EXISTS ?", sub))
}

// BooleanBuilder accumulates conditions incrementally.
type BooleanBuilder struct {
	value *Predicate
}

func NewBooleanBuilder(initial ...*Predicate) *BooleanBuilder {
	b := &BooleanBuilder{}
	for _, p := range initial {
		b.And(p)
	}
	return b
}

func (b *BooleanBuilder) And(p *Predicate) *BooleanBuilder {
	b.value = b.value.And(p)
	return b
}

func (b *BooleanBuilder) Or(p *Predicate) *BooleanBuilder {
	b.value = b.value.Or(p)
	return b
}

func (b *BooleanBuilder) AndNot(p *Predicate) *BooleanBuilder {
	return b.And(p.Not())
}

func (b *BooleanBuilder) HasValue() bool {
	return b.value != nil
}

// Value returns the accumulated predicate, nil when nothing was added.
func (b *BooleanBuilder) Value() *Predicate {
	return b.value
}

// OrderSpecifier is one ORDER BY item.
type OrderSpecifier struct {
	target clause.Expression
	desc   bool
	nulls  int
}

const (
	nullsDefault = iota
	nullsFirst
	nullsLast
)

func (o OrderSpecifier) NullsFirst() OrderSpecifier {
	o.nulls = nullsFirst
	return o
}

func (o OrderSpecifier) NullsLast() OrderSpecifier {
	o.nulls = nullsLast
	return o
}

func (o OrderSpecifier) Build(b clause.Builder) {
	o.target.Build(b)
	if o.desc {
		b.WriteString(" DESC")
	} else {
		b.WriteString(" ASC")
	}
	switch o.nulls {
	case nullsFirst:
		b.WriteString(" NULLS FIRST")
	case nullsLast:
		b.WriteString(" NULLS LAST")
	}
}
