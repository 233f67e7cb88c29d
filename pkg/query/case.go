package query

import (
	"gorm.io/gorm/clause"
)

type caseWhen struct {
	cond interface{}
	then interface{}
}

type caseNode struct {
	operand   interface{}
	whens     []caseWhen
	otherwise interface{}
	hasElse   bool
}

func (c caseNode) Build(b clause.Builder) {
	b.WriteString("CASE")
	if c.operand != nil {
		b.WriteByte(' ')
		b.AddVar(b, c.operand)
	}
	for _, w := range c.whens {
		b.WriteString(" WHEN ")
		b.AddVar(b, w.cond)
		b.WriteString(" THEN ")
		b.AddVar(b, w.then)
	}
	if c.hasElse {
		b.WriteString(" ELSE ")
		b.AddVar(b, c.otherwise)
	}
	b.WriteString(" END")
}

// CaseBuilder builds a searched CASE expression producing R.
type CaseBuilder[R any] struct {
	node caseNode
}

func Case[R any]() *CaseBuilder[R] {
	return &CaseBuilder[R]{}
}

// CaseWhen is a pending WHEN branch waiting for its result.
type CaseWhen[R any] struct {
	c    *CaseBuilder[R]
	cond interface{}
}

func (c *CaseBuilder[R]) When(p *Predicate) *CaseWhen[R] {
	return &CaseWhen[R]{c: c, cond: p}
}

func (w *CaseWhen[R]) Then(v R) *CaseBuilder[R] {
	w.c.node.whens = append(w.c.node.whens, caseWhen{cond: w.cond, then: v})
	return w.c
}

func (w *CaseWhen[R]) ThenExpr(e Expression[R]) *CaseBuilder[R] {
	w.c.node.whens = append(w.c.node.whens, caseWhen{cond: w.cond, then: e})
	return w.c
}

// Otherwise closes the CASE with an ELSE value.
func (c *CaseBuilder[R]) Otherwise(v R) SimpleExpression[R] {
	c.node.otherwise, c.node.hasElse = v, true
	return newSimple[R](c.node, "")
}

func (c *CaseBuilder[R]) OtherwiseExpr(e Expression[R]) SimpleExpression[R] {
	c.node.otherwise, c.node.hasElse = e, true
	return newSimple[R](c.node, "")
}

// End closes the CASE without ELSE; unmatched rows yield NULL.
func (c *CaseBuilder[R]) End() SimpleExpression[R] {
	return newSimple[R](c.node, "")
}

// SimpleCaseBuilder builds CASE <operand> WHEN <value> ... producing R.
type SimpleCaseBuilder[V, R any] struct {
	node caseNode
}

// CaseOf starts a CASE comparing e against literal values.
func CaseOf[V, R any](e Expression[V]) *SimpleCaseBuilder[V, R] {
	return &SimpleCaseBuilder[V, R]{node: caseNode{operand: e}}
}

type SimpleCaseWhen[V, R any] struct {
	c     *SimpleCaseBuilder[V, R]
	value V
}

func (c *SimpleCaseBuilder[V, R]) When(v V) *SimpleCaseWhen[V, R] {
	return &SimpleCaseWhen[V, R]{c: c, value: v}
}

func (w *SimpleCaseWhen[V, R]) Then(r R) *SimpleCaseBuilder[V, R] {
	w.c.node.whens = append(w.c.node.whens, caseWhen{cond: w.value, then: r})
	return w.c
}

func (c *SimpleCaseBuilder[V, R]) Otherwise(r R) SimpleExpression[R] {
	c.node.otherwise, c.node.hasElse = r, true
	return newSimple[R](c.node, "")
}

func (c *SimpleCaseBuilder[V, R]) End() SimpleExpression[R] {
	return newSimple[R](c.node, "")
}
