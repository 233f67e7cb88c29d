package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sqlBuilder renders clause expressions into SQL with '?' placeholders.
// Identifiers are quoted by the gorm dialector; placeholders are rebound to the
// dialect's bind variables when the SQL is handed to gorm's Raw/Exec.
type sqlBuilder struct {
	strings.Builder
	dialector gorm.Dialector
	vars      []interface{}
	errs      []error
	// bare is the alias whose columns are written without qualifier (UPDATE/DELETE targets).
	bare string
}

var _ clause.Builder = (*sqlBuilder)(nil)

func newBuilder(dialector gorm.Dialector) *sqlBuilder {
	return &sqlBuilder{dialector: dialector}
}

func (b *sqlBuilder) quote(name string) {
	b.dialector.QuoteTo(b, name)
}

// WriteQuoted writes a quoted table, column or nested expression.
func (b *sqlBuilder) WriteQuoted(field interface{}) {
	switch v := field.(type) {
	case clause.Table:
		b.quote(v.Name)
		if v.Alias != "" {
			b.WriteString(" AS ")
			b.quote(v.Alias)
		}
	case clause.Column:
		b.writeColumn(v)
	case clause.Expression:
		v.Build(b)
	case string:
		b.quote(v)
	default:
		_ = b.AddError(fmt.Errorf("query: cannot quote %T", field))
	}
}

func (b *sqlBuilder) writeColumn(c clause.Column) {
	if c.Raw {
		b.WriteString(c.Name)
		return
	}
	if c.Table != "" && c.Table != b.bare {
		b.quote(c.Table)
		b.WriteByte('.')
	}
	if c.Name == "*" {
		b.WriteByte('*')
		return
	}
	b.quote(c.Name)
}

// AddVar writes a placeholder for plain values and renders nested expressions inline.
func (b *sqlBuilder) AddVar(w clause.Writer, vars ...interface{}) {
	for idx, v := range vars {
		if idx > 0 {
			_ = w.WriteByte(',')
		}
		switch v := v.(type) {
		case clause.Column, clause.Table:
			b.WriteQuoted(v)
		case clause.Expression:
			v.Build(b)
		default:
			_ = w.WriteByte('?')
			b.vars = append(b.vars, v)
		}
	}
}

// AddError records a rendering error.
func (b *sqlBuilder) AddError(err error) error {
	if err != nil {
		b.errs = append(b.errs, err)
	}
	return err
}

func (b *sqlBuilder) err() error {
	return errors.Join(b.errs...)
}

func (b *sqlBuilder) writeInt(n int64) {
	b.WriteString(strconv.FormatInt(n, 10))
}

// builderOf unwraps the concrete builder for nodes that need dialect access.
func builderOf(b clause.Builder) (*sqlBuilder, bool) {
	sb, ok := b.(*sqlBuilder)
	if !ok {
		_ = b.AddError(fmt.Errorf("query: unsupported builder %T", b))
	}
	return sb, ok
}

// renderKey renders an expression on its own; used to identify tuple members.
func renderKey(dialector gorm.Dialector, e clause.Expression) string {
	b := newBuilder(dialector)
	e.Build(b)
	if len(b.vars) == 0 {
		return b.String()
	}
	return fmt.Sprintf("%s %v", b.String(), b.vars)
}
