package query

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Relation is anything that can appear in FROM or JOIN.
type Relation interface {
	relation() clause.Table
}

// EntityPath is the typed handle of a mapped table under an alias. Generated
// style query types embed it and add one path per column.
type EntityPath[T any] struct {
	table   string
	alias   string
	columns []string
}

// NewEntityPath describes table under alias; columns are the ones loaded when
// the entity itself is selected.
func NewEntityPath[T any](table, alias string, columns ...string) EntityPath[T] {
	return EntityPath[T]{table: table, alias: alias, columns: columns}
}

func (e EntityPath[T]) relation() clause.Table {
	return clause.Table{Name: e.table, Alias: e.alias}
}

func (e EntityPath[T]) Table() string { return e.table }

func (e EntityPath[T]) Alias() string { return e.alias }

// Projection selects every mapped column and loads rows into T through gorm's
// schema mapping.
func (e EntityPath[T]) Projection() Projection[T] {
	sels := make([]Selection, len(e.columns))
	for i, c := range e.columns {
		sels[i] = Path[interface{}](e.alias, c)
	}
	return Projection[T]{
		sels: sels,
		fetch: func(tx *gorm.DB) ([]T, error) {
			var out []T
			if err := tx.Scan(&out).Error; err != nil {
				return nil, err
			}
			if out == nil {
				out = []T{}
			}
			return out, nil
		},
	}
}
