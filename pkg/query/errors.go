package query

import "errors"

var (
	// ErrProjection reports a projection that cannot map the selected columns.
	ErrProjection = errors.New("query: invalid projection")
	// ErrNonUniqueResult is returned by FetchOne when more than one row matches.
	ErrNonUniqueResult = errors.New("query: non unique result")
	ErrInvalidPageable = errors.New("query: invalid page request")
	ErrMissingFrom     = errors.New("query: no relation in FROM")
	// ErrNotAPath is returned when an update assigns to something other than a column.
	ErrNotAPath    = errors.New("query: expression is not a column path")
	ErrEmptyUpdate = errors.New("query: update without assignments")
)
