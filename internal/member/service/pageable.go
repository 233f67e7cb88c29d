package service

import (
	"fmt"
	"strings"

	"github.com/festy23/memberquery/internal/entity"
	"github.com/festy23/memberquery/internal/member/model"
	"github.com/festy23/memberquery/pkg/query"
)

// sortable maps sort properties to the expressions they order by.
var sortable = map[string]func(desc bool) query.OrderSpecifier{
	"id":       orderOf(entity.Member_.ID.Asc(), entity.Member_.ID.Desc()),
	"username": orderOf(entity.Member_.Username.Asc(), entity.Member_.Username.Desc()),
	"age":      orderOf(entity.Member_.Age.Asc(), entity.Member_.Age.Desc()),
	"teamName": orderOf(entity.Team_.Name.Asc().NullsLast(), entity.Team_.Name.Desc().NullsLast()),
}

func orderOf(asc, desc query.OrderSpecifier) func(bool) query.OrderSpecifier {
	return func(d bool) query.OrderSpecifier {
		if d {
			return desc
		}
		return asc
	}
}

// toPageable converts paging query parameters. Sort is a list of
// "property[,asc|desc]" entries separated by ';'.
func toPageable(req model.PageRequest) (query.Pageable, error) {
	size := req.Size
	if size == 0 {
		size = model.DefaultPageSize
	}

	var p query.Pageable
	switch {
	case req.Offset != nil:
		p = query.OffsetOf(*req.Offset, size)
	case req.Page != nil:
		p = query.PageOf(*req.Page, size)
	default:
		p = query.PageOf(0, size)
	}

	if req.Sort != "" {
		for _, entry := range strings.Split(req.Sort, ";") {
			parts := strings.Split(strings.TrimSpace(entry), ",")
			order, ok := sortable[parts[0]]
			if !ok || len(parts) > 2 {
				return query.Pageable{}, fmt.Errorf("%w: %q", model.ErrInvalidSort, entry)
			}
			desc := false
			if len(parts) == 2 {
				switch strings.ToLower(parts[1]) {
				case "asc":
				case "desc":
					desc = true
				default:
					return query.Pageable{}, fmt.Errorf("%w: %q", model.ErrInvalidSort, entry)
				}
			}
			p = p.WithSort(order(desc))
		}
	}

	return p, p.Validate()
}
