package model

// MemberSearchCond holds optional filters; a nil field does not constrain the search.
type MemberSearchCond struct {
	Username *string `form:"username" json:"username"`
	TeamName *string `form:"teamName" json:"team_name"`
	AgeGoe   *int    `form:"ageGoe" json:"age_goe" binding:"omitempty,gte=0"`
	AgeLoe   *int    `form:"ageLoe" json:"age_loe" binding:"omitempty,gte=0"`
}

// IsEmpty reports whether no filter is set, which makes the search a full scan.
func (c MemberSearchCond) IsEmpty() bool {
	return c.Username == nil && c.TeamName == nil && c.AgeGoe == nil && c.AgeLoe == nil
}

// PageRequest is bound from the paging query parameters. Offset takes
// precedence over Page when both are given.
type PageRequest struct {
	Page   *int   `form:"page" binding:"omitempty,gte=0"`
	Offset *int64 `form:"offset" binding:"omitempty,gte=0"`
	Size   int    `form:"size" binding:"omitempty,gte=1,lte=1000"`
	Sort   string `form:"sort"`
}

// DefaultPageSize is used when no size is requested.
const DefaultPageSize = 20
