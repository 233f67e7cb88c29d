package entity

import "github.com/festy23/memberquery/pkg/query"

// QMember holds the typed paths of the members table under one alias.
type QMember struct {
	query.EntityPath[Member]
	ID       query.NumberExpression[int64]
	Username query.StringExpression
	Age      query.NumberExpression[int]
	TeamID   query.NumberExpression[int64]
}

// NewQMember returns member paths under alias. Use distinct aliases for self
// joins and correlated subqueries.
func NewQMember(alias string) QMember {
	return QMember{
		EntityPath: query.NewEntityPath[Member]("members", alias, "member_id", "username", "age", "team_id"),
		ID:         query.NumberPath[int64](alias, "member_id"),
		Username:   query.StringPath(alias, "username"),
		Age:        query.NumberPath[int](alias, "age"),
		TeamID:     query.NumberPath[int64](alias, "team_id"),
	}
}

// QTeam holds the typed paths of the teams table under one alias.
type QTeam struct {
	query.EntityPath[Team]
	ID   query.NumberExpression[int64]
	Name query.StringExpression
}

// NewQTeam returns team paths under alias.
func NewQTeam(alias string) QTeam {
	return QTeam{
		EntityPath: query.NewEntityPath[Team]("teams", alias, "team_id", "name"),
		ID:         query.NumberPath[int64](alias, "team_id"),
		Name:       query.StringPath(alias, "name"),
	}
}

// Default path instances.
var (
	Member_ = NewQMember("member")
	Team_   = NewQTeam("team")
)
