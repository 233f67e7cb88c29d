// Package entity provides the persistent Member and Team entities and their
// typed query paths.
package entity

import "gorm.io/gorm"

// Member is a row of the members table. Username is nullable.
//
// Team is not a gorm association: the teams key column is team_id, which gorm
// would match against TeamID and read as a has-one from members. Repositories
// load it explicitly.
type Member struct {
	ID       int64   `gorm:"primaryKey;column:member_id" json:"member_id"`
	Username *string `gorm:"column:username;type:varchar(255)" json:"username"`
	Age      int     `gorm:"column:age;not null" json:"age"`
	TeamID   *int64  `gorm:"column:team_id;index" json:"team_id"`
	Team     *Team   `gorm:"-" json:"-"`
}

// TableName specifies the table name for GORM.
func (Member) TableName() string {
	return "members"
}

// BeforeSave copies the id of an attached team into TeamID so that members
// moved to a team created after ChangeTeam are stored with the right key.
func (m *Member) BeforeSave(tx *gorm.DB) error {
	if m.Team != nil && m.Team.ID != 0 {
		id := m.Team.ID
		m.TeamID = &id
	}
	return nil
}

// NewMember creates a member in team; team may be nil.
func NewMember(username string, age int, team *Team) *Member {
	m := &Member{Username: &username, Age: age}
	if team != nil {
		m.ChangeTeam(team)
	}
	return m
}

// ChangeTeam moves m to team and keeps team.Members in sync. The member is
// removed from the previous team's loaded member list.
func (m *Member) ChangeTeam(team *Team) {
	if m.Team != nil && m.Team != team {
		m.Team.removeMember(m)
	}
	m.Team = team
	if team == nil {
		m.TeamID = nil
		return
	}
	if team.ID != 0 {
		id := team.ID
		m.TeamID = &id
	}
	team.Members = append(team.Members, m)
}

// Name returns the username or "" for anonymous members.
func (m *Member) Name() string {
	if m.Username == nil {
		return ""
	}
	return *m.Username
}
