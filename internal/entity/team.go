package entity

// Team is a row of the teams table. Members is the inverse side of
// Member.Team; teams carry no foreign key column.
type Team struct {
	ID      int64     `gorm:"primaryKey;column:team_id" json:"team_id"`
	Name    string    `gorm:"column:name;type:varchar(255);not null;uniqueIndex" json:"name"`
	Members []*Member `gorm:"foreignKey:TeamID;references:ID;constraint:OnDelete:SET NULL" json:"members,omitempty"`
}

// TableName specifies the table name for GORM.
func (Team) TableName() string {
	return "teams"
}

// NewTeam creates a team without members.
func NewTeam(name string) *Team {
	return &Team{Name: name}
}

func (t *Team) removeMember(m *Member) {
	for i, other := range t.Members {
		if other == m {
			t.Members = append(t.Members[:i], t.Members[i+1:]...)
			return
		}
	}
}
