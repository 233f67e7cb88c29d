//go:build unit

package query

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testTeam struct {
	ID   int64  `gorm:"primaryKey;column:team_id"`
	Name string `gorm:"column:name;not null"`
}

func (testTeam) TableName() string {
	return "teams"
}

type testMember struct {
	ID       int64   `gorm:"primaryKey;column:member_id"`
	Username *string `gorm:"column:username"`
	Age      int     `gorm:"column:age;not null"`
	TeamID   *int64  `gorm:"column:team_id"`
}

func (testMember) TableName() string {
	return "members"
}

type qTeam struct {
	EntityPath[testTeam]
	ID   NumberExpression[int64]
	Name StringExpression
}

func newQTeam(alias string) qTeam {
	return qTeam{
		EntityPath: NewEntityPath[testTeam]("teams", alias, "team_id", "name"),
		ID:         NumberPath[int64](alias, "team_id"),
		Name:       StringPath(alias, "name"),
	}
}

type qMember struct {
	EntityPath[testMember]
	ID       NumberExpression[int64]
	Username StringExpression
	Age      NumberExpression[int]
	TeamID   NumberExpression[int64]
}

func newQMember(alias string) qMember {
	return qMember{
		EntityPath: NewEntityPath[testMember]("members", alias, "member_id", "username", "age", "team_id"),
		ID:         NumberPath[int64](alias, "member_id"),
		Username:   StringPath(alias, "username"),
		Age:        NumberPath[int](alias, "age"),
		TeamID:     NumberPath[int64](alias, "team_id"),
	}
}

var (
	member = newQMember("m")
	team   = newQTeam("t")
)

func strPtr(s string) *string {
	return &s
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&testTeam{}, &testMember{})
	require.NoError(t, err)

	return db
}

// seedMembers stores teamA with member1 (10), member2 (20) and teamB with
// member3 (30), member4 (40).
func seedMembers(t *testing.T, db *gorm.DB) (teamA, teamB testTeam) {
	teamA = testTeam{Name: "teamA"}
	teamB = testTeam{Name: "teamB"}
	require.NoError(t, db.Create(&teamA).Error)
	require.NoError(t, db.Create(&teamB).Error)

	members := []testMember{
		{Username: strPtr("member1"), Age: 10, TeamID: &teamA.ID},
		{Username: strPtr("member2"), Age: 20, TeamID: &teamA.ID},
		{Username: strPtr("member3"), Age: 30, TeamID: &teamB.ID},
		{Username: strPtr("member4"), Age: 40, TeamID: &teamB.ID},
	}
	require.NoError(t, db.Create(&members).Error)
	return teamA, teamB
}

func setupFactory(t *testing.T) (*Factory, *gorm.DB) {
	db := setupTestDB(t)
	seedMembers(t, db)
	return NewFactory(db), db
}

func usernames(ms []testMember) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		if m.Username == nil {
			out = append(out, "<nil>")
			continue
		}
		out = append(out, *m.Username)
	}
	return out
}

type memberDto struct {
	Username string
	Age      int
}

func newMemberDto(username string, age int) memberDto {
	return memberDto{Username: username, Age: age}
}

func newCheckedMemberDto(username string, age int) (memberDto, error) {
	if age > 30 {
		return memberDto{}, fmt.Errorf("%s is too old", username)
	}
	return newMemberDto(username, age), nil
}

type userDto struct {
	Name string
	Age  int
}

type memberBean struct {
	username string
	age      int
	calls    int
}

func (b *memberBean) SetUsername(username string) {
	b.username = username
	b.calls++
}

func (b *memberBean) SetAge(age int) {
	b.age = age
	b.calls++
}
