// Package model provides DTOs and search conditions for the member module.
package model

// MemberTeamDto is a search result row: a member with its team, if any.
// Username is nil for anonymous members.
type MemberTeamDto struct {
	MemberID int64   `json:"member_id"`
	Username *string `json:"username"`
	Age      int     `json:"age"`
	TeamID   *int64  `json:"team_id"`
	TeamName *string `json:"team_name"`
}

// NewMemberTeamDto is the constructor used for constructor-based projection.
func NewMemberTeamDto(memberID int64, username *string, age int, teamID *int64, teamName *string) MemberTeamDto {
	return MemberTeamDto{
		MemberID: memberID,
		Username: username,
		Age:      age,
		TeamID:   teamID,
		TeamName: teamName,
	}
}

// Name returns the username or "" for anonymous members.
func (d MemberTeamDto) Name() string {
	if d.Username == nil {
		return ""
	}
	return *d.Username
}

// MemberDto is the minimal username/age projection.
type MemberDto struct {
	Username string `json:"username"`
	Age      int    `json:"age"`
}

// NewMemberDto creates a MemberDto.
func NewMemberDto(username string, age int) MemberDto {
	return MemberDto{Username: username, Age: age}
}

// SetUsername and SetAge let MemberDto be filled by setter projection.
func (d *MemberDto) SetUsername(username string) {
	d.Username = username
}

func (d *MemberDto) SetAge(age int) {
	d.Age = age
}

// UserDto carries the same data as MemberDto under different field names;
// projecting into it needs an alias for username.
type UserDto struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// NewUserDto creates a UserDto.
func NewUserDto(name string, age int) UserDto {
	return UserDto{Name: name, Age: age}
}

// CreateMemberRequest is the body of POST /members.
type CreateMemberRequest struct {
	Username string `json:"username" binding:"required"`
	Age      int    `json:"age" binding:"gte=0"`
	TeamID   *int64 `json:"team_id"`
}

// BulkResult reports how many rows a bulk operation touched.
type BulkResult struct {
	Affected int64 `json:"affected"`
}
