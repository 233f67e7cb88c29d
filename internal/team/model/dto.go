// Package model provides DTOs and errors for the team module.
package model

// CreateTeamRequest is the body of POST /teams.
type CreateTeamRequest struct {
	Name string `json:"name" binding:"required"`
}

// TeamMember is a member listed in a team response.
type TeamMember struct {
	MemberID int64   `json:"member_id"`
	Username *string `json:"username"`
	Age      int     `json:"age"`
}

// TeamResponse is a team with its members.
type TeamResponse struct {
	TeamID  int64        `json:"team_id"`
	Name    string       `json:"name"`
	Members []TeamMember `json:"members"`
}

// TeamSummary is a team with the number of its members.
type TeamSummary struct {
	TeamID      int64  `json:"team_id"`
	Name        string `json:"name"`
	MemberCount int64  `json:"member_count"`
}
