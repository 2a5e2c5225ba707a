package models

import "github.com/uptrace/bun"

// League is a reference row naming a competition.
type League struct {
	bun.BaseModel `bun:"table:leagues,alias:l"`

	LeagueID int    `bun:"leagueID" json:"leagueID"`
	Name     string `bun:"name" json:"name"`
}
