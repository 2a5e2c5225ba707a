package models

import "github.com/uptrace/bun"

// Appearance is one player-game line: minutes, cards, and attacking output.
type Appearance struct {
	bun.BaseModel `bun:"table:appearances,alias:a"`

	PlayerID   int     `bun:"playerID" json:"playerID"`
	GameID     int     `bun:"gameID" json:"gameID"`
	Goals      int     `bun:"goals" json:"goals"`
	Assists    int     `bun:"assists" json:"assists"`
	XGoals     float64 `bun:"xGoals" json:"xGoals"`
	XAssists   float64 `bun:"xAssists" json:"xAssists"`
	YellowCard int     `bun:"yellowCard" json:"yellowCard"`
	RedCard    int     `bun:"redCard" json:"redCard"`
	Time       int     `bun:"time" json:"time"`
	LeagueID   int     `bun:"leagueID" json:"leagueID"`
}
