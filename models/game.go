package models

import "github.com/uptrace/bun"

// Game is one match: identity, season, and the final score.
type Game struct {
	bun.BaseModel `bun:"table:games,alias:g"`

	GameID     int    `bun:"gameID" json:"gameID"`
	LeagueID   int    `bun:"leagueID" json:"leagueID"`
	Season     int    `bun:"season" json:"season"`
	Date       string `bun:"date" json:"date"`
	HomeTeamID int    `bun:"homeTeamID" json:"homeTeamID"`
	AwayTeamID int    `bun:"awayTeamID" json:"awayTeamID"`
	HomeGoals  int    `bun:"homeGoals" json:"homeGoals"`
	AwayGoals  int    `bun:"awayGoals" json:"awayGoals"`
}
