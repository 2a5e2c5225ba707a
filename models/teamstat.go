package models

import "github.com/uptrace/bun"

// TeamStat is one team's line for one game; each game has two such rows.
// Result is W, L, or D from that team's point of view.
type TeamStat struct {
	bun.BaseModel `bun:"table:teamstats,alias:ts"`

	GameID        int     `bun:"gameID" json:"gameID"`
	TeamID        int     `bun:"teamID" json:"teamID"`
	Season        int     `bun:"season" json:"season"`
	Date          string  `bun:"date" json:"date"`
	Location      string  `bun:"location" json:"location"`
	Goals         int     `bun:"goals" json:"goals"`
	XGoals        float64 `bun:"xGoals" json:"xGoals"`
	Shots         int     `bun:"shots" json:"shots"`
	ShotsOnTarget int     `bun:"shotsOnTarget" json:"shotsOnTarget"`
	Deep          int     `bun:"deep" json:"deep"`
	PPDA          float64 `bun:"ppda" json:"ppda"`
	Fouls         int     `bun:"fouls" json:"fouls"`
	Corners       int     `bun:"corners" json:"corners"`
	YellowCards   int     `bun:"yellowCards" json:"yellowCards"`
	RedCards      int     `bun:"redCards" json:"redCards"`
	Result        string  `bun:"result" json:"result"`
}
