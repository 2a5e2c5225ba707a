package models

import "github.com/uptrace/bun"

// Team is a reference row naming a club.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	TeamID int    `bun:"teamID" json:"teamID"`
	Name   string `bun:"name" json:"name"`
}
