package models

import "github.com/uptrace/bun"

// Player is a reference row naming a player.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	PlayerID int    `bun:"playerID" json:"playerID"`
	Name     string `bun:"name" json:"name"`
}
