package models

import "github.com/uptrace/bun"

// Shot is one shot event. AssisterID is null when the shot had no assisting
// player; that is real data, not a quality defect.
type Shot struct {
	bun.BaseModel `bun:"table:shots,alias:s"`

	GameID     int     `bun:"gameID" json:"gameID"`
	ShooterID  int     `bun:"shooterID" json:"shooterID"`
	AssisterID *int    `bun:"assisterID" json:"assisterID,omitempty"`
	Minute     int     `bun:"minute" json:"minute"`
	Situation  string  `bun:"situation" json:"situation"`
	LastAction string  `bun:"lastAction" json:"lastAction"`
	ShotType   string  `bun:"shotType" json:"shotType"`
	ShotResult string  `bun:"shotResult" json:"shotResult"`
	XGoal      float64 `bun:"xGoal" json:"xGoal"`
}
