package models

import "time"

// GameStatus is the lifecycle state of a scheduled game.
type GameStatus string

const (
	GameScheduled GameStatus = "scheduled"
	GameCompleted GameStatus = "completed"
	GameCancelled GameStatus = "cancelled"
)

// ScheduledGame is one calendar entry. Created in bulk at season start by
// the schedule engine, flipped to completed with scores when the game is
// simulated, never deleted within a season.
type ScheduledGame struct {
	ID        string     `json:"id"`
	Date      time.Time  `json:"date"`
	HomeTeam  string     `json:"home_team"`
	AwayTeam  string     `json:"away_team"`
	Status    GameStatus `json:"status"`
	HomeScore int        `json:"home_score"`
	AwayScore int        `json:"away_score"`
}
