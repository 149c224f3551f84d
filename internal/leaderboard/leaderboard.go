package leaderboard

import "github.com/google/uuid"

type Entry struct {
	UserID        uuid.UUID `json:"userId"`
	Name          string    `json:"name"`
	Points        int       `json:"points"`
	Level         int       `json:"level"`
	Rank          string    `json:"rank"`
	CurrentStreak int       `json:"currentStreak"`
	Position      int       `json:"position"`
}

type Leaderboard struct {
	Entries      []*Entry `json:"entries"`
	UserPosition *Entry   `json:"userPosition"`
	TotalUsers   int      `json:"totalUsers"`
}
