package task

import (
	"time"

	"github.com/google/uuid"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// XPReward maps each difficulty to its fixed reward. The reward is frozen
// on the task row at creation time, so later table changes never retro-pay.
var XPReward = map[Difficulty]int{
	DifficultyEasy:   5,
	DifficultyMedium: 10,
	DifficultyHard:   15,
}

func (d Difficulty) Valid() bool {
	_, ok := XPReward[d]
	return ok
}

type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Difficulty  Difficulty `json:"difficulty"`
	XPRewarded  int        `json:"xpReward"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
}

type CompleteTaskResponse struct {
	Task      *Task  `json:"task"`
	XPAwarded int    `json:"xpAwarded"`
	Points    int    `json:"points"`
	Level     int    `json:"level"`
	Rank      string `json:"rank"`
}
