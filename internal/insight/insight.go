package insight

import (
	"time"

	"github.com/google/uuid"

	"futureYouAPI/internal/habit"
)

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// Projection is the generated analysis snapshot for one domain. It is
// immutable once stored; regenerating creates a new row.
type Projection struct {
	Trend         Trend    `json:"trend"`
	Prediction    string   `json:"prediction"`
	FutureOutcome string   `json:"futureOutcome"`
	Suggestions   []string `json:"suggestions"`
	DataPoints    int      `json:"dataPoints"`
	LastUpdated   string   `json:"lastUpdated"`
	GeneratedBy   string   `json:"generatedBy"`
}

type Simulation struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"userId"`
	Domain      habit.Domain `json:"domain"`
	Timeline    string       `json:"timeline"`
	Projection  Projection   `json:"projection"`
	GeneratedAt time.Time    `json:"generatedAt"`
}

type GenerateRequest struct {
	Domain habit.Domain `json:"domain"`
}
