package habit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Domain is one of the six fixed life categories a log can belong to.
type Domain string

const (
	DomainPhysical      Domain = "Physical Health"
	DomainMental        Domain = "Mental Health"
	DomainCareer        Domain = "Career/Education"
	DomainRelationships Domain = "Relationships"
	DomainFinance       Domain = "Finance"
	DomainHobbies       Domain = "Hobbies"
)

// Domains lists every category in display order.
var Domains = []Domain{
	DomainPhysical,
	DomainMental,
	DomainCareer,
	DomainRelationships,
	DomainFinance,
	DomainHobbies,
}

func (d Domain) Valid() bool {
	for _, known := range Domains {
		if d == known {
			return true
		}
	}
	return false
}

// Metric is an optional numeric value. Absence and zero are different
// things: a metric the user never filled in must not score as 0.
type Metric struct {
	Value   float64
	Present bool
}

func MetricOf(v float64) Metric { return Metric{Value: v, Present: true} }

// UnmarshalJSON accepts numbers, numeric strings, empty strings and null.
// Empty string and null both mean "not provided". A non-empty string that
// does not parse as a number is rejected rather than coerced to zero.
func (m *Metric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*m = Metric{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*m = Metric{}
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid metric value %q", s)
		}
		*m = Metric{Value: v, Present: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("invalid metric value: %w", err)
	}
	*m = Metric{Value: v, Present: true}
	return nil
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Present {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// Ptr returns the value for database binding, nil when absent.
func (m Metric) Ptr() *float64 {
	if !m.Present {
		return nil
	}
	v := m.Value
	return &v
}

// FromPtr rebuilds a Metric from a nullable database column.
func FromPtr(p *float64) Metric {
	if p == nil {
		return Metric{}
	}
	return Metric{Value: *p, Present: true}
}

// Metrics carries every metric a submission may include. Which fields are
// relevant depends on the domain; irrelevant fields stay absent.
type Metrics struct {
	SleepHours        Metric `json:"sleepHours"`
	ExerciseMinutes   Metric `json:"exerciseMinutes"`
	FoodQuality       Metric `json:"foodQuality"`
	Mood              Metric `json:"mood"`
	StudyHours        Metric `json:"studyHours"`
	Spending          Metric `json:"spending"`
	LeisureHours      Metric `json:"leisureHours"`
	QualityTime       Metric `json:"qualityTime"`
	SocialCount       Metric `json:"socialCount"`
	ConnectionQuality Metric `json:"connectionQuality"`
}

type Log struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Domain    Domain    `json:"domain"`
	Date      string    `json:"date"` // YYYY-MM-DD, user-local day
	Metrics   Metrics   `json:"metrics"`
	Notes     *string   `json:"notes,omitempty"`
	XPAwarded int       `json:"xpAwarded"`
	CreatedAt time.Time `json:"createdAt"`
}

type SubmitLogRequest struct {
	Domain  Domain  `json:"domain"`
	Date    string  `json:"date,omitempty"` // defaults to today when empty
	Metrics Metrics `json:"metrics"`
	Notes   *string `json:"notes,omitempty"`
}

type SubmitLogResponse struct {
	Log           *Log   `json:"log"`
	XPAwarded     int    `json:"xpAwarded"`
	Points        int    `json:"points"`
	Level         int    `json:"level"`
	Rank          string `json:"rank"`
	CurrentStreak int    `json:"currentStreak"`
	LongestStreak int    `json:"longestStreak"`
}
