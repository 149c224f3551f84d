package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"futureYouAPI/internal/habit"
)

func metrics(set func(*habit.Metrics)) habit.Metrics {
	var m habit.Metrics
	set(&m)
	return m
}

func TestComputeXPPhysicalHealth(t *testing.T) {
	tests := []struct {
		name string
		m    habit.Metrics
		want int
	}{
		{"ideal sleep", metrics(func(m *habit.Metrics) { m.SleepHours = habit.MetricOf(8) }), 15},
		{"ok sleep", metrics(func(m *habit.Metrics) { m.SleepHours = habit.MetricOf(6) }), 10},
		{"short sleep", metrics(func(m *habit.Metrics) { m.SleepHours = habit.MetricOf(5) }), 5},
		{"severe sleep deprivation", metrics(func(m *habit.Metrics) { m.SleepHours = habit.MetricOf(2) }), -2},
		{"oversleep past band", metrics(func(m *habit.Metrics) { m.SleepHours = habit.MetricOf(13) }), -2},
		{"full healthy day", metrics(func(m *habit.Metrics) {
			m.SleepHours = habit.MetricOf(8)
			m.ExerciseMinutes = habit.MetricOf(45)
			m.FoodQuality = habit.MetricOf(9)
		}), 45},
		{"token exercise penalized", metrics(func(m *habit.Metrics) { m.ExerciseMinutes = habit.MetricOf(5) }), -2},
		{"zero exercise contributes nothing", metrics(func(m *habit.Metrics) { m.ExerciseMinutes = habit.MetricOf(0) }), 0},
		{"junk food", metrics(func(m *habit.Metrics) { m.FoodQuality = habit.MetricOf(2) }), -2},
		{"food zero outside every band", metrics(func(m *habit.Metrics) { m.FoodQuality = habit.MetricOf(0) }), 0},
		{"nothing provided", habit.Metrics{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeXP(habit.DomainPhysical, tt.m))
		})
	}
}

func TestComputeXPMentalHealth(t *testing.T) {
	assert.Equal(t, 15, ComputeXP(habit.DomainMental, metrics(func(m *habit.Metrics) { m.Mood = habit.MetricOf(10) })))
	assert.Equal(t, 10, ComputeXP(habit.DomainMental, metrics(func(m *habit.Metrics) { m.Mood = habit.MetricOf(6) })))
	assert.Equal(t, 5, ComputeXP(habit.DomainMental, metrics(func(m *habit.Metrics) { m.Mood = habit.MetricOf(4) })))
	assert.Equal(t, -2, ComputeXP(habit.DomainMental, metrics(func(m *habit.Metrics) { m.Mood = habit.MetricOf(1) })))

	// Mood 0 is present but below every band, including the >=1 penalty
	// band, so it contributes nothing.
	assert.Equal(t, 0, ComputeXP(habit.DomainMental, metrics(func(m *habit.Metrics) { m.Mood = habit.MetricOf(0) })))
}

func TestComputeXPCareer(t *testing.T) {
	for _, tc := range []struct {
		hours float64
		want  int
	}{{5, 20}, {3, 15}, {2, 10}, {1, 5}, {0.5, -2}, {0, -2}} {
		got := ComputeXP(habit.DomainCareer, metrics(func(m *habit.Metrics) { m.StudyHours = habit.MetricOf(tc.hours) }))
		assert.Equalf(t, tc.want, got, "studyHours=%v", tc.hours)
	}
}

func TestComputeXPFinance(t *testing.T) {
	for _, tc := range []struct {
		spent float64
		want  int
	}{{0, 20}, {500, 20}, {501, 15}, {1000, 15}, {4000, 10}, {8000, 5}, {8001, -2}} {
		got := ComputeXP(habit.DomainFinance, metrics(func(m *habit.Metrics) { m.Spending = habit.MetricOf(tc.spent) }))
		assert.Equalf(t, tc.want, got, "spending=%v", tc.spent)
	}
}

func TestComputeXPHobbies(t *testing.T) {
	for _, tc := range []struct {
		hours float64
		want  int
	}{{5, 15}, {3, 10}, {1, 5}, {0.5, 0}, {0, 0}} {
		got := ComputeXP(habit.DomainHobbies, metrics(func(m *habit.Metrics) { m.LeisureHours = habit.MetricOf(tc.hours) }))
		assert.Equalf(t, tc.want, got, "leisureHours=%v", tc.hours)
	}
}

func TestComputeXPRelationships(t *testing.T) {
	full := metrics(func(m *habit.Metrics) {
		m.QualityTime = habit.MetricOf(4)
		m.SocialCount = habit.MetricOf(5)
		m.ConnectionQuality = habit.MetricOf(9)
	})
	assert.Equal(t, 45, ComputeXP(habit.DomainRelationships, full))

	// A single present metric is scored alone.
	assert.Equal(t, 2, ComputeXP(habit.DomainRelationships, metrics(func(m *habit.Metrics) { m.SocialCount = habit.MetricOf(1) })))
	assert.Equal(t, -2, ComputeXP(habit.DomainRelationships, metrics(func(m *habit.Metrics) { m.QualityTime = habit.MetricOf(0) })))
	assert.Equal(t, 0, ComputeXP(habit.DomainRelationships, metrics(func(m *habit.Metrics) { m.SocialCount = habit.MetricOf(0) })))
}

// TestComputeXPBounds sweeps a grid of raw values across every domain and
// asserts the clamp holds no matter what combination is submitted.
func TestComputeXPBounds(t *testing.T) {
	values := []float64{-10, -1, 0, 0.5, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 12, 15, 25, 40, 60, 500, 1000, 4000, 8000, 9999}
	for _, domain := range habit.Domains {
		for _, a := range values {
			for _, b := range values {
				m := habit.Metrics{
					SleepHours:        habit.MetricOf(a),
					ExerciseMinutes:   habit.MetricOf(b),
					FoodQuality:       habit.MetricOf(a),
					Mood:              habit.MetricOf(b),
					StudyHours:        habit.MetricOf(a),
					Spending:          habit.MetricOf(b),
					LeisureHours:      habit.MetricOf(a),
					QualityTime:       habit.MetricOf(a),
					SocialCount:       habit.MetricOf(b),
					ConnectionQuality: habit.MetricOf(a),
				}
				xp := ComputeXP(domain, m)
				if xp < MinXP || xp > MaxXP {
					t.Fatalf("ComputeXP(%s, a=%v b=%v) = %d, outside [%d, %d]", domain, a, b, xp, MinXP, MaxXP)
				}
			}
		}
	}
}

func TestLevel(t *testing.T) {
	assert.Equal(t, 1, Level(0))
	assert.Equal(t, 1, Level(99))
	assert.Equal(t, 2, Level(100))
	assert.Equal(t, 3, Level(250))

	// Negative cumulative points use mathematical floor, not truncation.
	assert.Equal(t, 0, Level(-1))
	assert.Equal(t, 0, Level(-100))
	assert.Equal(t, -1, Level(-101))
}

func TestRankFor(t *testing.T) {
	tests := []struct {
		level int
		want  Rank
	}{
		{1, RankBeginner}, {2, RankBeginner},
		{3, RankNovice}, {5, RankNovice},
		{6, RankIntermediate}, {10, RankIntermediate},
		{11, RankAdvanced}, {15, RankAdvanced},
		{16, RankExpert}, {20, RankExpert},
		{21, RankMaster}, {40, RankMaster},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, RankFor(tt.level), "level=%d", tt.level)
	}
}

func TestUpdateStreak(t *testing.T) {
	// First ever log.
	s := UpdateStreak(StreakState{}, false, false)
	assert.Equal(t, StreakState{Current: 1, Longest: 1}, s)

	// Log the next day: streak continues.
	s = UpdateStreak(s, false, true)
	assert.Equal(t, StreakState{Current: 2, Longest: 2}, s)

	// Second submission the same day: unchanged.
	same := UpdateStreak(s, true, true)
	assert.Equal(t, s, same)

	// Day skipped: reset to 1, longest retained.
	s = UpdateStreak(StreakState{Current: 7, Longest: 9}, false, false)
	assert.Equal(t, StreakState{Current: 1, Longest: 9}, s)
}

func TestLongestStreakMonotonic(t *testing.T) {
	transitions := []struct{ today, yesterday bool }{
		{false, false}, {false, true}, {true, true}, {false, true},
		{false, false}, {false, true}, {true, false}, {false, false},
	}
	s := StreakState{}
	prevLongest := 0
	for i, tr := range transitions {
		s = UpdateStreak(s, tr.today, tr.yesterday)
		if s.Longest < prevLongest {
			t.Fatalf("step %d: longest streak decreased from %d to %d", i, prevLongest, s.Longest)
		}
		prevLongest = s.Longest
	}
}
