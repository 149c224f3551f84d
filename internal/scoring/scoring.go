// Package scoring is the progression engine: XP step tables per life
// domain, level and rank derivation, and the daily streak transition.
// Everything here is pure; persistence and transport live elsewhere.
package scoring

import "futureYouAPI/internal/habit"

// XP for a single submission is always clamped to this range, no matter
// how many metric sub-scores contributed.
const (
	MinXP = -20
	MaxXP = 50
)

// PointsPerLevel is the flat XP cost of each level.
const PointsPerLevel = 100

type Rank string

const (
	RankBeginner     Rank = "Beginner"
	RankNovice       Rank = "Novice"
	RankIntermediate Rank = "Intermediate"
	RankAdvanced     Rank = "Advanced"
	RankExpert       Rank = "Expert"
	RankMaster       Rank = "Master"
)

// metricScore evaluates one metric's step table. Each table is monotonic:
// better raw values earn more XP, with a penalty band at the bottom where
// the original rules define one.
func scoreSleep(v float64) int {
	switch {
	case v >= 7 && v <= 9:
		return 15
	case v >= 6 && v <= 10:
		return 10
	case v >= 4 && v <= 12:
		return 5
	default:
		return -2
	}
}

func scoreExercise(v float64) int {
	switch {
	case v >= 40:
		return 15
	case v >= 25:
		return 10
	case v >= 10:
		return 5
	case v > 0:
		return -2
	default:
		return 0
	}
}

func scoreFood(v float64) int {
	switch {
	case v >= 8:
		return 15
	case v >= 6:
		return 10
	case v >= 4:
		return 5
	case v >= 1:
		return -2
	default:
		return 0
	}
}

func scoreMood(v float64) int {
	switch {
	case v >= 8:
		return 15
	case v >= 6:
		return 10
	case v >= 4:
		return 5
	case v >= 1:
		return -2
	default:
		return 0
	}
}

func scoreStudy(v float64) int {
	switch {
	case v >= 5:
		return 20
	case v >= 3:
		return 15
	case v >= 2:
		return 10
	case v >= 1:
		return 5
	case v >= 0:
		return -2
	default:
		return 0
	}
}

func scoreSpending(v float64) int {
	switch {
	case v <= 500:
		return 20
	case v <= 1000:
		return 15
	case v <= 4000:
		return 10
	case v <= 8000:
		return 5
	default:
		return -2
	}
}

func scoreLeisure(v float64) int {
	switch {
	case v >= 5:
		return 15
	case v >= 3:
		return 10
	case v >= 1:
		return 5
	default:
		return 0
	}
}

func scoreQualityTime(v float64) int {
	switch {
	case v >= 4:
		return 15
	case v >= 3:
		return 10
	case v >= 1:
		return 5
	case v >= 0:
		return -2
	default:
		return 0
	}
}

func scoreSocialCount(v float64) int {
	switch {
	case v >= 5:
		return 15
	case v >= 3:
		return 10
	case v >= 2:
		return 5
	case v >= 1:
		return 2
	default:
		return 0
	}
}

func scoreConnection(v float64) int {
	switch {
	case v >= 8:
		return 15
	case v >= 6:
		return 10
	case v >= 4:
		return 5
	case v >= 1:
		return -2
	default:
		return 0
	}
}

type metricScorer struct {
	pick  func(habit.Metrics) habit.Metric
	score func(float64) int
}

// domainScorers is the single authoritative table. Domains with several
// metrics sum every sub-score that was actually provided; an absent metric
// is never evaluated.
var domainScorers = map[habit.Domain][]metricScorer{
	habit.DomainPhysical: {
		{func(m habit.Metrics) habit.Metric { return m.SleepHours }, scoreSleep},
		{func(m habit.Metrics) habit.Metric { return m.ExerciseMinutes }, scoreExercise},
		{func(m habit.Metrics) habit.Metric { return m.FoodQuality }, scoreFood},
	},
	habit.DomainMental: {
		{func(m habit.Metrics) habit.Metric { return m.Mood }, scoreMood},
	},
	habit.DomainCareer: {
		{func(m habit.Metrics) habit.Metric { return m.StudyHours }, scoreStudy},
	},
	habit.DomainFinance: {
		{func(m habit.Metrics) habit.Metric { return m.Spending }, scoreSpending},
	},
	habit.DomainHobbies: {
		{func(m habit.Metrics) habit.Metric { return m.LeisureHours }, scoreLeisure},
	},
	habit.DomainRelationships: {
		{func(m habit.Metrics) habit.Metric { return m.QualityTime }, scoreQualityTime},
		{func(m habit.Metrics) habit.Metric { return m.SocialCount }, scoreSocialCount},
		{func(m habit.Metrics) habit.Metric { return m.ConnectionQuality }, scoreConnection},
	},
}

// ComputeXP maps one domain submission to an XP delta in [MinXP, MaxXP].
// Free-text notes never affect the result.
func ComputeXP(domain habit.Domain, m habit.Metrics) int {
	xp := 0
	for _, sc := range domainScorers[domain] {
		metric := sc.pick(m)
		if !metric.Present {
			continue
		}
		xp += sc.score(metric.Value)
	}
	if xp > MaxXP {
		return MaxXP
	}
	if xp < MinXP {
		return MinXP
	}
	return xp
}

// Level derives the level from cumulative points: floor(points/100) + 1.
// Points can go negative from repeated penalties; mathematical floor
// division keeps the level derivation consistent there too.
func Level(points int) int {
	return floorDiv(points, PointsPerLevel) + 1
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// RankFor maps a level to its cosmetic rank label.
func RankFor(level int) Rank {
	switch {
	case level >= 21:
		return RankMaster
	case level >= 16:
		return RankExpert
	case level >= 11:
		return RankAdvanced
	case level >= 6:
		return RankIntermediate
	case level >= 3:
		return RankNovice
	default:
		return RankBeginner
	}
}

type StreakState struct {
	Current int
	Longest int
}

// UpdateStreak applies the daily streak transition. The caller decides, via
// day-indexed existence checks, whether the user already logged today and
// whether they logged yesterday; re-submissions on the same day leave the
// counter untouched.
func UpdateStreak(s StreakState, loggedToday, loggedYesterday bool) StreakState {
	next := s
	if !loggedToday {
		if loggedYesterday {
			next.Current = s.Current + 1
		} else {
			next.Current = 1
		}
	}
	if next.Current > next.Longest {
		next.Longest = next.Current
	}
	return next
}
