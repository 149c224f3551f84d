package scoring

import (
	"math"
	"time"

	"futureYouAPI/internal/habit"
	"futureYouAPI/utils"
)

// ConsistencyWindow is the trailing number of days shown in the
// "did I log at all" grid.
const ConsistencyWindow = 14

type ConsistencyDay struct {
	Date   string `json:"date"`
	Logged bool   `json:"logged"`
}

// Report is a read-only summary over a window of habit logs. It is
// recomputed from raw logs on every request; nothing here is persisted.
type Report struct {
	Days         []string                 `json:"days"`
	CumulativeXP []int                    `json:"cumulativeXp"`
	DomainCounts map[habit.Domain]int     `json:"domainCounts"`
	Balance      map[habit.Domain]float64 `json:"balance"`
	Consistency  []ConsistencyDay         `json:"consistency"`
	TotalLogs    int                      `json:"totalLogs"`
	AvgXP        int                      `json:"avgXp"`
	TopDomain    string                   `json:"topDomain"`
}

// Balance sub-scores (0-10): a coarser grading than the XP bands but
// directionally consistent with them. Kept separate on purpose - the radar
// answers "how good were the days", not "how much XP did they pay".
func balanceSleep(v float64) float64 {
	switch {
	case v >= 7 && v <= 9:
		return 10
	case v >= 6 && v <= 10:
		return 7
	case v >= 5 && v <= 11:
		return 5
	default:
		return 0
	}
}

func balanceExercise(v float64) float64 {
	switch {
	case v >= 60:
		return 10
	case v >= 30:
		return 7
	case v >= 15:
		return 5
	case v >= 10:
		return 3
	default:
		return 0
	}
}

func balanceFood(v float64) float64 {
	switch {
	case v >= 8:
		return 10
	case v >= 6:
		return 8
	case v >= 4:
		return 5
	default:
		return 0
	}
}

func balanceMood(v float64) float64 {
	switch {
	case v >= 8:
		return 10
	case v >= 6:
		return 7
	case v >= 4:
		return 5
	default:
		return 0
	}
}

func balanceStudy(v float64) float64 {
	switch {
	case v >= 4:
		return 10
	case v >= 2:
		return 7
	case v >= 1:
		return 5
	default:
		return 0
	}
}

func balanceSpending(v float64) float64 {
	switch {
	case v <= 500:
		return 10
	case v <= 1500:
		return 8
	case v <= 3000:
		return 6
	case v <= 8000:
		return 4
	default:
		return 0
	}
}

func balanceLeisure(v float64) float64 {
	switch {
	case v >= 3:
		return 10
	case v >= 1:
		return 7
	default:
		return 0
	}
}

func balanceQualityTime(v float64) float64 {
	switch {
	case v >= 3:
		return 10
	case v >= 1:
		return 7
	default:
		return 0
	}
}

func balanceSocialCount(v float64) float64 {
	switch {
	case v >= 5:
		return 10
	case v >= 3:
		return 7
	case v >= 1:
		return 5
	default:
		return 0
	}
}

func balanceConnection(v float64) float64 {
	switch {
	case v >= 8:
		return 10
	case v >= 6:
		return 8
	case v >= 4:
		return 5
	default:
		return 0
	}
}

// logBalance grades one log 0-10, averaging whichever of the domain's
// metrics were provided. Returns false when nothing was provided.
func logBalance(l habit.Log) (float64, bool) {
	type graded struct {
		m     habit.Metric
		grade func(float64) float64
	}
	var parts []graded
	switch l.Domain {
	case habit.DomainPhysical:
		parts = []graded{
			{l.Metrics.SleepHours, balanceSleep},
			{l.Metrics.ExerciseMinutes, balanceExercise},
			{l.Metrics.FoodQuality, balanceFood},
		}
	case habit.DomainMental:
		parts = []graded{{l.Metrics.Mood, balanceMood}}
	case habit.DomainCareer:
		parts = []graded{{l.Metrics.StudyHours, balanceStudy}}
	case habit.DomainFinance:
		parts = []graded{{l.Metrics.Spending, balanceSpending}}
	case habit.DomainHobbies:
		parts = []graded{{l.Metrics.LeisureHours, balanceLeisure}}
	case habit.DomainRelationships:
		parts = []graded{
			{l.Metrics.QualityTime, balanceQualityTime},
			{l.Metrics.SocialCount, balanceSocialCount},
			{l.Metrics.ConnectionQuality, balanceConnection},
		}
	}

	sum, n := 0.0, 0
	for _, p := range parts {
		if !p.m.Present {
			continue
		}
		sum += p.grade(p.m.Value)
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Aggregate builds the report for the windowDays ending at ref. Logs
// outside the window are ignored for the series, counts and radar, but
// still count toward the trailing consistency grid, which always covers
// the last ConsistencyWindow days regardless of the selected range.
func Aggregate(logs []habit.Log, windowDays int, ref time.Time) *Report {
	days := utils.LastNDays(windowDays, ref)
	start, end := days[0], days[len(days)-1]

	dailyXP := make(map[string]int, len(days))
	for _, d := range days {
		dailyXP[d] = 0
	}

	counts := make(map[habit.Domain]int, len(habit.Domains))
	sums := make(map[habit.Domain]float64, len(habit.Domains))
	samples := make(map[habit.Domain]int, len(habit.Domains))
	for _, d := range habit.Domains {
		counts[d] = 0
	}

	totalXP, totalLogs := 0, 0
	for _, l := range logs {
		if l.Date < start || l.Date > end {
			continue
		}
		totalLogs++

		xp := ComputeXP(l.Domain, l.Metrics)
		dailyXP[l.Date] += xp
		totalXP += xp

		if _, ok := counts[l.Domain]; ok {
			counts[l.Domain]++
		}
		if v, ok := logBalance(l); ok {
			sums[l.Domain] += v
			samples[l.Domain]++
		}
	}

	cumulative := make([]int, len(days))
	running := 0
	for i, d := range days {
		running += dailyXP[d]
		cumulative[i] = running
	}

	balance := make(map[habit.Domain]float64, len(habit.Domains))
	for _, d := range habit.Domains {
		if samples[d] == 0 {
			balance[d] = 0
			continue
		}
		balance[d] = math.Round(sums[d]/float64(samples[d])*10) / 10
	}

	logged := make(map[string]bool, len(logs))
	for _, l := range logs {
		logged[l.Date] = true
	}
	grid := make([]ConsistencyDay, 0, ConsistencyWindow)
	for _, d := range utils.LastNDays(ConsistencyWindow, ref) {
		grid = append(grid, ConsistencyDay{Date: d, Logged: logged[d]})
	}

	top := "None"
	best := 0
	for _, d := range habit.Domains {
		if counts[d] > best {
			best = counts[d]
			top = string(d)
		}
	}

	avg := 0
	if totalLogs > 0 {
		avg = int(math.Round(float64(totalXP) / float64(totalLogs)))
	}

	return &Report{
		Days:         days,
		CumulativeXP: cumulative,
		DomainCounts: counts,
		Balance:      balance,
		Consistency:  grid,
		TotalLogs:    totalLogs,
		AvgXP:        avg,
		TopDomain:    top,
	}
}
