package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"futureYouAPI/internal/habit"
	"futureYouAPI/internal/scoring"
	"futureYouAPI/utils"
)

type AnalyticsService struct {
	db *pgxpool.Pool
}

func NewAnalyticsService(db *pgxpool.Pool) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// GetReport aggregates the user's full history into the charts payload:
// cumulative XP series, per-domain counts, the balance radar and the
// trailing consistency grid, all windowed to the requested number of days.
func (s *AnalyticsService) GetReport(ctx context.Context, userID uuid.UUID, windowDays int) (*scoring.Report, error) {
	query := `
	SELECT id, user_id, domain, date,
		sleep_hours, exercise_minutes, food_quality, mood,
		study_hours, spending, leisure_hours,
		quality_time, social_count, connection_quality,
		notes, xp_awarded, created_at
	FROM habit_logs
	WHERE user_id = $1
	ORDER BY date ASC, created_at ASC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logs for report: %w", err)
	}
	defer rows.Close()

	var logs []habit.Log
	for rows.Next() {
		entry, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}

	return scoring.Aggregate(logs, windowDays, time.Now()), nil
}

// DomainHistory returns the day/XP pairs for one domain, oldest first,
// shaped for the insight prompt.
func (s *AnalyticsService) DomainHistory(ctx context.Context, userID uuid.UUID, domain habit.Domain, windowDays int) ([]habit.Log, error) {
	query := `
	SELECT id, user_id, domain, date,
		sleep_hours, exercise_minutes, food_quality, mood,
		study_hours, spending, leisure_hours,
		quality_time, social_count, connection_quality,
		notes, xp_awarded, created_at
	FROM habit_logs
	WHERE user_id = $1 AND domain = $2 AND date >= $3
	ORDER BY date ASC, created_at ASC
	`

	cutoff := utils.DayString(time.Now().AddDate(0, 0, -windowDays))
	rows, err := s.db.Query(ctx, query, userID, domain, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch domain history: %w", err)
	}
	defer rows.Close()

	var logs []habit.Log
	for rows.Next() {
		entry, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating domain history rows: %w", err)
	}

	return logs, nil
}
