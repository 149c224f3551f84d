package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"futureYouAPI/internal/habit"
	"futureYouAPI/internal/scoring"
	"futureYouAPI/utils"
)

type HabitService struct {
	db *pgxpool.Pool
}

func NewHabitService(db *pgxpool.Pool) *HabitService {
	return &HabitService{db: db}
}

// SubmitLog records one habit entry and folds its XP into the profile.
// Scoring, streak transition and standing recomputation all happen inside
// a single transaction with the profile row locked, so two concurrent
// submissions cannot read the same starting points.
func (s *HabitService) SubmitLog(ctx context.Context, userID uuid.UUID, req *habit.SubmitLogRequest) (*habit.SubmitLogResponse, error) {
	if !req.Domain.Valid() {
		return nil, fmt.Errorf("unknown domain %q", req.Domain)
	}

	day := req.Date
	if day == "" {
		day = utils.DayString(time.Now())
	}
	logDate, err := utils.ParseDay(day)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", req.Date, err)
	}
	day = utils.DayString(logDate)

	xp := scoring.ComputeXP(req.Domain, req.Metrics)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var points, currentStreak, longestStreak int
	lockQuery := `SELECT points, current_streak, longest_streak FROM users WHERE id = $1 FOR UPDATE`
	err = tx.QueryRow(ctx, lockQuery, userID).Scan(&points, &currentStreak, &longestStreak)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to lock profile: %w", err)
	}

	// Streak state only moves when this is the first entry of the current
	// day. Backdated entries award XP but never touch the streak.
	today := utils.DayString(time.Now())
	state := scoring.StreakState{Current: currentStreak, Longest: longestStreak}
	if day == today {
		var loggedToday, loggedYesterday bool
		existsQuery := `
		SELECT
			EXISTS (SELECT 1 FROM habit_logs WHERE user_id = $1 AND date = $2::date),
			EXISTS (SELECT 1 FROM habit_logs WHERE user_id = $1 AND date = $2::date - 1)
		`
		if err := tx.QueryRow(ctx, existsQuery, userID, day).Scan(&loggedToday, &loggedYesterday); err != nil {
			return nil, fmt.Errorf("failed to check streak window: %w", err)
		}
		state = scoring.UpdateStreak(state, loggedToday, loggedYesterday)
	}

	entry := &habit.Log{
		ID:        uuid.New(),
		UserID:    userID,
		Domain:    req.Domain,
		Date:      day,
		Metrics:   req.Metrics,
		Notes:     req.Notes,
		XPAwarded: xp,
	}

	insertQuery := `
	INSERT INTO habit_logs (
		id, user_id, domain, date,
		sleep_hours, exercise_minutes, food_quality, mood,
		study_hours, spending, leisure_hours,
		quality_time, social_count, connection_quality,
		notes, xp_awarded, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW())
	RETURNING created_at
	`

	m := req.Metrics
	err = tx.QueryRow(ctx, insertQuery,
		entry.ID, userID, entry.Domain, day,
		m.SleepHours.Ptr(), m.ExerciseMinutes.Ptr(), m.FoodQuality.Ptr(), m.Mood.Ptr(),
		m.StudyHours.Ptr(), m.Spending.Ptr(), m.LeisureHours.Ptr(),
		m.QualityTime.Ptr(), m.SocialCount.Ptr(), m.ConnectionQuality.Ptr(),
		entry.Notes, xp,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert habit log: %w", err)
	}

	points += xp
	level := scoring.Level(points)
	rank := string(scoring.RankFor(level))

	updateQuery := `
	UPDATE users
	SET points = $2, level = $3, rank = $4, current_streak = $5, longest_streak = $6, updated_at = NOW()
	WHERE id = $1
	`
	if _, err := tx.Exec(ctx, updateQuery, userID, points, level, rank, state.Current, state.Longest); err != nil {
		return nil, fmt.Errorf("failed to update profile standing: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit habit log: %w", err)
	}

	return &habit.SubmitLogResponse{
		Log:           entry,
		XPAwarded:     xp,
		Points:        points,
		Level:         level,
		Rank:          rank,
		CurrentStreak: state.Current,
		LongestStreak: state.Longest,
	}, nil
}

// ListLogs returns the user's entries, newest first. A days value of zero
// means all history.
func (s *HabitService) ListLogs(ctx context.Context, userID uuid.UUID, days int) ([]*habit.Log, error) {
	query := `
	SELECT id, user_id, domain, date,
		sleep_hours, exercise_minutes, food_quality, mood,
		study_hours, spending, leisure_hours,
		quality_time, social_count, connection_quality,
		notes, xp_awarded, created_at
	FROM habit_logs
	WHERE user_id = $1 AND ($2 = 0 OR date >= CURRENT_DATE - $2::int)
	ORDER BY date DESC, created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID, days)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch habit logs: %w", err)
	}
	defer rows.Close()

	logs := []*habit.Log{}
	for rows.Next() {
		entry, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating habit log rows: %w", err)
	}

	return logs, nil
}

func scanLog(rows pgx.Rows) (*habit.Log, error) {
	entry := &habit.Log{}
	var date time.Time
	var sleep, exercise, food, mood, study, spending, leisure, quality, social, connection *float64

	err := rows.Scan(
		&entry.ID, &entry.UserID, &entry.Domain, &date,
		&sleep, &exercise, &food, &mood,
		&study, &spending, &leisure,
		&quality, &social, &connection,
		&entry.Notes, &entry.XPAwarded, &entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan habit log: %w", err)
	}

	entry.Date = utils.DayString(date)
	entry.Metrics = habit.Metrics{
		SleepHours:        habit.FromPtr(sleep),
		ExerciseMinutes:   habit.FromPtr(exercise),
		FoodQuality:       habit.FromPtr(food),
		Mood:              habit.FromPtr(mood),
		StudyHours:        habit.FromPtr(study),
		Spending:          habit.FromPtr(spending),
		LeisureHours:      habit.FromPtr(leisure),
		QualityTime:       habit.FromPtr(quality),
		SocialCount:       habit.FromPtr(social),
		ConnectionQuality: habit.FromPtr(connection),
	}
	return entry, nil
}
