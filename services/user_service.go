package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"futureYouAPI/internal/calendar"
	"futureYouAPI/internal/leaderboard"
	"futureYouAPI/internal/scoring"
	"futureYouAPI/internal/stats"
	"futureYouAPI/internal/user"
	"futureYouAPI/utils"
)

// ratingKeys are the baseline-assessment keys a registration must rate.
var ratingKeys = []string{"physical", "mental", "career", "relationships", "finance", "hobbies"}

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

// Register creates an account seeded from the baseline self-assessment:
// each of the six domains rated 1-5, points = total rating x 10, level and
// rank derived from points, streaks starting at zero.
func (s *UserService) Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("valid email is required")
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}

	total := 0
	for _, key := range ratingKeys {
		rating, ok := req.Ratings[key]
		if !ok {
			return nil, fmt.Errorf("missing baseline rating for %q", key)
		}
		if rating < 1 || rating > 5 {
			return nil, fmt.Errorf("baseline rating for %q must be between 1 and 5", key)
		}
		total += rating
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	points := total * 10
	level := scoring.Level(points)
	rank := scoring.RankFor(level)

	u := &user.User{
		ID:     uuid.New(),
		Name:   name,
		Email:  email,
		Points: points,
		Level:  level,
		Rank:   string(rank),
	}

	query := `
	INSERT INTO users (id, name, email, password_hash, points, level, rank, current_streak, longest_streak, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, 0, 0, NOW(), NOW())
	RETURNING created_at, updated_at
	`

	err = s.db.QueryRow(ctx, query, u.ID, u.Name, u.Email, string(hash), u.Points, u.Level, u.Rank).
		Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

// Authenticate checks an email/password pair and returns the profile.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	query := `
	SELECT id, name, email, password_hash, points, level, rank, current_streak, longest_streak, created_at, updated_at
	FROM users
	WHERE email = $1
	`

	u := &user.User{}
	var hash string
	err := s.db.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&hash,
		&u.Points,
		&u.Level,
		&u.Rank,
		&u.CurrentStreak,
		&u.LongestStreak,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invalid email or password")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	return u, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	query := `
	SELECT id, name, email, points, level, rank, current_streak, longest_streak, created_at, updated_at
	FROM users
	WHERE id = $1
	`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Points,
		&u.Level,
		&u.Rank,
		&u.CurrentStreak,
		&u.LongestStreak,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *user.UpdateProfileRequest) (*user.User, error) {
	query := `
	UPDATE users
	SET
		name = COALESCE(NULLIF($2, ''), name),
		email = COALESCE(NULLIF($3, ''), email),
		updated_at = NOW()
	WHERE id = $1
	RETURNING id, name, email, points, level, rank, current_streak, longest_streak, created_at, updated_at
	`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, userID, strings.TrimSpace(req.Name), strings.ToLower(strings.TrimSpace(req.Email))).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Points,
		&u.Level,
		&u.Rank,
		&u.CurrentStreak,
		&u.LongestStreak,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

// GetLeaderboard returns the top 50 profiles by points plus the caller's
// own position, wherever it falls.
func (s *UserService) GetLeaderboard(ctx context.Context, userID uuid.UUID) (*leaderboard.Leaderboard, error) {
	query := `
	SELECT id, name, points, level, rank, current_streak,
		ROW_NUMBER() OVER (ORDER BY points DESC, name) AS position
	FROM users
	ORDER BY points DESC, name
	LIMIT 50
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	defer rows.Close()

	board := &leaderboard.Leaderboard{Entries: []*leaderboard.Entry{}}
	for rows.Next() {
		e := &leaderboard.Entry{}
		err := rows.Scan(&e.UserID, &e.Name, &e.Points, &e.Level, &e.Rank, &e.CurrentStreak, &e.Position)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		board.Entries = append(board.Entries, e)
		if e.UserID == userID {
			board.UserPosition = e
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard rows: %w", err)
	}

	if board.UserPosition == nil {
		positionQuery := `
		SELECT id, name, points, level, rank, current_streak, position FROM (
			SELECT id, name, points, level, rank, current_streak,
				ROW_NUMBER() OVER (ORDER BY points DESC, name) AS position
			FROM users
		) ranked
		WHERE id = $1
		`
		e := &leaderboard.Entry{}
		err := s.db.QueryRow(ctx, positionQuery, userID).Scan(
			&e.UserID, &e.Name, &e.Points, &e.Level, &e.Rank, &e.CurrentStreak, &e.Position,
		)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to fetch user position: %w", err)
		}
		if err == nil {
			board.UserPosition = e
		}
	}

	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&board.TotalUsers); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	return board, nil
}

func (s *UserService) GetUserStats(ctx context.Context, userID uuid.UUID) (*stats.UserStats, error) {
	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	st := &stats.UserStats{
		CurrentStreak: u.CurrentStreak,
		LongestStreak: u.LongestStreak,
		Points:        u.Points,
		Level:         u.Level,
		Rank:          u.Rank,
	}

	query := `
	SELECT
		COUNT(*),
		COUNT(DISTINCT date),
		COALESCE(COUNT(*) FILTER (WHERE date = CURRENT_DATE), 0) > 0
	FROM habit_logs
	WHERE user_id = $1
	`
	if err := s.db.QueryRow(ctx, query, userID).Scan(&st.TotalLogs, &st.DaysActive, &st.LoggedToday); err != nil {
		return nil, fmt.Errorf("failed to get log stats: %w", err)
	}

	taskQuery := `SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND completed = true`
	if err := s.db.QueryRow(ctx, taskQuery, userID).Scan(&st.TasksCompleted); err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}

	return st, nil
}

// GetCalendar returns one month of days flagged with "has at least one log".
func (s *UserService) GetCalendar(ctx context.Context, userID uuid.UUID, year int, month int) (*calendar.CalendarResponse, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month: %d", month)
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	nextMonth := monthStart.AddDate(0, 1, 0)

	query := `
	SELECT DISTINCT date
	FROM habit_logs
	WHERE user_id = $1 AND date >= $2 AND date < $3
	`

	rows, err := s.db.Query(ctx, query, userID, monthStart, nextMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar: %w", err)
	}
	defer rows.Close()

	logged := make(map[string]bool)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan calendar row: %w", err)
		}
		logged[utils.DayString(d)] = true
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating calendar rows: %w", err)
	}

	today := utils.DayString(time.Now())
	var days []*calendar.CalendarDay
	for d := monthStart; d.Before(nextMonth); d = d.AddDate(0, 0, 1) {
		key := utils.DayString(d)
		days = append(days, &calendar.CalendarDay{
			Date:    d,
			Logged:  logged[key],
			IsToday: key == today,
		})
	}

	return &calendar.CalendarResponse{
		Year:  year,
		Month: month,
		Days:  days,
	}, nil
}
