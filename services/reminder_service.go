package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"futureYouAPI/internal/notification"
)

// PushProvider sends a push to a set of device tokens. Satisfied by
// notification.FCMService; tests substitute a recorder.
type PushProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]string) error
}

type ReminderService struct {
	db   *pgxpool.Pool
	push PushProvider
}

func NewReminderService(db *pgxpool.Pool, push PushProvider) *ReminderService {
	return &ReminderService{db: db, push: push}
}

// RegisterDevice upserts a device token and makes sure the user has a
// preferences row, enabled by default.
func (s *ReminderService) RegisterDevice(ctx context.Context, userID uuid.UUID, req *notification.RegisterDeviceRequest) (*notification.DeviceToken, error) {
	if req.Token == "" {
		return nil, fmt.Errorf("token is required")
	}
	platform := req.Platform
	if platform != "ios" && platform != "android" && platform != "web" {
		return nil, fmt.Errorf("unknown platform %q", platform)
	}

	dt := &notification.DeviceToken{
		ID:       uuid.New(),
		UserID:   userID,
		Token:    req.Token,
		Platform: platform,
	}

	query := `
	INSERT INTO device_tokens (id, user_id, token, platform, created_at)
	VALUES ($1, $2, $3, $4, NOW())
	ON CONFLICT (token) DO UPDATE SET user_id = $2, platform = $4
	RETURNING id, created_at
	`
	err := s.db.QueryRow(ctx, query, dt.ID, userID, dt.Token, platform).Scan(&dt.ID, &dt.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to register device: %w", err)
	}

	prefsQuery := `
	INSERT INTO notification_preferences (user_id, reminders_enabled, updated_at)
	VALUES ($1, true, NOW())
	ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := s.db.Exec(ctx, prefsQuery, userID); err != nil {
		return nil, fmt.Errorf("failed to seed notification preferences: %w", err)
	}

	return dt, nil
}

func (s *ReminderService) GetPreferences(ctx context.Context, userID uuid.UUID) (*notification.Preferences, error) {
	p := &notification.Preferences{}
	query := `SELECT user_id, reminders_enabled, updated_at FROM notification_preferences WHERE user_id = $1`
	err := s.db.QueryRow(ctx, query, userID).Scan(&p.UserID, &p.RemindersEnabled, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No row yet means the defaults apply.
			return &notification.Preferences{UserID: userID, RemindersEnabled: true}, nil
		}
		return nil, fmt.Errorf("failed to get notification preferences: %w", err)
	}
	return p, nil
}

func (s *ReminderService) UpdatePreferences(ctx context.Context, userID uuid.UUID, req *notification.UpdatePreferencesRequest) (*notification.Preferences, error) {
	p := &notification.Preferences{}
	query := `
	INSERT INTO notification_preferences (user_id, reminders_enabled, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (user_id) DO UPDATE SET reminders_enabled = $2, updated_at = NOW()
	RETURNING user_id, reminders_enabled, updated_at
	`
	err := s.db.QueryRow(ctx, query, userID, req.RemindersEnabled).Scan(&p.UserID, &p.RemindersEnabled, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update notification preferences: %w", err)
	}
	return p, nil
}

type reminderCandidate struct {
	userID uuid.UUID
	name   string
	streak int
}

// SendStreakReminders pushes to every user whose active streak will break
// if they skip today: streak above zero, reminders on, nothing logged yet
// today, and not already reminded today.
func (s *ReminderService) SendStreakReminders(ctx context.Context) error {
	if s.push == nil {
		return nil
	}

	query := `
	SELECT u.id, u.name, u.current_streak
	FROM users u
	JOIN notification_preferences p ON p.user_id = u.id AND p.reminders_enabled
	WHERE u.current_streak > 0
		AND NOT EXISTS (SELECT 1 FROM habit_logs h WHERE h.user_id = u.id AND h.date = CURRENT_DATE)
		AND (p.last_reminded IS NULL OR p.last_reminded < CURRENT_DATE)
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to find reminder candidates: %w", err)
	}

	var candidates []reminderCandidate
	for rows.Next() {
		var c reminderCandidate
		if err := rows.Scan(&c.userID, &c.name, &c.streak); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan reminder candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating reminder candidates: %w", err)
	}

	for _, c := range candidates {
		tokens, err := s.deviceTokens(ctx, c.userID)
		if err != nil {
			log.Printf("streak reminder: %v", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}

		title := "Your streak is on the line"
		body := fmt.Sprintf("%s, log a habit today to keep your %d-day streak alive.", c.name, c.streak)
		data := map[string]string{"type": "streak_reminder", "streak": fmt.Sprintf("%d", c.streak)}

		if err := s.push.SendPush(ctx, tokens, title, body, data); err != nil {
			log.Printf("streak reminder push failed for user %s: %v", c.userID, err)
			continue
		}

		mark := `UPDATE notification_preferences SET last_reminded = CURRENT_DATE WHERE user_id = $1`
		if _, err := s.db.Exec(ctx, mark, c.userID); err != nil {
			log.Printf("failed to mark reminder sent for user %s: %v", c.userID, err)
		}
	}

	return nil
}

func (s *ReminderService) deviceTokens(ctx context.Context, userID uuid.UUID) ([]notification.DeviceToken, error) {
	query := `SELECT id, user_id, token, platform, created_at FROM device_tokens WHERE user_id = $1`
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch device tokens for %s: %w", userID, err)
	}
	defer rows.Close()

	var tokens []notification.DeviceToken
	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.Platform, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating device token rows: %w", err)
	}
	return tokens, nil
}
