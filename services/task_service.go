package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"futureYouAPI/internal/scoring"
	"futureYouAPI/internal/task"
)

type TaskService struct {
	db *pgxpool.Pool
}

func NewTaskService(db *pgxpool.Pool) *TaskService {
	return &TaskService{db: db}
}

func (s *TaskService) ListTasks(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	query := `
	SELECT id, user_id, title, description, difficulty, xp_reward, completed, created_at, completed_at
	FROM tasks
	WHERE user_id = $1
	ORDER BY completed ASC, created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t := &task.Task{}
		err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Difficulty, &t.XPRewarded, &t.Completed, &t.CreatedAt, &t.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

// CreateTask stores a task with its XP reward frozen from the difficulty
// table at creation time.
func (s *TaskService) CreateTask(ctx context.Context, userID uuid.UUID, req *task.CreateTaskRequest) (*task.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if !req.Difficulty.Valid() {
		return nil, fmt.Errorf("unknown difficulty %q", req.Difficulty)
	}

	t := &task.Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Difficulty:  req.Difficulty,
		XPRewarded:  task.XPReward[req.Difficulty],
	}

	query := `
	INSERT INTO tasks (id, user_id, title, description, difficulty, xp_reward, completed, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, false, NOW())
	RETURNING created_at
	`

	err := s.db.QueryRow(ctx, query, t.ID, t.UserID, t.Title, t.Description, t.Difficulty, t.XPRewarded).
		Scan(&t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return t, nil
}

// CompleteTask marks a task done and pays its reward exactly once. The
// conditional UPDATE only matches an uncompleted row, so a repeated call
// finds nothing to pay.
func (s *TaskService) CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (*task.CompleteTaskResponse, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	completeQuery := `
	UPDATE tasks
	SET completed = true, completed_at = NOW()
	WHERE id = $1 AND user_id = $2 AND NOT completed
	RETURNING id, user_id, title, description, difficulty, xp_reward, completed, created_at, completed_at
	`

	t := &task.Task{}
	err = tx.QueryRow(ctx, completeQuery, taskID, userID).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Difficulty, &t.XPRewarded, &t.Completed, &t.CreatedAt, &t.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("task not found or already completed")
		}
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	var points int
	lockQuery := `SELECT points FROM users WHERE id = $1 FOR UPDATE`
	if err := tx.QueryRow(ctx, lockQuery, userID).Scan(&points); err != nil {
		return nil, fmt.Errorf("failed to lock profile: %w", err)
	}

	points += t.XPRewarded
	level := scoring.Level(points)
	rank := string(scoring.RankFor(level))

	updateQuery := `UPDATE users SET points = $2, level = $3, rank = $4, updated_at = NOW() WHERE id = $1`
	if _, err := tx.Exec(ctx, updateQuery, userID, points, level, rank); err != nil {
		return nil, fmt.Errorf("failed to update profile standing: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit task completion: %w", err)
	}

	return &task.CompleteTaskResponse{
		Task:      t,
		XPAwarded: t.XPRewarded,
		Points:    points,
		Level:     level,
		Rank:      rank,
	}, nil
}

// DeleteTask removes a task. Completed tasks keep their already-paid XP.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task not found")
	}
	return nil
}
