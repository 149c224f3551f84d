package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"futureYouAPI/internal/habit"
	"futureYouAPI/internal/insight"
	"futureYouAPI/utils"
)

const (
	openRouterURL   = "https://openrouter.ai/api/v1/chat/completions"
	openRouterModel = "mistralai/mistral-7b-instruct:free"

	// minDataPoints is how many logged days a domain needs before the
	// model has anything worth extrapolating.
	minDataPoints = 3

	insightWindowDays = 30
)

// HTTPClient lets tests stub the outbound model call.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type InsightService struct {
	db        *pgxpool.Pool
	analytics *AnalyticsService
	client    HTTPClient
	apiKey    string
}

func NewInsightService(db *pgxpool.Pool, analytics *AnalyticsService) *InsightService {
	return &InsightService{
		db:        db,
		analytics: analytics,
		client:    &http.Client{Timeout: 30 * time.Second},
		apiKey:    os.Getenv("OPENROUTER_API_KEY"),
	}
}

// SetHTTPClient replaces the outbound client. Test hook.
func (s *InsightService) SetHTTPClient(c HTTPClient) {
	s.client = c
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate asks the model for a trend projection over the domain's recent
// history and stores the result as an immutable simulation row.
func (s *InsightService) Generate(ctx context.Context, userID uuid.UUID, domain habit.Domain) (*insight.Simulation, error) {
	if !domain.Valid() {
		return nil, fmt.Errorf("unknown domain %q", domain)
	}
	if s.apiKey == "" {
		return nil, fmt.Errorf("insight generation is not configured")
	}

	logs, err := s.analytics.DomainHistory(ctx, userID, domain, insightWindowDays)
	if err != nil {
		return nil, err
	}

	days := make(map[string]bool)
	for _, l := range logs {
		days[l.Date] = true
	}
	if len(days) < minDataPoints {
		return nil, fmt.Errorf("not enough data for %s: need at least %d logged days", domain, minDataPoints)
	}

	projection, err := s.requestProjection(ctx, domain, logs)
	if err != nil {
		return nil, err
	}
	projection.DataPoints = len(logs)
	projection.LastUpdated = utils.DayString(time.Now())
	projection.GeneratedBy = openRouterModel

	sim := &insight.Simulation{
		ID:         uuid.New(),
		UserID:     userID,
		Domain:     domain,
		Timeline:   "30 days",
		Projection: *projection,
	}

	blob, err := json.Marshal(sim.Projection)
	if err != nil {
		return nil, fmt.Errorf("failed to encode projection: %w", err)
	}

	query := `
	INSERT INTO simulations (id, user_id, domain, timeline, projection, generated_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
	RETURNING generated_at
	`
	err = s.db.QueryRow(ctx, query, sim.ID, sim.UserID, sim.Domain, sim.Timeline, blob).
		Scan(&sim.GeneratedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to store simulation: %w", err)
	}

	return sim, nil
}

func (s *InsightService) requestProjection(ctx context.Context, domain habit.Domain, logs []habit.Log) (*insight.Projection, error) {
	var history strings.Builder
	for _, l := range logs {
		fmt.Fprintf(&history, "%s: %+d XP\n", l.Date, l.XPAwarded)
	}

	prompt := fmt.Sprintf(`You are a habit analysis engine. Based on this user's recent %s activity (date and XP earned per entry, higher XP means a better day):

%s
Respond with ONLY a JSON object, no prose, in exactly this shape:
{"trend": "improving" | "stable" | "declining", "prediction": "<one sentence about where the next 30 days are heading>", "futureOutcome": "<one sentence describing the user one year out if this continues>", "suggestions": ["<tip>", "<tip>", "<tip>"]}`, domain, history.String())

	body, err := json.Marshal(chatRequest{
		Model:    openRouterModel,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode model request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openRouterURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build model request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("model request failed with status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read model response: %w", err)
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return nil, fmt.Errorf("failed to decode model response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}

	content := stripCodeFences(chat.Choices[0].Message.Content)

	p := &insight.Projection{}
	if err := json.Unmarshal([]byte(content), p); err != nil {
		return nil, fmt.Errorf("model returned unparsable projection: %w", err)
	}

	switch p.Trend {
	case insight.TrendImproving, insight.TrendStable, insight.TrendDeclining:
	default:
		return nil, fmt.Errorf("model returned unknown trend %q", p.Trend)
	}
	if p.Prediction == "" || p.FutureOutcome == "" {
		return nil, fmt.Errorf("model returned incomplete projection")
	}
	if p.Suggestions == nil {
		p.Suggestions = []string{}
	}

	return p, nil
}

// stripCodeFences unwraps ```json ... ``` blocks some models insist on.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// ListSimulations returns the user's saved insights, newest first.
func (s *InsightService) ListSimulations(ctx context.Context, userID uuid.UUID) ([]*insight.Simulation, error) {
	query := `
	SELECT id, user_id, domain, timeline, projection, generated_at
	FROM simulations
	WHERE user_id = $1
	ORDER BY generated_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch simulations: %w", err)
	}
	defer rows.Close()

	sims := []*insight.Simulation{}
	for rows.Next() {
		sim := &insight.Simulation{}
		var blob []byte
		err := rows.Scan(&sim.ID, &sim.UserID, &sim.Domain, &sim.Timeline, &blob, &sim.GeneratedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan simulation: %w", err)
		}
		if err := json.Unmarshal(blob, &sim.Projection); err != nil {
			return nil, fmt.Errorf("failed to decode stored projection: %w", err)
		}
		sims = append(sims, sim)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating simulation rows: %w", err)
	}

	return sims, nil
}

func (s *InsightService) DeleteSimulation(ctx context.Context, userID, simID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM simulations WHERE id = $1 AND user_id = $2`, simID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete simulation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("simulation not found")
	}
	return nil
}

// ClearHistory drops every saved insight for the user.
func (s *InsightService) ClearHistory(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM simulations WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear simulations: %w", err)
	}
	return nil
}
