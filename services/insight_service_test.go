package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futureYouAPI/internal/habit"
	"futureYouAPI/internal/insight"
)

type stubClient struct {
	status  int
	content string
	err     error
	lastReq *http.Request
}

func (c *stubClient) Do(req *http.Request) (*http.Response, error) {
	c.lastReq = req
	if c.err != nil {
		return nil, c.err
	}

	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": c.content}},
		},
	})
	return &http.Response{
		StatusCode: c.status,
		Body:       io.NopCloser(bytes.NewReader(body)),
	}, nil
}

func sampleLogs(n int) []habit.Log {
	logs := make([]habit.Log, 0, n)
	for i := 0; i < n; i++ {
		logs = append(logs, habit.Log{
			Domain:    habit.DomainPhysical,
			Date:      fmt.Sprintf("2026-08-%02d", i+1),
			XPAwarded: 10 + i,
		})
	}
	return logs
}

func TestRequestProjectionHappyPath(t *testing.T) {
	stub := &stubClient{
		status:  http.StatusOK,
		content: `{"trend": "improving", "prediction": "Keep this up.", "futureOutcome": "Strong habits.", "suggestions": ["sleep more"]}`,
	}
	svc := &InsightService{client: stub, apiKey: "test-key"}

	p, err := svc.requestProjection(context.Background(), habit.DomainPhysical, sampleLogs(5))
	require.NoError(t, err)
	assert.Equal(t, insight.TrendImproving, p.Trend)
	assert.Equal(t, "Keep this up.", p.Prediction)
	assert.Equal(t, []string{"sleep more"}, p.Suggestions)

	require.NotNil(t, stub.lastReq)
	assert.Equal(t, "Bearer test-key", stub.lastReq.Header.Get("Authorization"))
}

func TestRequestProjectionStripsCodeFences(t *testing.T) {
	stub := &stubClient{
		status:  http.StatusOK,
		content: "```json\n{\"trend\": \"stable\", \"prediction\": \"Holding steady.\", \"futureOutcome\": \"More of the same.\", \"suggestions\": []}\n```",
	}
	svc := &InsightService{client: stub, apiKey: "test-key"}

	p, err := svc.requestProjection(context.Background(), habit.DomainMental, sampleLogs(4))
	require.NoError(t, err)
	assert.Equal(t, insight.TrendStable, p.Trend)
}

func TestRequestProjectionRejectsBadResponses(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		content string
	}{
		{"non-2xx status", http.StatusTooManyRequests, ""},
		{"unparsable body", http.StatusOK, "I think you're doing great!"},
		{"unknown trend", http.StatusOK, `{"trend": "skyrocketing", "prediction": "x", "futureOutcome": "y", "suggestions": []}`},
		{"missing prediction", http.StatusOK, `{"trend": "stable", "prediction": "", "futureOutcome": "y", "suggestions": []}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &InsightService{
				client: &stubClient{status: tc.status, content: tc.content},
				apiKey: "test-key",
			}
			_, err := svc.requestProjection(context.Background(), habit.DomainFinance, sampleLogs(3))
			assert.Error(t, err)
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, stripCodeFences("  {\"a\":1}  "))
}
