package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futureYouAPI/handlers"
	"futureYouAPI/internal/habit"
	"futureYouAPI/internal/leaderboard"
	"futureYouAPI/internal/stats"
	"futureYouAPI/internal/task"
	"futureYouAPI/middleware"
	"futureYouAPI/services"
	"futureYouAPI/tests/helpers"
)

func authedRequest(method, target string, body []byte, userID string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func muxSetVars(r *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(r, vars)
}

// TestFullHabitFlow simulates a user's day: register, log a habit, watch
// points and streak move, knock out a task, then check the leaderboard.
func TestFullHabitFlow(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userService := services.NewUserService(pool)
	habitService := services.NewHabitService(pool)
	taskService := services.NewTaskService(pool)

	userHandler := handlers.NewUserHandler(userService)
	habitHandler := handlers.NewHabitHandler(habitService)
	taskHandler := handlers.NewTaskHandler(taskService)

	tag := time.Now().Format("20060102150405")
	u := helpers.RegisterTestUser(t, userService, "flow"+tag)
	userID := u.ID.String()
	startingPoints := u.Points

	t.Log("Step 1: Submit a strong physical health day")

	logBody, _ := json.Marshal(map[string]interface{}{
		"domain": "Physical Health",
		"metrics": map[string]interface{}{
			"sleepHours":      8,
			"exerciseMinutes": 45,
			"foodQuality":     9,
		},
	})
	rr1 := httptest.NewRecorder()
	habitHandler.SubmitLog(rr1, authedRequest(http.MethodPost, "/api/v1/habits", logBody, userID))
	require.Equal(t, http.StatusCreated, rr1.Code, rr1.Body.String())

	var submitted habit.SubmitLogResponse
	require.NoError(t, json.Unmarshal(rr1.Body.Bytes(), &submitted))
	// 8h sleep, 45min exercise and food 9 score 15 each.
	assert.Equal(t, 45, submitted.XPAwarded)
	assert.Equal(t, startingPoints+45, submitted.Points)
	assert.Equal(t, 1, submitted.CurrentStreak)
	assert.Equal(t, 1, submitted.LongestStreak)

	t.Log("Step 2: A second log the same day adds XP but not streak")

	moodBody, _ := json.Marshal(map[string]interface{}{
		"domain":  "Mental Health",
		"metrics": map[string]interface{}{"mood": 7},
	})
	rr2 := httptest.NewRecorder()
	habitHandler.SubmitLog(rr2, authedRequest(http.MethodPost, "/api/v1/habits", moodBody, userID))
	require.Equal(t, http.StatusCreated, rr2.Code)

	var second habit.SubmitLogResponse
	require.NoError(t, json.Unmarshal(rr2.Body.Bytes(), &second))
	assert.Equal(t, 10, second.XPAwarded)
	assert.Equal(t, 1, second.CurrentStreak, "same-day log must not grow the streak")

	t.Log("Step 3: Create and complete a hard task")

	taskBody, _ := json.Marshal(map[string]string{
		"title":      "Ship the report",
		"difficulty": "hard",
	})
	rr3 := httptest.NewRecorder()
	taskHandler.CreateTask(rr3, authedRequest(http.MethodPost, "/api/v1/tasks", taskBody, userID))
	require.Equal(t, http.StatusCreated, rr3.Code)

	var created task.Task
	require.NoError(t, json.Unmarshal(rr3.Body.Bytes(), &created))
	assert.Equal(t, 15, created.XPRewarded)

	completeURL := fmt.Sprintf("/api/v1/tasks/%s/complete", created.ID)
	rr4 := httptest.NewRecorder()
	req4 := authedRequest(http.MethodPost, completeURL, nil, userID)
	req4 = muxSetVars(req4, map[string]string{"id": created.ID.String()})
	taskHandler.CompleteTask(rr4, req4)
	require.Equal(t, http.StatusOK, rr4.Code, rr4.Body.String())

	var completed task.CompleteTaskResponse
	require.NoError(t, json.Unmarshal(rr4.Body.Bytes(), &completed))
	assert.Equal(t, 15, completed.XPAwarded)
	assert.Equal(t, startingPoints+45+10+15, completed.Points)

	t.Log("Step 4: Completing the same task again pays nothing")

	rr5 := httptest.NewRecorder()
	req5 := authedRequest(http.MethodPost, completeURL, nil, userID)
	req5 = muxSetVars(req5, map[string]string{"id": created.ID.String()})
	taskHandler.CompleteTask(rr5, req5)
	assert.Equal(t, http.StatusConflict, rr5.Code)

	t.Log("Step 5: Stats reflect the day")

	rr6 := httptest.NewRecorder()
	userHandler.GetStats(rr6, authedRequest(http.MethodGet, "/api/v1/user/stats", nil, userID))
	require.Equal(t, http.StatusOK, rr6.Code)

	var st stats.UserStats
	require.NoError(t, json.Unmarshal(rr6.Body.Bytes(), &st))
	assert.Equal(t, 2, st.TotalLogs)
	assert.True(t, st.LoggedToday)
	assert.Equal(t, 1, st.TasksCompleted)

	t.Log("Step 6: The user shows up on the leaderboard")

	rr7 := httptest.NewRecorder()
	userHandler.GetLeaderboard(rr7, authedRequest(http.MethodGet, "/api/v1/user/leaderboard", nil, userID))
	require.Equal(t, http.StatusOK, rr7.Code)

	var board leaderboard.Leaderboard
	require.NoError(t, json.Unmarshal(rr7.Body.Bytes(), &board))
	require.NotNil(t, board.UserPosition)
	assert.Equal(t, u.ID, board.UserPosition.UserID)
	assert.Greater(t, board.TotalUsers, 0)
}
