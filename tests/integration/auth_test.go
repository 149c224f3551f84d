package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futureYouAPI/handlers"
	modelUser "futureYouAPI/internal/user"
	"futureYouAPI/services"
	"futureYouAPI/tests/helpers"
)

// TestRegisterAndLogin walks the whole credential flow: register with a
// baseline assessment, confirm the seeded standing, then log in again.
func TestRegisterAndLogin(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	os.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")
	defer os.Unsetenv("JWT_SECRET")

	userService := services.NewUserService(pool)
	authHandler := handlers.NewAuthHandler(userService)

	email := fmt.Sprintf("test+auth%s@example.com", time.Now().Format("20060102150405"))

	t.Log("Step 1: Register with baseline ratings")

	registerBody, _ := json.Marshal(map[string]interface{}{
		"name":     "Test Auth",
		"email":    email,
		"password": "password123",
		"ratings":  helpers.FullRatings(4),
	})
	req1 := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(registerBody))
	req1.Header.Set("Content-Type", "application/json")
	rr1 := httptest.NewRecorder()

	authHandler.Register(rr1, req1)
	require.Equal(t, http.StatusCreated, rr1.Code, rr1.Body.String())

	var registered modelUser.AuthResponse
	require.NoError(t, json.Unmarshal(rr1.Body.Bytes(), &registered))
	assert.NotEmpty(t, registered.Token)
	// Six domains rated 4 seed 240 points, which is level 3 and rank Novice.
	assert.Equal(t, 240, registered.User.Points)
	assert.Equal(t, 3, registered.User.Level)
	assert.Equal(t, "Novice", registered.User.Rank)
	assert.Equal(t, 0, registered.User.CurrentStreak)

	t.Log("Step 2: Duplicate email is rejected")

	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(registerBody))
	rr2 := httptest.NewRecorder()
	authHandler.Register(rr2, req2)
	assert.Equal(t, http.StatusBadRequest, rr2.Code)

	t.Log("Step 3: Login with the right password")

	loginBody, _ := json.Marshal(map[string]string{"email": email, "password": "password123"})
	req3 := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(loginBody))
	rr3 := httptest.NewRecorder()

	authHandler.Login(rr3, req3)
	require.Equal(t, http.StatusOK, rr3.Code)

	var loggedIn modelUser.AuthResponse
	require.NoError(t, json.Unmarshal(rr3.Body.Bytes(), &loggedIn))
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
	assert.NotEmpty(t, loggedIn.Token)

	t.Log("Step 4: Login with a wrong password fails")

	badBody, _ := json.Marshal(map[string]string{"email": email, "password": "wrong-password"})
	req4 := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(badBody))
	rr4 := httptest.NewRecorder()

	authHandler.Login(rr4, req4)
	assert.Equal(t, http.StatusUnauthorized, rr4.Code)
}

func TestRegisterValidation(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	os.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")
	defer os.Unsetenv("JWT_SECRET")

	userService := services.NewUserService(pool)
	authHandler := handlers.NewAuthHandler(userService)

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{
			name: "missing rating key",
			body: map[string]interface{}{
				"name": "Test Bad", "email": "test+bad1@example.com", "password": "password123",
				"ratings": map[string]int{"physical": 3},
			},
		},
		{
			name: "rating out of range",
			body: map[string]interface{}{
				"name": "Test Bad", "email": "test+bad2@example.com", "password": "password123",
				"ratings": func() map[string]int {
					r := helpers.FullRatings(3)
					r["finance"] = 6
					return r
				}(),
			},
		},
		{
			name: "short password",
			body: map[string]interface{}{
				"name": "Test Bad", "email": "test+bad3@example.com", "password": "abc",
				"ratings": helpers.FullRatings(3),
			},
		},
		{
			name: "bad email",
			body: map[string]interface{}{
				"name": "Test Bad", "email": "not-an-email", "password": "password123",
				"ratings": helpers.FullRatings(3),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(tc.body)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
			rr := httptest.NewRecorder()

			authHandler.Register(rr, req)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}
