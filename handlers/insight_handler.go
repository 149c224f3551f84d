package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"futureYouAPI/internal/insight"
	"futureYouAPI/services"
)

type InsightHandler struct {
	insightService *services.InsightService
}

func NewInsightHandler(insightService *services.InsightService) *InsightHandler {
	return &InsightHandler{
		insightService: insightService,
	}
}

// Generate calls the model, so it gets a longer deadline than the usual
// database-bound handlers.
func (h *InsightHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 45*time.Second)
	defer cancel()

	userID, ok := currentUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req insight.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sim, err := h.insightService.Generate(ctx, userID, req.Domain)
	if err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "unknown domain"):
			respondWithError(w, http.StatusBadRequest, msg)
		case strings.Contains(msg, "not enough data"):
			respondWithError(w, http.StatusUnprocessableEntity, msg)
		case strings.Contains(msg, "not configured"):
			respondWithError(w, http.StatusServiceUnavailable, msg)
		default:
			respondWithError(w, http.StatusBadGateway, "Insight generation failed")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, sim)
}

func (h *InsightHandler) ListSimulations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := currentUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	sims, err := h.insightService.ListSimulations(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get insights")
		return
	}

	respondWithJSON(w, http.StatusOK, sims)
}

func (h *InsightHandler) DeleteSimulation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := currentUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	simID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid simulation id")
		return
	}

	if err := h.insightService.DeleteSimulation(ctx, userID, simID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			respondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to delete insight")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Insight deleted"})
}

func (h *InsightHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := currentUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.insightService.ClearHistory(ctx, userID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to clear insights")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Insight history cleared"})
}
