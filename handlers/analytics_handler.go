package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"futureYouAPI/services"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

func (h *AnalyticsHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := currentUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			respondWithError(w, http.StatusBadRequest, "Invalid days parameter")
			return
		}
		days = parsed
	}

	report, err := h.analyticsService.GetReport(ctx, userID, days)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}
