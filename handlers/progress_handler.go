package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"codeGrindAPI/internal/progress"
	"codeGrindAPI/middleware"
	"codeGrindAPI/services"
)

type ProgressHandler struct {
	progressService *services.ProgressService
}

func NewProgressHandler(progressService *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// GetProgress returns the problemId -> solved map for the authenticated user.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	progressMap, err := h.progressService.GetProgressMap(ctx, clerkID)
	if err != nil {
		// Progress is display data; degrade to an empty map so the problem
		// list still renders.
		log.Printf("GetProgress: %v", err)
		respondWithJSON(w, http.StatusOK, map[string]bool{})
		return
	}

	respondWithJSON(w, http.StatusOK, progressMap)
}

// ToggleProgress is the write path: all errors surface to the caller.
func (h *ProgressHandler) ToggleProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req progress.ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, err := h.progressService.Toggle(ctx, clerkID, req.ProblemID, req.Solved)
	if err != nil {
		log.Printf("ToggleProgress: %v", err)
		respondWithError(w, statusFromError(err), err.Error())
		return
	}

	middleware.CountToggle(record.Solved)
	respondWithJSON(w, http.StatusOK, record)
}
