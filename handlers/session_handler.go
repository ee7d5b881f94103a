package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"codeGrindAPI/internal/studysession"
	"codeGrindAPI/middleware"
	"codeGrindAPI/services"
)

type SessionHandler struct {
	sessionService *services.StudySessionService
}

func NewSessionHandler(sessionService *services.StudySessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func (h *SessionHandler) LogSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req studysession.LogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.sessionService.LogSession(ctx, clerkID, &req)
	if err != nil {
		log.Printf("LogSession: %v", err)
		respondWithError(w, statusFromError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, session)
}
