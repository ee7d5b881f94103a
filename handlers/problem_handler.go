package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"codeGrindAPI/internal/problem"
	"codeGrindAPI/middleware"
	"codeGrindAPI/services"

	"github.com/google/uuid"
)

type ProblemHandler struct {
	problemService *services.ProblemService
	userService    *services.UserService
}

func NewProblemHandler(problemService *services.ProblemService, userService *services.UserService) *ProblemHandler {
	return &ProblemHandler{
		problemService: problemService,
		userService:    userService,
	}
}

// GetProblems lists the catalog with the caller's progress attached. Filters
// come from query parameters: difficulty, pattern, status, search.
func (h *ProblemHandler) GetProblems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	u, err := h.userService.GetOrCreateUser(ctx, clerkID)
	if err != nil {
		log.Printf("GetProblems: %v", err)
		respondWithError(w, statusFromError(err), "Failed to resolve user")
		return
	}
	userUUID, err := uuid.Parse(u.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Invalid user ID")
		return
	}

	q := r.URL.Query()
	filters := problem.Filters{
		Search:     q.Get("search"),
		Difficulty: q.Get("difficulty"),
		Pattern:    q.Get("pattern"),
		Status:     q.Get("status"),
	}

	problems, err := h.problemService.FindWithProgress(ctx, userUUID, filters)
	if err != nil {
		log.Printf("GetProblems: %v", err)
		respondWithError(w, statusFromError(err), "Failed to fetch problems")
		return
	}

	respondWithJSON(w, http.StatusOK, problems)
}
