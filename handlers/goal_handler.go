package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"codeGrindAPI/internal/goal"
	"codeGrindAPI/middleware"
	"codeGrindAPI/services"

	"github.com/gorilla/mux"
)

type GoalHandler struct {
	goalService *services.GoalService
}

func NewGoalHandler(goalService *services.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

func (h *GoalHandler) GetGoals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	goals, err := h.goalService.GetUserGoals(ctx, clerkID)
	if err != nil {
		log.Printf("GetGoals: %v", err)
		respondWithJSON(w, http.StatusOK, []struct{}{})
		return
	}

	respondWithJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req goal.CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	g, err := h.goalService.CreateGoal(ctx, clerkID, &req)
	if err != nil {
		log.Printf("CreateGoal: %v", err)
		respondWithError(w, statusFromError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, g)
}

func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	goalID := mux.Vars(r)["goalId"]

	var req goal.UpdateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	g, err := h.goalService.UpdateGoal(ctx, clerkID, goalID, &req)
	if err != nil {
		log.Printf("UpdateGoal: %v", err)
		respondWithError(w, statusFromError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, g)
}
