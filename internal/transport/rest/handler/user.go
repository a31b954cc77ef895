package handler

import (
	"errors"
	"net/http"

	"quizarena/internal/service"
	"quizarena/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// UserHandler handles profile, history, and leaderboard endpoints
type UserHandler struct {
	userSvc *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userSvc *service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Profile handles GET /v1/users/me
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	stats, err := h.userSvc.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// History handles GET /v1/users/me/history
func (h *UserHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entries, err := h.userSvc.GetHistory(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"history": entries})
}

// GlobalLeaderboard handles GET /v1/leaderboard
func (h *UserHandler) GlobalLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.userSvc.GlobalLeaderboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}

// QuizLeaderboard handles GET /v1/quizzes/{quizId}/leaderboard
func (h *UserHandler) QuizLeaderboard(w http.ResponseWriter, r *http.Request) {
	quizID := mux.Vars(r)["quizId"]

	entries, err := h.userSvc.QuizLeaderboard(r.Context(), quizID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}
