package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"quizarena/internal/service"
)

// ScoreHandler handles score submission
type ScoreHandler struct {
	scoreSvc *service.ScoreService
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(scoreSvc *service.ScoreService) *ScoreHandler {
	return &ScoreHandler{scoreSvc: scoreSvc}
}

// SaveScoreRequest is the request body for score submission. Score is a
// pointer so an absent field can be told apart from a legitimate zero.
type SaveScoreRequest struct {
	QuizID   string `json:"quizId"`
	Score    *int   `json:"score"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// Save handles POST /v1/scores
func (h *ScoreHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Required fields are checked before any read or write.
	if req.QuizID == "" || req.UserID == "" || req.Score == nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	err := h.scoreSvc.RecordScore(r.Context(), req.QuizID, req.UserID, *req.Score, req.UserName)
	if err != nil {
		if errors.Is(err, service.ErrInvalidScore) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save quiz")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
