package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"quizarena/internal/service"
	"quizarena/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// QuizHandler handles quiz retrieval/generation endpoints
type QuizHandler struct {
	quizSvc *service.QuizService
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(quizSvc *service.QuizService) *QuizHandler {
	return &QuizHandler{quizSvc: quizSvc}
}

// GenerateRequest is the request body for quiz generation. The userId
// field is accepted for compatibility but the token identity wins.
type GenerateRequest struct {
	UserID string `json:"userId"`
}

// GenerateResponse is the quiz payload served to the player UI.
type GenerateResponse struct {
	Quiz   interface{} `json:"quiz"`
	QuizID string      `json:"quizId"`
	Reused bool        `json:"reused"`
}

// Generate handles POST /v1/quizzes/generate
func (h *QuizHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if r.Body != nil {
		var req GenerateRequest
		// Body is optional; ignore decode errors for an empty body
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	quiz, reused, err := h.quizSvc.GetQuizForUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrGenerationFailed) || errors.Is(err, service.ErrGeneratorUnavailable) {
			writeError(w, http.StatusBadGateway, "failed to generate quiz")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load quiz")
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{
		Quiz:   quiz.Questions,
		QuizID: quiz.ID,
		Reused: reused,
	})
}

// Get handles GET /v1/quizzes/{quizId} (shared-quiz links)
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	quizID := mux.Vars(r)["quizId"]

	quiz, err := h.quizSvc.GetQuiz(r.Context(), quizID)
	if err != nil {
		if errors.Is(err, service.ErrQuizNotFound) {
			writeError(w, http.StatusNotFound, "quiz not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load quiz")
		return
	}

	writeJSON(w, http.StatusOK, quiz)
}
