package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"quizarena/internal/model"
	"quizarena/internal/service"
)

// EggHandler handles the easter-egg finder endpoint
type EggHandler struct {
	generator *service.GeneratorService
}

// NewEggHandler creates a new easter-egg handler
func NewEggHandler(generator *service.GeneratorService) *EggHandler {
	return &EggHandler{generator: generator}
}

// Dispatch handles POST /v1/egg, routing on the action field
func (h *EggHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req model.EggRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Action {
	case model.EggActionFind:
		result, err := h.generator.FindEgg(r.Context(), req.Query)
		if err != nil {
			writeEggError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)

	case model.EggActionExplain:
		text, err := h.generator.ExplainEgg(r.Context(), req.Context)
		if err != nil {
			writeEggError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, model.EggTextResult{Text: text})

	case model.EggActionWhatIf:
		text, err := h.generator.WhatIf(r.Context(), req.Context)
		if err != nil {
			writeEggError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, model.EggTextResult{Text: text})

	case model.EggActionListen:
		audio, err := h.generator.Speak(r.Context(), req.Context)
		if err != nil {
			writeEggError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, model.EggAudioResult{Audio: audio})

	default:
		writeError(w, http.StatusBadRequest, "Invalid action specified.")
	}
}

func writeEggError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrMalformedGeneration) {
		writeError(w, http.StatusBadGateway, "An internal server error occurred.")
		return
	}
	writeError(w, http.StatusInternalServerError, "An internal server error occurred.")
}
