package handler

import (
	"encoding/json"
	"net/http"

	"student-coach/internal/domain"
	"student-coach/internal/usecase"
)

type chatRequest struct {
	Message string                  `json:"message"`
	UserID  string                  `json:"userId"`
	Page    string                  `json:"page"`
	Context *domain.ContextSnapshot `json:"context"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, r, "malformed_body")
		return
	}

	out, err := h.coach.Chat(r.Context(), usecase.ChatInput{
		Message: req.Message,
		UserID:  req.UserID,
		Page:    req.Page,
		Context: req.Context,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: out.Reply})
}
