package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linqiu/chronicle/backend/internal/inference"
	chatService "github.com/linqiu/chronicle/backend/internal/service/chat"
	"github.com/linqiu/chronicle/backend/pkg/utils"
)

// Handler serves the chat and health endpoints.
type Handler struct {
	chatSvc *chatService.Service
}

// New creates the chat handler.
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes attaches chat routes to the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/health", h.handleHealth)
}

type chatRequest struct {
	Prompt    string `json:"prompt"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(payload.Prompt) > utils.MaxPromptLength {
		utils.RespondError(w, http.StatusBadRequest, "prompt exceeds maximum length of 5000 characters")
		return
	}

	prompt := utils.SanitizePrompt(payload.Prompt)
	if prompt == "" {
		utils.RespondError(w, http.StatusBadRequest, "prompt cannot be empty or whitespace")
		return
	}

	if !utils.ValidSessionID(payload.SessionID) {
		utils.RespondError(w, http.StatusBadRequest, "session_id must be at least 5 characters of letters, digits, underscores or hyphens")
		return
	}

	log.Printf("[chat] request session=%s prompt=%q", payload.SessionID, utils.TruncateText(prompt, 100))

	answer, err := h.chatSvc.Chat(r.Context(), prompt, payload.SessionID)
	if err != nil {
		if errors.Is(err, inference.ErrNotReady) {
			utils.RespondError(w, http.StatusServiceUnavailable, "model is not loaded, check server logs")
			return
		}
		log.Printf("[chat] generation error for session=%s: %v", payload.SessionID, err)
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, chatResponse{
		Answer:    answer,
		SessionID: payload.SessionID,
	})
}

type healthResponse struct {
	Status         string `json:"status"`
	ModelName      string `json:"model_name"`
	ModelStatus    string `json:"model_status"`
	ActiveSessions int    `json:"active_sessions"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:         "healthy",
		ModelName:      h.chatSvc.ModelName(),
		ModelStatus:    "connected",
		ActiveSessions: h.chatSvc.Store().Count(r.Context()),
	}

	if !h.chatSvc.Ready() {
		resp.Status = "degraded"
		resp.ModelStatus = "disconnected"
		utils.RespondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	utils.RespondJSON(w, http.StatusOK, resp)
}
