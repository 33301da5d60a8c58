package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	sessionService "github.com/linqiu/chronicle/backend/internal/service/session"
	"github.com/linqiu/chronicle/backend/pkg/utils"
)

// Handler serves session lifecycle endpoints.
type Handler struct {
	store *sessionService.Store
}

// New creates the session handler.
func New(store *sessionService.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes attaches session routes to the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions", h.handleList)
	r.Get("/sessions/{sessionID}/info", h.handleInfo)
	r.Delete("/sessions/{sessionID}", h.handleDelete)
	r.Post("/sessions/{sessionID}/clear-history", h.handleClearHistory)
}

type sessionInfoResponse struct {
	SessionID    string `json:"session_id"`
	MessageCount int    `json:"message_count"`
	CreatedAt    string `json:"created_at"`
}

func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := h.store.Get(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, fmt.Sprintf("session %q not found", sessionID))
		return
	}

	utils.RespondJSON(w, http.StatusOK, sessionInfoResponse{
		SessionID:    sess.ID,
		MessageCount: h.store.MessageCount(r.Context(), sess.ID),
		CreatedAt:    sess.CreatedAt.Format(time.RFC3339),
	})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.store.Delete(r.Context(), sessionID); err != nil {
		if errors.Is(err, sessionService.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, fmt.Sprintf("session %q not found", sessionID))
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %q deleted successfully", sessionID),
	})
}

func (h *Handler) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.store.Clear(r.Context(), sessionID); err != nil {
		if errors.Is(err, sessionService.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, fmt.Sprintf("session %q not found", sessionID))
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Chat history cleared for session %q", sessionID),
	})
}

type sessionListResponse struct {
	Sessions []sessionListItem `json:"sessions"`
	Count    int               `json:"count"`
}

type sessionListItem struct {
	SessionID    string `json:"session_id"`
	MessageCount int    `json:"message_count"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	summaries := h.store.List(r.Context())

	items := make([]sessionListItem, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, sessionListItem{
			SessionID:    summary.SessionID,
			MessageCount: summary.MessageCount,
		})
	}

	utils.RespondJSON(w, http.StatusOK, sessionListResponse{
		Sessions: items,
		Count:    len(items),
	})
}
