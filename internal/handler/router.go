package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/linqiu/chronicle/backend/internal/handler/chat"
	sessionHandler "github.com/linqiu/chronicle/backend/internal/handler/session"
	middlewarePkg "github.com/linqiu/chronicle/backend/internal/middleware"
	chatService "github.com/linqiu/chronicle/backend/internal/service/chat"
	"github.com/linqiu/chronicle/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatService.Service, corsOrigin string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(corsOrigin))

	chatH := chatHandler.New(chatSvc)
	sessionH := sessionHandler.New(chatSvc.Store())

	// Service banner
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"message": "Welcome to Chronicle Chatbot API",
			"version": "1.0.0",
			"model":   chatSvc.ModelName(),
			"health":  "/api/v1/health",
		})
	})

	r.Route("/api/v1", func(api chi.Router) {
		chatH.RegisterRoutes(api)
		sessionH.RegisterRoutes(api)
	})

	return r
}
