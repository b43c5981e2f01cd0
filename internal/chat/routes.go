package chat

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the chat API under both prefixes the front-ends use:
// /chat for the standalone backend and /api/chat for the web app.
func RegisterRoutes(r chi.Router, h *Handler) {
	for _, prefix := range []string{"/chat", "/api/chat"} {
		r.Route(prefix, func(r chi.Router) {
			r.Post("/message", h.HandleMessage)
			r.Get("/history/{sessionId}", h.HandleHistory)
			r.Get("/history/", h.HandleHistory)
		})
	}
}
