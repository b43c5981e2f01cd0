package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Vovarama1992/support-chat-relay/internal/ai"
)

const MaxMessageLength = 5000

type Handler struct {
	svc      Service
	validate *validator.Validate
}

func NewHandler(svc Service) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type messageRequest struct {
	Message   string  `json:"message" validate:"required,min=1,max=5000"`
	SessionID *string `json:"sessionId,omitempty"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details []any  `json:"details,omitempty"`
}

type fieldIssue struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// HandleMessage — POST /chat/message
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var payload messageRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Invalid input",
			Details: []any{fieldIssue{Field: "body", Rule: "json"}},
		})
		return
	}

	if err := h.validate.Struct(payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Invalid input",
			Details: validationDetails(err),
		})
		return
	}

	var sessionID string
	if payload.SessionID != nil {
		sessionID = *payload.SessionID
	}

	// once accepted, a turn runs to completion even if the client goes away
	ctx := context.WithoutCancel(r.Context())

	reply, err := h.svc.HandleMessage(ctx, payload.Message, sessionID)
	if err != nil {
		status, resp := classifyFailure(err)
		log.Error().Err(err).Str("component", "http").Int("status", status).Msg("chat error")
		writeJSON(w, status, resp)
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

// HandleHistory — GET /chat/history/{sessionId}
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(chi.URLParam(r, "sessionId"))
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Session ID is required"})
		return
	}

	messages, err := h.svc.History(r.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Str("component", "http").Str("conversation_id", sessionID).Msg("history error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Failed to fetch conversation history",
			Message: "An error occurred while fetching the conversation history.",
		})
		return
	}
	if messages == nil {
		messages = []Message{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

// classifyFailure turns a pipeline error into the status and sanitized body
// seen by the caller.
func classifyFailure(err error) (int, errorResponse) {
	kind, _ := ai.KindOf(err)
	switch kind {
	case ai.KindNotConfigured, ai.KindAuth:
		return http.StatusInternalServerError, errorResponse{
			Error:   "AI service configuration error",
			Message: "Please check the AI service configuration",
		}
	case ai.KindRateLimit:
		return http.StatusTooManyRequests, errorResponse{
			Error:   "Rate limit exceeded",
			Message: "Too many requests. Please try again later.",
		}
	case ai.KindSafetyBlocked, ai.KindEmptyReply, ai.KindGeneration:
		return http.StatusInternalServerError, errorResponse{
			Error:   "Failed to process message",
			Message: "We couldn't generate a reply to that message. Please try rephrasing your question.",
		}
	}
	return http.StatusInternalServerError, errorResponse{
		Error:   "Failed to process message",
		Message: "An error occurred while processing your message. Please try again.",
	}
}

func validationDetails(err error) []any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []any{fieldIssue{Field: "body", Rule: "invalid"}}
	}
	out := make([]any, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldIssue{
			Field: jsonFieldName(fe.StructField()),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

func jsonFieldName(structField string) string {
	switch structField {
	case "Message":
		return "message"
	case "SessionID":
		return "sessionId"
	}
	return structField
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Str("component", "http").Msg("write response")
	}
}
