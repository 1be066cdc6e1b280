package chat

import (
	"net/http"

	"github.com/ryantanww/MovAI/auth"
)

// MessageRequest is the body of POST /api/chat.
type MessageRequest struct {
	Message string `json:"message" example:"Find me some action movies."`
}

// ChatHandlers exposes ChatService over HTTP.
type ChatHandlers struct {
	service *ChatService
}

// NewChatHandlers creates the HTTP handlers for the chat assistant.
func NewChatHandlers(service *ChatService) *ChatHandlers {
	return &ChatHandlers{service: service}
}

// HandleMessage godoc
// @Summary Ask the movie assistant
// @Description Classifies the message and replies with up to three movies, or a fallback line.
// @Tags Chat
// @Accept json
// @Produce json
// @Param body body chat.MessageRequest true "User message"
// @Success 200 {array} chat.Reply
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 502 {object} apperror.ErrorResponse
// @Router /chat [post]
func (h *ChatHandlers) HandleMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MessageRequest
		if err := auth.DecodeJSON(w, r, &req); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		replies, err := h.service.Respond(r.Context(), req.Message)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, replies)
	}
}

// HandleSuggestions godoc
// @Summary Suggested prompts
// @Tags Chat
// @Produce json
// @Success 200 {array} string
// @Router /chat/suggestions [get]
func (h *ChatHandlers) HandleSuggestions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth.WriteJSON(w, http.StatusOK, h.service.Suggestions())
	}
}
