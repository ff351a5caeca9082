// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/haarwerk/haarwerk/internal/middleware"
	"github.com/haarwerk/haarwerk/internal/services/chat"
)

type ChatHandler struct {
	stream        chat.StreamProvider
	conversations chat.ConversationProvider
}

func NewChatHandler(stream chat.StreamProvider, conversations chat.ConversationProvider) *ChatHandler {
	return &ChatHandler{
		stream:        stream,
		conversations: conversations,
	}
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID uint   `json:"conversation_id"`
	HasImage       bool   `json:"has_image"`
}

// sseEvent is one server-sent event payload.
type sseEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// StreamChat runs the advice pipeline for one user turn and streams the
// result as server-sent events.
func (h *ChatHandler) StreamChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, "Ungueltige Nachricht", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sendEvent := func(event sseEvent) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if _, err := w.Write([]byte("data: " + string(payload) + "\n\n")); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	err := h.stream.StreamResponse(r.Context(), &chat.StreamRequest{
		UserID:         userID,
		ConversationID: req.ConversationID,
		Message:        req.Message,
		HasImage:       req.HasImage,
	}, func(event chat.Event) error {
		switch event.Type {
		case chat.EventConversationID:
			return sendEvent(sseEvent{Type: "conversation_id", Data: event.ConversationID})
		case chat.EventDelta:
			return sendEvent(sseEvent{Type: "content_delta", Data: event.Delta})
		case chat.EventProducts:
			return sendEvent(sseEvent{Type: "product_recommendations", Data: event.Products})
		case chat.EventDone:
			return sendEvent(sseEvent{Type: "done", Data: map[string]interface{}{"intent": event.Intent}})
		}
		return nil
	})
	if err != nil {
		// Headers are already out; signal the failure in-band.
		_ = sendEvent(sseEvent{Type: "error", Data: map[string]string{"message": "Stream-Fehler aufgetreten"}})
	}
}

// CreateConversation opens an empty conversation for the user.
func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conv, err := h.conversations.CreateConversation(r.Context(), userID)
	if err != nil {
		writeError(w, "Could not create conversation", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

// GetConversations lists the user's conversations, most recent first.
func (h *ChatHandler) GetConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conversations, err := h.conversations.GetUserConversations(r.Context(), userID)
	if err != nil {
		writeError(w, "Could not retrieve conversations", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, conversations)
}

// GetConversationMessages returns the transcript of one conversation.
func (h *ChatHandler) GetConversationMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conversationID, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	messages, err := h.conversations.GetConversationMessages(r.Context(), userID, conversationID)
	if err != nil {
		writeError(w, "Could not retrieve messages", http.StatusForbidden)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// DeleteConversation removes a conversation and its messages.
func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conversationID, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	if err := h.conversations.DeleteConversation(r.Context(), userID, conversationID); err != nil {
		writeError(w, "Could not delete conversation", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	return uint(id), err
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
