// File: internal/handlers/chat_handler_test.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haarwerk/haarwerk/internal/domain"
	"github.com/haarwerk/haarwerk/internal/middleware"
	"github.com/haarwerk/haarwerk/internal/services/chat"
)

type fakeStream struct {
	events  []chat.Event
	err     error
	lastReq *chat.StreamRequest
}

func (f *fakeStream) StreamResponse(ctx context.Context, req *chat.StreamRequest, onEvent func(chat.Event) error) error {
	f.lastReq = req
	for _, event := range f.events {
		if err := onEvent(event); err != nil {
			return err
		}
	}
	return f.err
}

type fakeConversations struct {
	conversations []domain.Conversation
	messages      []domain.Message
	err           error
	deleted       []uint
}

func (f *fakeConversations) CreateConversation(ctx context.Context, userID uint) (*domain.Conversation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Conversation{ID: 9, UserID: userID}, nil
}

func (f *fakeConversations) GetUserConversations(ctx context.Context, userID uint) ([]domain.Conversation, error) {
	return f.conversations, f.err
}

func (f *fakeConversations) GetConversationMessages(ctx context.Context, userID, conversationID uint) ([]domain.Message, error) {
	return f.messages, f.err
}

func (f *fakeConversations) DeleteConversation(ctx context.Context, userID, conversationID uint) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, conversationID)
	return nil
}

func authed(req *http.Request, userID uint) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

// sseEvents parses the "data: ..." lines of an SSE body.
func sseEvents(t *testing.T, body string) []sseEvent {
	t.Helper()
	var events []sseEvent
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var event sseEvent
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event))
		events = append(events, event)
	}
	return events
}

func TestStreamChatEventOrder(t *testing.T) {
	stream := &fakeStream{events: []chat.Event{
		{Type: chat.EventConversationID, ConversationID: 7},
		{Type: chat.EventDelta, Delta: "Hallo "},
		{Type: chat.EventDelta, Delta: "Schatz!"},
		{Type: chat.EventDone, Intent: "general_chat"},
	}}
	handler := NewChatHandler(stream, &fakeConversations{})

	body := strings.NewReader(`{"message":"Hi","conversation_id":7}`)
	req := authed(httptest.NewRequest("POST", "/api/chat", body), 3)
	rec := httptest.NewRecorder()

	handler.StreamChat(rec, req)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	require.NotNil(t, stream.lastReq)
	assert.Equal(t, uint(3), stream.lastReq.UserID)
	assert.Equal(t, uint(7), stream.lastReq.ConversationID)

	events := sseEvents(t, rec.Body.String())
	require.Len(t, events, 4)
	assert.Equal(t, "conversation_id", events[0].Type)
	assert.Equal(t, "content_delta", events[1].Type)
	assert.Equal(t, "Hallo ", events[1].Data)
	assert.Equal(t, "content_delta", events[2].Type)
	assert.Equal(t, "done", events[3].Type)
}

func TestStreamChatPipelineFailureIsInBand(t *testing.T) {
	stream := &fakeStream{
		events: []chat.Event{{Type: chat.EventConversationID, ConversationID: 7}},
		err:    errors.New("stream broke"),
	}
	handler := NewChatHandler(stream, &fakeConversations{})

	body := strings.NewReader(`{"message":"Hi"}`)
	req := authed(httptest.NewRequest("POST", "/api/chat", body), 3)
	rec := httptest.NewRecorder()

	handler.StreamChat(rec, req)

	events := sseEvents(t, rec.Body.String())
	require.Len(t, events, 2)
	assert.Equal(t, "error", events[1].Type)
}

func TestStreamChatRejectsEmptyMessage(t *testing.T) {
	handler := NewChatHandler(&fakeStream{}, &fakeConversations{})

	req := authed(httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":""}`)), 3)
	rec := httptest.NewRecorder()

	handler.StreamChat(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStreamChatRequiresIdentity(t *testing.T) {
	handler := NewChatHandler(&fakeStream{}, &fakeConversations{})

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"Hi"}`))
	rec := httptest.NewRecorder()

	handler.StreamChat(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateConversation(t *testing.T) {
	handler := NewChatHandler(&fakeStream{}, &fakeConversations{})

	req := authed(httptest.NewRequest("POST", "/api/conversations", nil), 3)
	rec := httptest.NewRecorder()

	handler.CreateConversation(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var conv domain.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))
	assert.Equal(t, uint(3), conv.UserID)
}

func TestGetConversations(t *testing.T) {
	store := &fakeConversations{conversations: []domain.Conversation{
		{ID: 2, UserID: 3, Title: "Tipps gegen Spliss"},
		{ID: 1, UserID: 3},
	}}
	handler := NewChatHandler(&fakeStream{}, store)

	req := authed(httptest.NewRequest("GET", "/api/conversations", nil), 3)
	rec := httptest.NewRecorder()

	handler.GetConversations(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var conversations []domain.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conversations))
	assert.Len(t, conversations, 2)
}

func TestDeleteConversation(t *testing.T) {
	store := &fakeConversations{}
	handler := NewChatHandler(&fakeStream{}, store)

	req := authed(httptest.NewRequest("DELETE", "/api/conversations/5", nil), 3)
	req = mux.SetURLVars(req, map[string]string{"id": "5"})
	rec := httptest.NewRecorder()

	handler.DeleteConversation(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []uint{5}, store.deleted)
}

func TestGetConversationMessagesOwnershipFailure(t *testing.T) {
	store := &fakeConversations{err: errors.New("conversation not found or unauthorized")}
	handler := NewChatHandler(&fakeStream{}, store)

	req := authed(httptest.NewRequest("GET", "/api/conversations/5/messages", nil), 3)
	req = mux.SetURLVars(req, map[string]string{"id": "5"})
	rec := httptest.NewRecorder()

	handler.GetConversationMessages(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
