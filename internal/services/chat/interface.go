// File: internal/services/chat/interface.go
package chat

import (
	"context"

	"github.com/haarwerk/haarwerk/internal/domain"
	"github.com/haarwerk/haarwerk/internal/services/intent"
	"github.com/haarwerk/haarwerk/internal/services/retrieval"
)

// IntentClassifier classifies a raw user message.
type IntentClassifier interface {
	Classify(ctx context.Context, message string, hasImage bool) intent.Result
}

// ContextRetriever fetches knowledge chunks for a query.
type ContextRetriever interface {
	RetrieveContext(ctx context.Context, query string, opts retrieval.RetrieveOptions) []retrieval.RetrievedChunk
}

// ProductMatcher finds catalog products for a query.
type ProductMatcher interface {
	MatchProducts(ctx context.Context, query string, params retrieval.MatchParams) []retrieval.MatchedProduct
}

// MemoryDispatcher triggers background memory extraction.
type MemoryDispatcher interface {
	Dispatch(conversationID, userID uint)
}

// TitleDispatcher triggers background title generation.
type TitleDispatcher interface {
	Dispatch(conversationID uint, firstMessage string)
}

// ConversationProvider handles conversation lifecycle operations.
type ConversationProvider interface {
	CreateConversation(ctx context.Context, userID uint) (*domain.Conversation, error)
	GetUserConversations(ctx context.Context, userID uint) ([]domain.Conversation, error)
	GetConversationMessages(ctx context.Context, userID, conversationID uint) ([]domain.Message, error)
	DeleteConversation(ctx context.Context, userID, conversationID uint) error
}

// StreamProvider runs the advice pipeline and streams the reply.
type StreamProvider interface {
	StreamResponse(ctx context.Context, req *StreamRequest, onEvent func(Event) error) error
}

// Service combines all chat capabilities
type Service interface {
	ConversationProvider
	StreamProvider
}
