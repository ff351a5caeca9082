// File: internal/services/chat/pipeline.go
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/haarwerk/haarwerk/internal/domain"
	"github.com/haarwerk/haarwerk/internal/repository/conversation"
	"github.com/haarwerk/haarwerk/internal/repository/message"
	"github.com/haarwerk/haarwerk/internal/repository/profile"
	"github.com/haarwerk/haarwerk/internal/services/ai"
	"github.com/haarwerk/haarwerk/internal/services/intent"
	"github.com/haarwerk/haarwerk/internal/services/retrieval"
)

// Local timeouts for each external call inside the pipeline.
const (
	llmStreamTimeout = 60 * time.Second
	dbSaveTimeout    = 5 * time.Second
)

// productIntents are the intents that trigger product matching.
var productIntents = map[intent.Intent]bool{
	intent.IntentProductRecommendation: true,
	intent.IntentRoutineHelp:           true,
	intent.IntentHairCareAdvice:        true,
}

// EventType identifies a pipeline stream event.
type EventType string

const (
	EventConversationID EventType = "conversation_id"
	EventDelta          EventType = "content_delta"
	EventProducts       EventType = "product_recommendations"
	EventDone           EventType = "done"
)

// Event is one unit of the streamed pipeline output.
type Event struct {
	Type EventType
	// Delta carries the token text for EventDelta events.
	Delta string
	// ConversationID is set for EventConversationID events.
	ConversationID uint
	// Products is set for EventProducts events.
	Products []retrieval.MatchedProduct
	// Intent is set for EventDone events.
	Intent intent.Intent
}

// StreamRequest is one user turn entering the pipeline.
type StreamRequest struct {
	UserID uint
	// ConversationID is zero when the turn starts a new conversation.
	ConversationID uint
	Message        string
	HasImage       bool
}

// StreamingService orchestrates a full advice turn: classify, retrieve,
// match, synthesize, persist, then hand off the background tasks.
type StreamingService struct {
	config           *Config
	conversationRepo conversation.ConversationRepository
	messageRepo      message.MessageRepository
	profileRepo      profile.ProfileRepository
	provider         ai.CompletionProvider
	classifier       IntentClassifier
	retriever        ContextRetriever
	matcher          ProductMatcher
	memories         MemoryDispatcher
	titles           TitleDispatcher
	logger           Logger
}

func NewStreamingService(
	config *Config,
	conversationRepo conversation.ConversationRepository,
	messageRepo message.MessageRepository,
	profileRepo profile.ProfileRepository,
	provider ai.CompletionProvider,
	classifier IntentClassifier,
	retriever ContextRetriever,
	matcher ProductMatcher,
	memories MemoryDispatcher,
	titles TitleDispatcher,
	logger Logger,
) *StreamingService {
	return &StreamingService{
		config:           config,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		profileRepo:      profileRepo,
		provider:         provider,
		classifier:       classifier,
		retriever:        retriever,
		matcher:          matcher,
		memories:         memories,
		titles:           titles,
		logger:           logger,
	}
}

// StreamResponse runs the pipeline for one user turn. Events are delivered
// through onEvent in order: conversation ID first, then content deltas,
// optionally product recommendations, and finally a done event.
func (s *StreamingService) StreamResponse(ctx context.Context, req *StreamRequest, onEvent func(Event) error) error {
	if strings.TrimSpace(req.Message) == "" {
		return NewValidationError("stream", "message is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	s.logger.Info("starting advice turn", "user_id", req.UserID, "conversation_id", req.ConversationID)

	conv, isNew, err := s.resolveConversation(ctx, req)
	if err != nil {
		return err
	}
	if err := onEvent(Event{Type: EventConversationID, ConversationID: conv.ID}); err != nil {
		return err
	}

	// Classification and profile load are both failure-tolerant: the
	// classifier degrades to general_chat and a missing profile is nil.
	result := s.classifier.Classify(ctx, req.Message, req.HasImage)
	prof, err := s.profileRepo.FindByUserID(ctx, req.UserID)
	if err != nil {
		s.logger.Warn("profile load failed, continuing without", "user_id", req.UserID, "error", err)
		prof = nil
	}

	isProductIntent := productIntents[result.Intent]

	hairTexture := ""
	if prof != nil {
		hairTexture = prof.HairTexture
	}
	chunks := s.retriever.RetrieveContext(ctx, req.Message, retrieval.RetrieveOptions{
		Intent:           result.Intent,
		HairTexture:      hairTexture,
		PreFilterTexture: isProductIntent && hairTexture != "",
		Count:            s.config.RetrievalTopK,
	})

	var products []retrieval.MatchedProduct
	if isProductIntent {
		products = s.matcher.MatchProducts(ctx, req.Message, retrieval.MatchParams{
			Thickness: profileThickness(prof),
			Concerns:  profileConcerns(prof),
			Category:  result.Category,
			Count:     s.config.MatchCount,
		})
	}

	history, err := s.loadHistory(ctx, conv.ID)
	if err != nil {
		s.logger.Warn("history load failed, continuing without", "conversation_id", conv.ID, "error", err)
	}

	if err := s.saveUserMessage(ctx, conv.ID, req.Message); err != nil {
		return err
	}

	var fullReply strings.Builder
	llmCtx, llmCancel := context.WithTimeout(ctx, llmStreamTimeout)
	defer llmCancel()
	streamErr := s.provider.StreamCompletion(llmCtx, ai.CompletionRequest{
		Model:       s.config.ChatModel,
		System:      buildSystemPrompt(prof, chunks, products, isProductIntent),
		History:     history,
		Prompt:      req.Message,
		Temperature: s.config.Temperature,
		MaxTokens:   s.config.MaxTokens,
	}, func(token string) error {
		fullReply.WriteString(token)
		return onEvent(Event{Type: EventDelta, Delta: token})
	})
	if streamErr != nil {
		s.logger.Error("stream completion failed", "error", streamErr)
		return NewStreamingError("streaming", "advice streaming failed", streamErr)
	}

	if isProductIntent && len(products) > 0 {
		if err := onEvent(Event{Type: EventProducts, Products: products}); err != nil {
			return err
		}
	}

	s.saveAssistantMessage(conv.ID, fullReply.String())

	if isNew {
		s.titles.Dispatch(conv.ID, req.Message)
	}
	s.memories.Dispatch(conv.ID, req.UserID)

	s.logger.Info("advice turn completed",
		"conversation_id", conv.ID, "intent", result.Intent, "response_length", fullReply.Len())
	return onEvent(Event{Type: EventDone, Intent: result.Intent})
}

// resolveConversation loads and authorizes an existing conversation or
// creates a new one when the request carries no ID.
func (s *StreamingService) resolveConversation(ctx context.Context, req *StreamRequest) (*domain.Conversation, bool, error) {
	if req.ConversationID == 0 {
		conv, err := s.conversationRepo.Create(ctx, &domain.Conversation{UserID: req.UserID})
		if err != nil {
			return nil, false, &ChatError{
				Type:      ErrTypeValidation,
				Operation: "create_conversation",
				Message:   "failed to create conversation",
				Cause:     err,
			}
		}
		return conv, true, nil
	}

	conv, err := s.conversationRepo.FindByID(ctx, req.ConversationID)
	if err != nil || conv.UserID != req.UserID {
		return nil, false, NewUnauthorizedError(req.UserID, req.ConversationID)
	}
	return conv, false, nil
}

// loadHistory returns the most recent prior turns as model history,
// oldest first.
func (s *StreamingService) loadHistory(ctx context.Context, conversationID uint) ([]ai.ChatMessage, error) {
	if s.config.HistoryLimit == 0 {
		return nil, nil
	}
	messages, err := s.messageRepo.FindRecent(ctx, conversationID, s.config.HistoryLimit)
	if err != nil {
		return nil, err
	}
	history := make([]ai.ChatMessage, 0, len(messages))
	for _, m := range messages {
		if m.Role != domain.RoleUser && m.Role != domain.RoleAssistant {
			continue
		}
		history = append(history, ai.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return history, nil
}

func (s *StreamingService) saveUserMessage(ctx context.Context, conversationID uint, content string) error {
	_, err := s.messageRepo.Create(ctx, &domain.Message{
		ConversationID: conversationID,
		Role:           domain.RoleUser,
		Content:        content,
	})
	if err != nil {
		return &ChatError{
			Type:      ErrTypeValidation,
			Operation: "save_user_message",
			Message:   "failed to save user message",
			Cause:     err,
		}
	}
	return s.conversationRepo.IncrementMessageCount(ctx, conversationID, 1)
}

// saveAssistantMessage persists the reply in the background so a slow
// write never delays closing the stream.
func (s *StreamingService) saveAssistantMessage(conversationID uint, content string) {
	if content == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dbSaveTimeout)
		defer cancel()

		if _, err := s.messageRepo.Create(ctx, &domain.Message{
			ConversationID: conversationID,
			Role:           domain.RoleAssistant,
			Content:        content,
		}); err != nil {
			s.logger.Error("failed to save assistant message", "error", err)
			return
		}
		if err := s.conversationRepo.IncrementMessageCount(ctx, conversationID, 1); err != nil {
			s.logger.Error("failed to bump message count", "error", err)
		}
	}()
}

func profileThickness(prof *domain.HairProfile) string {
	if prof == nil {
		return ""
	}
	return prof.Thickness
}

// profileConcerns combines the profile's own concern tags with the codes
// derived from scalp and protein-moisture fields.
func profileConcerns(prof *domain.HairProfile) []string {
	if prof == nil {
		return nil
	}
	seen := make(map[string]bool)
	var concerns []string
	derived := retrieval.ProfileConcernCodes(prof.ScalpType, prof.ScalpCondition, prof.ProteinMoistureBalance)
	for _, c := range append(prof.ConcernList(), derived...) {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		concerns = append(concerns, c)
	}
	return concerns
}
