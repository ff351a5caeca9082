// File: internal/services/chat/service.go
package chat

import (
	"context"

	"github.com/haarwerk/haarwerk/internal/domain"
	"github.com/haarwerk/haarwerk/internal/repository/conversation"
	"github.com/haarwerk/haarwerk/internal/repository/message"
)

// ConversationService handles conversation lifecycle outside the streamed
// pipeline: listing, history reads and deletion.
type ConversationService struct {
	conversationRepo conversation.ConversationRepository
	messageRepo      message.MessageRepository
	logger           Logger
}

func NewConversationService(
	conversationRepo conversation.ConversationRepository,
	messageRepo message.MessageRepository,
	logger Logger,
) *ConversationService {
	return &ConversationService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		logger:           logger,
	}
}

func (s *ConversationService) CreateConversation(ctx context.Context, userID uint) (*domain.Conversation, error) {
	conv, err := s.conversationRepo.Create(ctx, &domain.Conversation{UserID: userID})
	if err != nil {
		s.logger.Error("failed to create conversation", "user_id", userID, "error", err)
		return nil, err
	}
	return conv, nil
}

func (s *ConversationService) GetUserConversations(ctx context.Context, userID uint) ([]domain.Conversation, error) {
	return s.conversationRepo.FindByUserID(ctx, userID)
}

// GetConversationMessages returns the full transcript in chronological
// order after verifying ownership.
func (s *ConversationService) GetConversationMessages(ctx context.Context, userID, conversationID uint) ([]domain.Message, error) {
	conv, err := s.conversationRepo.FindByID(ctx, conversationID)
	if err != nil || conv.UserID != userID {
		return nil, NewUnauthorizedError(userID, conversationID)
	}
	return s.messageRepo.FindByConversationID(ctx, conversationID)
}

// DeleteConversation removes the conversation and its messages.
func (s *ConversationService) DeleteConversation(ctx context.Context, userID, conversationID uint) error {
	if err := s.conversationRepo.Delete(ctx, conversationID, userID); err != nil {
		return err
	}
	if err := s.messageRepo.DeleteByConversationID(ctx, conversationID); err != nil {
		s.logger.Error("failed to delete conversation messages",
			"conversation_id", conversationID, "error", err)
		return err
	}
	return nil
}
