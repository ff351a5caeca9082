// File: internal/repository/conversation/interface.go
package conversation

import (
	"context"

	"github.com/haarwerk/haarwerk/internal/domain"
)

// ConversationRepository handles conversation data operations.
type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error)
	FindByID(ctx context.Context, id uint) (*domain.Conversation, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Conversation, error)
	Delete(ctx context.Context, conversationID, userID uint) error

	// UpdateTitle sets the conversation title if one is not already present.
	UpdateTitle(ctx context.Context, conversationID uint, title string) error

	// IncrementMessageCount bumps the message counter by n and touches
	// updated_at.
	IncrementMessageCount(ctx context.Context, conversationID uint, n int) error

	// AdvanceMemoryWatermark moves memory_extracted_at_count forward to count.
	// The watermark is monotonic: a smaller or equal value is a no-op.
	AdvanceMemoryWatermark(ctx context.Context, conversationID uint, count int) error
}
