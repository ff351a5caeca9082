// File: internal/repository/conversation/conversation_repository.go
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/haarwerk/haarwerk/internal/domain"
)

var ErrConversationNotFound = errors.New("conversation not found")
var ErrUnauthorizedAccess = errors.New("unauthorized access to conversation")

type gormConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &gormConversationRepository{db: db}
}

func (r *gormConversationRepository) Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	if conv == nil || conv.UserID == 0 {
		return nil, errors.New("user ID is required")
	}
	if len(conv.Title) > 200 {
		return nil, errors.New("title must be 200 characters or less")
	}

	if err := r.db.WithContext(ctx).Create(conv).Error; err != nil {
		log.Printf("[ConversationRepository] Database error during creation for user ID %d: %v", conv.UserID, err)
		return nil, errors.New("database error creating conversation")
	}

	log.Printf("[ConversationRepository] Conversation created with ID: %d for user: %d", conv.ID, conv.UserID)
	return conv, nil
}

func (r *gormConversationRepository) FindByID(ctx context.Context, id uint) (*domain.Conversation, error) {
	if id == 0 {
		return nil, errors.New("invalid conversation ID")
	}

	var conv domain.Conversation
	err := r.db.WithContext(ctx).First(&conv, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		log.Printf("[ConversationRepository] FindByID database error: %v", err)
		return nil, errors.New("database query failed")
	}
	return &conv, nil
}

func (r *gormConversationRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Conversation, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var convs []domain.Conversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, id DESC").
		Find(&convs).Error
	if err != nil {
		log.Printf("[ConversationRepository] Database error finding conversations for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching conversations")
	}

	return convs, nil
}

func (r *gormConversationRepository) Delete(ctx context.Context, conversationID, userID uint) error {
	if conversationID == 0 || userID == 0 {
		return errors.New("invalid conversation ID or user ID")
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", conversationID, userID).
		Delete(&domain.Conversation{})

	if result.Error != nil {
		log.Printf("[ConversationRepository] Database error deleting conversation ID %d for user ID %d: %v", conversationID, userID, result.Error)
		return errors.New("database error deleting conversation")
	}
	if result.RowsAffected == 0 {
		return ErrUnauthorizedAccess
	}

	return nil
}

// UpdateTitle writes the title only when none is set yet; the title is
// generated once, from the first exchange.
func (r *gormConversationRepository) UpdateTitle(ctx context.Context, conversationID uint, title string) error {
	if conversationID == 0 {
		return errors.New("invalid conversation ID")
	}
	if title == "" {
		return errors.New("title is required")
	}
	if len(title) > 200 {
		return fmt.Errorf("title must be 200 characters or less")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ? AND (title = ? OR title IS NULL)", conversationID, "").
		Update("title", title)

	if result.Error != nil {
		log.Printf("[ConversationRepository] Database error updating title for conversation ID %d: %v", conversationID, result.Error)
		return errors.New("database error updating title")
	}
	return nil
}

func (r *gormConversationRepository) IncrementMessageCount(ctx context.Context, conversationID uint, n int) error {
	if conversationID == 0 {
		return errors.New("invalid conversation ID")
	}
	if n <= 0 {
		return errors.New("increment must be positive")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", conversationID).
		Updates(map[string]interface{}{
			"message_count": gorm.Expr("message_count + ?", n),
			"updated_at":    gorm.Expr("CURRENT_TIMESTAMP"),
		})

	if result.Error != nil {
		log.Printf("[ConversationRepository] Database error incrementing message count for conversation ID %d: %v", conversationID, result.Error)
		return errors.New("database error updating message count")
	}
	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// AdvanceMemoryWatermark is monotonic by construction: the WHERE clause
// rejects any write that would move the watermark backwards, so a retried
// or concurrent extraction at an older transcript length is a no-op.
func (r *gormConversationRepository) AdvanceMemoryWatermark(ctx context.Context, conversationID uint, count int) error {
	if conversationID == 0 {
		return errors.New("invalid conversation ID")
	}
	if count < 0 {
		return errors.New("watermark cannot be negative")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ? AND memory_extracted_at_count < ?", conversationID, count).
		Update("memory_extracted_at_count", count)

	if result.Error != nil {
		log.Printf("[ConversationRepository] Database error advancing watermark for conversation ID %d: %v", conversationID, result.Error)
		return errors.New("database error advancing memory watermark")
	}
	return nil
}
