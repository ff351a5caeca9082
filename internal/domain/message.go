// File: internal/domain/message.go
package domain

import "time"

// Message roles within a conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message within a conversation.
// Messages are append-only and ordered by CreatedAt.
type Message struct {
	ID             uint      `gorm:"primarykey"`
	ConversationID uint      `json:"conversation_id" gorm:"not null;index"`
	Role           string    `json:"role" gorm:"not null"` // RoleUser or RoleAssistant
	Content        string    `json:"content" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
}
