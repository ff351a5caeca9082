// File: internal/domain/conversation.go
package domain

import "time"

// Conversation represents a single advice thread between a user and the assistant.
//
// MemoryExtractedAtCount is a watermark: the MessageCount at which memory
// extraction last ran. It is monotonically non-decreasing and never exceeds
// MessageCount.
type Conversation struct {
	ID                     uint   `gorm:"primarykey"`
	UserID                 uint   `gorm:"not null;index"`
	Title                  string // Short label, e.g. "Tipps gegen Spliss". Empty until generated.
	MessageCount           int    `gorm:"not null;default:0"`
	MemoryExtractedAtCount int    `gorm:"not null;default:0"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
