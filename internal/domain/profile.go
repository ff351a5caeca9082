// File: internal/domain/profile.go
package domain

import (
	"strings"
	"time"
)

// MemoryHardCap is the maximum length, in characters, of the per-user
// conversation memory blob at rest.
const MemoryHardCap = 2000

// HairProfile holds everything the assistant knows about a user's hair.
// The onboarding flow writes the descriptive fields; the memory extractor
// is the only writer of ConversationMemory.
type HairProfile struct {
	ID     uint `gorm:"primarykey"`
	UserID uint `gorm:"not null;uniqueIndex"`

	HairTexture            string // e.g. "glatt", "wellig", "lockig", "kraus"
	Thickness              string // e.g. "fein", "mittel", "dick"
	ScalpType              string // "fettig", "trocken", "ausgeglichen"
	ScalpCondition         string // "schuppen", "gereizt", "keine"
	ProteinMoistureBalance string // "snaps", "stretches_stays", "stretches_bounces"
	Concerns               string // comma-separated concern codes

	// ConversationMemory is a free-text blob of durable facts learned across
	// conversations, capped at MemoryHardCap characters.
	ConversationMemory string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ConcernList splits the stored concern codes into a slice, dropping empties.
func (p *HairProfile) ConcernList() []string {
	if p == nil || p.Concerns == "" {
		return nil
	}
	parts := strings.Split(p.Concerns, ",")
	out := make([]string, 0, len(parts))
	for _, c := range parts {
		c = strings.TrimSpace(c)
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
