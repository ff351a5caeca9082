// File: internal/repository/profile/interface.go
package profile

import (
	"context"

	"github.com/haarwerk/haarwerk/internal/domain"
)

// ProfileRepository handles hair profile data operations.
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uint) (*domain.HairProfile, error)

	// UpdateMemory replaces the user's conversation memory blob. The blob
	// must already be capped to domain.MemoryHardCap; the repository
	// rejects oversized writes so the cap holds at rest.
	UpdateMemory(ctx context.Context, userID uint, memory string) error
}
