// File: internal/repository/profile/profile_repository.go
package profile

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/haarwerk/haarwerk/internal/domain"
)

var ErrProfileNotFound = errors.New("hair profile not found")

type gormProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &gormProfileRepository{db: db}
}

func (r *gormProfileRepository) FindByUserID(ctx context.Context, userID uint) (*domain.HairProfile, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var p domain.HairProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		log.Printf("[ProfileRepository] FindByUserID database error: %v", err)
		return nil, errors.New("database query failed")
	}
	return &p, nil
}

func (r *gormProfileRepository) UpdateMemory(ctx context.Context, userID uint, memory string) error {
	if userID == 0 {
		return errors.New("invalid user ID")
	}
	if len(memory) > domain.MemoryHardCap {
		return fmt.Errorf("memory exceeds hard cap of %d characters", domain.MemoryHardCap)
	}

	result := r.db.WithContext(ctx).
		Model(&domain.HairProfile{}).
		Where("user_id = ?", userID).
		Update("conversation_memory", memory)

	if result.Error != nil {
		log.Printf("[ProfileRepository] Database error updating memory for user ID %d: %v", userID, result.Error)
		return errors.New("database error updating conversation memory")
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
