package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SavedItem is a per-user quick-lookup mirror of a liked media entry, keyed
// uniquely by (userId, externalId, type). It is upserted on every save so it
// always reflects the latest metadata, and it does not follow the lifecycle of
// any Item row: deleting an item or its collection leaves the SavedItem alone.
type SavedItem struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     string    `gorm:"size:36;not null;uniqueIndex:idx_saved_user_external_type" json:"userId"`
	ExternalID string    `gorm:"not null;uniqueIndex:idx_saved_user_external_type" json:"externalId"`
	Type       MediaType `gorm:"not null;uniqueIndex:idx_saved_user_external_type" json:"type"`
	Title      string    `gorm:"not null" json:"title"`
	Image      *string   `json:"image"`
	Metadata   *string   `json:"metadata,omitempty"`
	SavedAt    time.Time `gorm:"autoCreateTime" json:"savedAt"`
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (s *SavedItem) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
