package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item is a single media entry inside a collection. ExternalID identifies the
// entry in its source system and is not unique across sources. Positions within
// a collection are dense: for N items they are exactly {0,...,N-1}.
type Item struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	CollectionID string    `gorm:"size:36;index;not null" json:"collectionId"`
	ExternalID   string    `gorm:"not null" json:"externalId"`
	Type         MediaType `gorm:"not null" json:"type"`
	Title        string    `gorm:"not null" json:"title"`
	Image        *string   `json:"image"`
	Year         *string   `json:"year"`
	Rating       *float64  `json:"rating"`
	Review       *string   `json:"review,omitempty"`
	Metadata     *string   `json:"metadata,omitempty"`
	Position     int       `gorm:"not null" json:"position"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
