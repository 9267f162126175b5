package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxCollections is the number of grid slots on a profile. Collection positions
// live in [0, MaxCollections) and are unique per user; slots freed by deletes
// stay empty until a later create refills the lowest one.
const MaxCollections = 9

// Collection is a named, positioned bucket of media items belonging to one user.
// CoverImage is derived from the first item by position and is rewritten only by
// the item add/remove paths.
type Collection struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     string    `gorm:"size:36;index;not null" json:"userId"`
	Name       string    `gorm:"not null" json:"name"`
	Type       MediaType `gorm:"not null;default:movie" json:"type"`
	Position   int       `gorm:"not null" json:"position"`
	CoverImage *string   `json:"coverImage"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Items      []Item    `gorm:"foreignKey:CollectionID" json:"items"`
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (c *Collection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// LikesCollectionName is the collection implicitly created by the first
// right-swipe save.
const LikesCollectionName = "My Likes"
