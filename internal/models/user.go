package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a TasteID profile. A user owns at most nine collections,
// each occupying a unique slot of the 3x3 profile grid.
type User struct {
	ID                  string       `gorm:"primaryKey;size:36" json:"id"`
	Email               string       `gorm:"uniqueIndex;not null" json:"email"`
	Password            string       `gorm:"not null" json:"-"`
	Username            string       `gorm:"uniqueIndex;not null" json:"username"`
	Name                string       `json:"name"`
	Image               *string      `json:"image"`
	AccentColor         string       `gorm:"default:#6366f1" json:"accentColor"`
	BgTexture           Texture      `gorm:"default:grain" json:"bgTexture"`
	Bio                 *string      `json:"bio"`
	OnboardingCompleted bool         `json:"onboardingCompleted"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
	Collections         []Collection `gorm:"foreignKey:UserID" json:"collections,omitempty"`
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
