package models

import (
	"time"

	"gorm.io/gorm"
)

// FlashcardSet represents a collection of flashcards
type FlashcardSet struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	PublicID string `gorm:"size:32;uniqueIndex;not null" json:"id"`
	Name     string `gorm:"not null;size:100" json:"name"`
	UserID   uint   `gorm:"not null;index" json:"-"`
	Owner    User   `gorm:"foreignKey:UserID" json:"-"`
	IsPublic bool   `gorm:"default:false;index" json:"isPublic"`

	OwnerUsername string `gorm:"-" json:"owner_username"`

	Flashcards []Flashcard `gorm:"foreignKey:SetID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *FlashcardSet) AfterFind(tx *gorm.DB) error {
	if s.Owner.Username != "" {
		s.OwnerUsername = s.Owner.Username
	}
	return nil
}

// VisibleTo reports whether userID may read the set.
func (s *FlashcardSet) VisibleTo(userID uint) bool {
	return s.IsPublic || (userID != 0 && s.UserID == userID)
}
