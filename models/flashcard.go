package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Flashcard represents an individual flashcard
type Flashcard struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	PublicID string `gorm:"size:32;uniqueIndex;not null" json:"id"`
	Front    string `gorm:"not null;size:1000" json:"front"`
	Back     string `gorm:"not null;size:1000" json:"back"`
	IsPublic bool   `gorm:"default:false" json:"isPublic"`

	Tags datatypes.JSONSlice[string] `json:"tags"`

	UserID uint `gorm:"not null;index" json:"-"`
	Owner  User `gorm:"foreignKey:UserID" json:"-"`

	SetID        uint         `gorm:"not null;index" json:"-"`
	FlashcardSet FlashcardSet `gorm:"foreignKey:SetID" json:"-"`

	OwnerUsername string `gorm:"-" json:"owner_username"`
	SetPublicID   string `gorm:"-" json:"set_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (f *Flashcard) AfterFind(tx *gorm.DB) error {
	if f.Owner.Username != "" {
		f.OwnerUsername = f.Owner.Username
	}
	if f.FlashcardSet.PublicID != "" {
		f.SetPublicID = f.FlashcardSet.PublicID
	}
	return nil
}

// VisibleTo reports whether userID may read the card. The set must be loaded.
func (f *Flashcard) VisibleTo(userID uint) bool {
	if userID != 0 && f.UserID == userID {
		return true
	}
	return f.IsPublic || f.FlashcardSet.IsPublic
}
