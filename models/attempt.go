package models

import (
	"time"

	"gorm.io/gorm"
)

// Attempt is the immutable record of one finished practice session.
type Attempt struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	PublicID string `gorm:"size:32;uniqueIndex;not null" json:"id"`
	UserID   uint   `gorm:"not null;index" json:"-"`
	Owner    User   `gorm:"foreignKey:UserID" json:"-"`

	// SetID is the public id of the practised set. It is not a foreign key so
	// the history outlives the set.
	SetID string `gorm:"size:32;index" json:"set_id,omitempty"`

	Cards []AttemptCard `gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE;" json:"cards"`

	OwnerUsername string `gorm:"-" json:"owner_username"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

func (a *Attempt) AfterFind(tx *gorm.DB) error {
	if a.Owner.Username != "" {
		a.OwnerUsername = a.Owner.Username
	}
	return nil
}

// CorrectCount returns the number of cards answered correctly.
func (a *Attempt) CorrectCount() int {
	n := 0
	for _, c := range a.Cards {
		if c.Correct {
			n++
		}
	}
	return n
}

// AttemptCard is one card result inside an Attempt.
type AttemptCard struct {
	ID          uint     `gorm:"primaryKey" json:"-"`
	AttemptID   uint     `gorm:"not null;index" json:"-"`
	Position    int      `gorm:"not null" json:"-"`
	FlashcardID string   `gorm:"size:32;not null" json:"flashcard_id"`
	Correct     bool     `gorm:"not null" json:"correct"`
	TimeTaken   *float64 `json:"time_taken,omitempty"`
}

// All lists every model managed by AutoMigrate, parents first.
func All() []interface{} {
	return []interface{}{&User{}, &FlashcardSet{}, &Flashcard{}, &Attempt{}, &AttemptCard{}}
}
