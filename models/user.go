package models

import "time"

// User represents an account in the system. PublicID is the stable external
// identifier; Username is a display name the owner may change at any time.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	PublicID  string    `gorm:"size:32;uniqueIndex;not null" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null;size:20" json:"username"`
	PinHash   string    `gorm:"not null" json:"-"`
	Score     int       `gorm:"not null;default:0;index" json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FlashcardSets []FlashcardSet `gorm:"foreignKey:UserID" json:"-"`
	Attempts      []Attempt      `gorm:"foreignKey:UserID" json:"-"`
}

// LeaderboardEntry is the only projection of a User that leaves the leaderboard.
type LeaderboardEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}
