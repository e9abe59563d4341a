package model

import "time"

// MaxReactionLength bounds the stored reaction symbol, in runes.
const MaxReactionLength = 10

// Reaction is unique per (message, user); a repeated reaction replaces the value.
type Reaction struct {
	ID        uint   `gorm:"primaryKey"`
	MessageID uint   `gorm:"not null;uniqueIndex:idx_reaction_message_user"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_reaction_message_user"`
	Reaction  string `gorm:"size:40;not null"`
	CreatedAt time.Time

	User User `gorm:"foreignKey:UserID"`
}
