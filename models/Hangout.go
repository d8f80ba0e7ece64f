package models

import (
	"time"

	"gorm.io/gorm"
)

// Hangout is a scheduled meetup at a pin. MaxParticipants nil means the
// hangout is uncapped.
type Hangout struct {
	gorm.Model
	OwnerID uint `json:"ownerID" gorm:"not null;index"`
	PinID   uint `json:"pinID" gorm:"not null;index"`

	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`

	ExpectedParticipants *int `json:"expectedParticipants"`
	MaxParticipants      *int `json:"maxParticipants"`

	StartTime       time.Time `json:"startTime"`
	DurationMinutes int       `json:"durationMinutes"`

	Owner        User                 `json:"owner" gorm:"foreignKey:OwnerID"`
	Pin          Pin                  `json:"pin" gorm:"foreignKey:PinID"`
	Participants []HangoutParticipant `json:"participants" gorm:"foreignKey:HangoutID"`
}

// HangoutParticipant is a membership fact: at most one row per
// (hangout, user) pair, no ordering or waitlist semantics.
type HangoutParticipant struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	HangoutID uint      `json:"hangoutID" gorm:"not null;uniqueIndex:idx_hangout_member"`
	UserID    uint      `json:"userID" gorm:"not null;uniqueIndex:idx_hangout_member"`
	JoinedAt  time.Time `json:"joinedAt"`

	Hangout Hangout `json:"-" gorm:"foreignKey:HangoutID"`
	User    User    `json:"user" gorm:"foreignKey:UserID"`
}
