package models

import "time"

// Wishlist and Visit are two independent sets over (user, pin). A pin can
// sit in both at once; neither row implies the other.

type Wishlist struct {
	ID      uint      `json:"id" gorm:"primaryKey"`
	UserID  uint      `json:"userID" gorm:"not null;uniqueIndex:idx_wishlist_pair"`
	PinID   uint      `json:"pinID" gorm:"not null;uniqueIndex:idx_wishlist_pair"`
	AddedAt time.Time `json:"addedAt"`

	User User `json:"-" gorm:"foreignKey:UserID"`
	Pin  Pin  `json:"pin" gorm:"foreignKey:PinID"`
}

type Visit struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userID" gorm:"not null;uniqueIndex:idx_visit_pair"`
	PinID     uint      `json:"pinID" gorm:"not null;uniqueIndex:idx_visit_pair"`
	VisitedAt time.Time `json:"visitedAt"`

	User User `json:"-" gorm:"foreignKey:UserID"`
	Pin  Pin  `json:"pin" gorm:"foreignKey:PinID"`
}
