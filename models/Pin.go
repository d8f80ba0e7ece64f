package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Pin struct {
	gorm.Model
	Slug        string  `json:"slug" gorm:"index"`
	Title       string  `json:"title" gorm:"not null"`
	Description string  `json:"description"`
	Cost        string  `json:"cost" gorm:"size:8"` // $, $$, $$$, $$$$
	Lat         float64 `json:"lat" gorm:"not null;index:idx_pin_coords"`
	Lon         float64 `json:"lon" gorm:"not null;index:idx_pin_coords"`

	WishlistCount int `json:"wishlistCount" gorm:"default:0"`
	VisitCount    int `json:"visitCount" gorm:"default:0"`
	PostsCount    int `json:"postsCount" gorm:"default:0"`
	ViewCount     int `json:"viewCount" gorm:"default:0"`

	Categories []PinCategory `json:"categories" gorm:"foreignKey:PinID"`
}

type PinCategory struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	PinID      uint `json:"pinID" gorm:"not null;uniqueIndex:idx_pin_category"`
	CategoryID uint `json:"categoryID" gorm:"not null;uniqueIndex:idx_pin_category"`

	Pin      Pin      `json:"-" gorm:"foreignKey:PinID"`
	Category Category `json:"-" gorm:"foreignKey:CategoryID"`
}

type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LocationRequest is a user-suggested pin awaiting review. Media uploaded
// with the suggestion is kept as a JSON array of URLs.
type LocationRequest struct {
	gorm.Model
	UserID      uint           `json:"userID" gorm:"not null;index"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	Cost        string         `json:"cost" gorm:"size:8"`
	Lat         float64        `json:"lat" gorm:"not null"`
	Lon         float64        `json:"lon" gorm:"not null"`
	MediaURLs   datatypes.JSON `json:"mediaURLs"`
	Status      string         `json:"status" gorm:"size:16;default:pending;index"` // pending, approved, rejected

	User User `json:"-" gorm:"foreignKey:UserID"`
}
