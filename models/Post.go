package models

import (
	"time"

	"gorm.io/gorm"
)

type Post struct {
	gorm.Model
	UserID uint `json:"userID" gorm:"not null;index"`
	PinID  uint `json:"pinID" gorm:"not null;index"`

	Title       string `json:"title"`
	Description string `json:"description"`
	MediaURL    string `json:"mediaURL" gorm:"size:512"`

	LikeCount    int `json:"likeCount" gorm:"default:0"`
	CommentCount int `json:"commentCount" gorm:"default:0"`
	ShareCount   int `json:"shareCount" gorm:"default:0"`

	User     User       `json:"user" gorm:"foreignKey:UserID"`
	Pin      Pin        `json:"pin" gorm:"foreignKey:PinID"`
	Comments []Comment  `json:"comments" gorm:"foreignKey:PostID"`
	Likes    []PostLike `json:"-" gorm:"foreignKey:PostID"`
}

type PostLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"postID" gorm:"not null;uniqueIndex:idx_post_like"`
	UserID    uint      `json:"userID" gorm:"not null;uniqueIndex:idx_post_like"`
	CreatedAt time.Time `json:"createdAt"`

	Post Post `json:"-" gorm:"foreignKey:PostID"`
	User User `json:"-" gorm:"foreignKey:UserID"`
}

type Comment struct {
	gorm.Model
	PostID   uint   `json:"postID" gorm:"not null;index"`
	UserID   uint   `json:"userID" gorm:"not null;index"`
	ParentID *uint  `json:"parentID" gorm:"index"`
	Content  string `json:"content" gorm:"not null"`

	LikeCount int `json:"likeCount" gorm:"default:0"`

	Post  Post          `json:"-" gorm:"foreignKey:PostID"`
	User  User          `json:"user" gorm:"foreignKey:UserID"`
	Likes []CommentLike `json:"-" gorm:"foreignKey:CommentID"`
}

type CommentLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CommentID uint      `json:"commentID" gorm:"not null;uniqueIndex:idx_comment_like"`
	UserID    uint      `json:"userID" gorm:"not null;uniqueIndex:idx_comment_like"`
	CreatedAt time.Time `json:"createdAt"`

	Comment Comment `json:"-" gorm:"foreignKey:CommentID"`
	User    User    `json:"-" gorm:"foreignKey:UserID"`
}
