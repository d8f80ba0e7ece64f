package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username       string `json:"username" gorm:"index"`
	Email          string `json:"email" gorm:"uniqueIndex;not null"`
	Password       string `json:"-"`
	Bio            string `json:"bio"`
	PfpURL         string `json:"pfpURL"`
	FollowerCount  int    `json:"followerCount" gorm:"default:0"`
	FollowingCount int    `json:"followingCount" gorm:"default:0"`
	PostsCount     int    `json:"postsCount" gorm:"default:0"`
	LikesCount     int    `json:"likesCount" gorm:"default:0"`
	VisitedCount   int    `json:"visitedCount" gorm:"default:0"`

	IsAdmin  bool `json:"isAdmin" gorm:"default:false"`
	IsActive bool `json:"isActive" gorm:"default:true"`

	IsSuspended     bool       `json:"isSuspended" gorm:"default:false"`
	SuspendedAt     *time.Time `json:"suspendedAt"`
	SuspendedUntil  *time.Time `json:"suspendedUntil"`
	SuspendedReason string     `json:"suspendedReason"`

	LastSeenAt *time.Time `json:"lastSeenAt"`
}

// Follow is a directed edge in the social graph, one row per
// (follower, following) pair.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"followerID" gorm:"not null;uniqueIndex:idx_follow_pair"`
	FollowingID uint      `json:"followingID" gorm:"not null;uniqueIndex:idx_follow_pair"`
	CreatedAt   time.Time `json:"createdAt"`

	Follower  User `json:"-" gorm:"foreignKey:FollowerID"`
	Following User `json:"-" gorm:"foreignKey:FollowingID"`
}
