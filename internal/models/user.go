package models

import "time"

// User represents application user.
// In auth mode "none" a single local user is created lazily and every
// request runs as that user.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	DisplayName  string    `gorm:"size:64" json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`

	FailedLoginAttempts int        `gorm:"default:0" json:"-"` // 연속 로그인 실패 횟수
	LockedUntil         *time.Time `gorm:"index" json:"-"`     // 계정 잠금 해제 시각
	LastLoginAt         *time.Time `json:"-"`
	LastLoginIP         string     `gorm:"size:64" json:"-"`
}

// LocalUsername is the reserved account used when auth mode is "none".
const LocalUsername = "local"
