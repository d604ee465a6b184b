package model

import (
	"time"
)

// User 账号由外部认证系统创建，这里只读取资料并维护关注关系版本号
type User struct {
	ID              uint64  `gorm:"primaryKey"`
	Username        *string `gorm:"type:varchar(50);uniqueIndex:idx_username"`
	IsBan           bool    `gorm:"not null;default:false"`
	IsDelete        bool    `gorm:"not null;default:false"`
	RelationVersion uint64  `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	UserDetail UserDetail `gorm:"foreignKey:UserID;references:ID"`
}

func (User) TableName() string {
	return "users"
}
