package model

import "time"

// User 结构体表示用户模型
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // 密码哈希不应在JSON中暴露
	FullName     string    `json:"full_name,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
	IsActive     bool      `json:"is_active"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserUpdate 部分更新载荷，nil 表示该字段未提供
type UserUpdate struct {
	FullName     *string `json:"full_name"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	ProfileImage *string `json:"profile_image"`
}

// IsEmpty 判断是否没有任何待更新字段
func (u *UserUpdate) IsEmpty() bool {
	return u.FullName == nil && u.Phone == nil && u.Address == nil && u.ProfileImage == nil
}

// UserSummary 公开的用户摘要信息，用于填充视图
type UserSummary struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	FullName     string `json:"full_name,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// Summary 返回用户的公开摘要
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		ProfileImage: u.ProfileImage,
	}
}
