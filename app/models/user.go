package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                    string     `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	LoginID               *string    `gorm:"size:50;uniqueIndex;null" json:"login_id,omitempty"`
	Email                 string     `gorm:"size:100;not null;index"`
	Name                  string     `gorm:"size:100;not null"`
	Phone                 string     `gorm:"size:20"`
	Password              string     `gorm:"size:255"`
	Role                  string     `gorm:"size:20;default:'USER';not null"`
	Provider              string     `gorm:"size:20;index:idx_users_provider_subject"`
	ProviderSubject       string     `gorm:"size:255;index:idx_users_provider_subject"`
	RememberTokenSelector *string    `gorm:"size:64;uniqueIndex;null"`
	RememberTokenHash     string     `gorm:"size:255;null"`
	RememberTokenExpires  *time.Time `gorm:"null"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

const (
	RoleUser   = "USER"
	RoleSocial = "SOCIAL"
	RoleAdmin  = "ADMIN"
)

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.LoginID != nil {
		return *u.LoginID
	}
	return u.Email
}
