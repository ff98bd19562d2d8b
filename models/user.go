package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. Admins may mutate any forum resource.
const (
	RoleConsumer = "consumer"
	RoleProducer = "producer"
	RoleAdmin    = "admin"
	RoleExpert   = "expert"
)

// User represents a platform member. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:64;not null" json:"name"`
	Email        string         `gorm:"size:255;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:16;default:'consumer'" json:"role"`
	Provider     string         `gorm:"size:32" json:"provider,omitempty"`
	ProviderID   string         `gorm:"size:255" json:"-"`
	Phone        string         `gorm:"size:32" json:"phone,omitempty"`
	Bio          string         `gorm:"size:512" json:"bio,omitempty"`
	ProfileImage string         `gorm:"size:512" json:"profile_image,omitempty"`
	IsVerified   bool           `gorm:"default:false" json:"is_verified"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Posts        []Post         `gorm:"foreignKey:AuthorID" json:"-"`
	Comments     []Comment      `gorm:"foreignKey:AuthorID" json:"-"`
}

// ValidRole reports whether role is one of the enumerated user roles.
func ValidRole(role string) bool {
	switch role {
	case RoleConsumer, RoleProducer, RoleAdmin, RoleExpert:
		return true
	}
	return false
}

// CanModerate reports whether a user with the given id and role may mutate a
// resource owned by ownerID. Authors mutate their own resources; admins
// mutate anything.
func CanModerate(userID uint, role string, ownerID uint) bool {
	return userID == ownerID || role == RoleAdmin
}

// BeforeCreate hook ensures timestamps and a role are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = RoleConsumer
	}
	return nil
}

// BeforeUpdate refreshes the UpdatedAt timestamp.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
