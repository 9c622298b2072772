// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role describes a user's privilege level.
type Role string

// Supported roles.
const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User represents a registered account in the Inkwell application.
//
// PasswordSalt and PasswordDigest are only ever written together by a
// credential-change operation; a fresh salt is generated on every password
// write and never reused.
type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	FullName        string         `gorm:"not null" json:"full_name"`
	Email           string         `gorm:"unique;not null" json:"email"`
	PasswordSalt    string         `gorm:"not null" json:"-"`
	PasswordDigest  string         `gorm:"not null" json:"-"`
	ProfileImageURL string         `json:"profile_image_url"`
	Bio             string         `gorm:"type:text" json:"bio"`
	Role            Role           `gorm:"type:varchar(16);not null;default:USER" json:"role"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	Posts           []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}
