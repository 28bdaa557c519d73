package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a user can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                 uuid.UUID   `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
	Name               string      `gorm:"not null" json:"name"`
	Email              string      `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash       string      `gorm:"not null" json:"-"`
	Role               string      `gorm:"size:20;not null;default:'user'" json:"role"`
	Disabled           bool        `gorm:"not null;default:false" json:"disabled"`
	DietaryPreferences StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"dietary_preferences"`
	Allergies          StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"allergies"`
	FavoriteCuisines   StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"favorite_cuisines"`
}

// BeforeCreate assigns an id and the default role.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
