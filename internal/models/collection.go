package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SavedRecipe bookmarks a recipe for a user.
type SavedRecipe struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_saved_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_saved_user_recipe" json:"recipe_id"`
	Recipe    *Recipe   `gorm:"constraint:OnDelete:CASCADE" json:"recipe,omitempty"`
}

func (SavedRecipe) TableName() string {
	return "saved_recipes"
}

func (s *SavedRecipe) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Collection is a named, user-owned group of recipes.
type Collection struct {
	ID        uuid.UUID          `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	UserID    uuid.UUID          `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name      string             `gorm:"size:100;not null" json:"name"`
	Entries   []CollectionRecipe `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE" json:"-"`
	Recipes   []Recipe           `gorm:"-" json:"recipes"`
}

func (c *Collection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CollectionRecipe links a recipe into a collection.
type CollectionRecipe struct {
	CollectionID uuid.UUID `gorm:"type:varchar(36);primarykey" json:"collection_id"`
	RecipeID     uuid.UUID `gorm:"type:varchar(36);primarykey" json:"recipe_id"`
	CreatedAt    time.Time `json:"created_at"`
}
