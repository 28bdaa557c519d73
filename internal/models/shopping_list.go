package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/tastetrail/backend/internal/shopping"
)

// ShoppingList is a persisted aggregation result. Items are stored as one
// JSON document so toggling an item rewrites the whole list.
type ShoppingList struct {
	ID                 uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	UserID             uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name               string         `gorm:"size:255;not null" json:"name"`
	Notes              string         `gorm:"type:text" json:"notes"`
	RecipeIDs          UUIDArray      `gorm:"type:jsonb;not null;default:'[]'" json:"recipe_ids"`
	Items              shopping.Items `gorm:"type:jsonb;not null;default:'[]'" json:"items"`
	DietaryPreferences StringArray    `gorm:"type:jsonb;not null;default:'[]'" json:"dietary_preferences"`
	MealPlanID         *uuid.UUID     `gorm:"type:varchar(36);index" json:"meal_plan_id,omitempty"`
}

func (s *ShoppingList) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Name == "" {
		s.Name = shopping.DefaultListName
	}
	return nil
}

// AllModels lists every table for auto-migration.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Recipe{},
		&Review{},
		&SavedRecipe{},
		&Collection{},
		&CollectionRecipe{},
		&MealPlan{},
		&MealPlanEntry{},
		&ShoppingList{},
	}
}
