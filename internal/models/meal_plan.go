package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultMealPlanName is used when a plan is created without a name.
const DefaultMealPlanName = "Weekly Meal Plan"

// Weekdays lists the plan days in the order their recipes are collected.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// ParseWeekday normalizes a day name and reports whether it is a weekday.
func ParseWeekday(s string) (string, bool) {
	day := strings.ToLower(strings.TrimSpace(s))
	for _, d := range Weekdays {
		if d == day {
			return d, true
		}
	}
	return "", false
}

type MealPlan struct {
	ID        uuid.UUID           `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	UserID    uuid.UUID           `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name      string              `gorm:"size:255;not null" json:"name"`
	StartDate time.Time           `gorm:"not null;index" json:"start_date"`
	Notes     string              `gorm:"type:text" json:"notes"`
	Entries   []MealPlanEntry     `gorm:"foreignKey:MealPlanID;constraint:OnDelete:CASCADE" json:"-"`
	Meals     map[string][]Recipe `gorm:"-" json:"meals"`
}

func (m *MealPlan) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Name == "" {
		m.Name = DefaultMealPlanName
	}
	return nil
}

// MealPlanEntry places a recipe on one day of a plan. Position keeps the
// order recipes were added within the day.
type MealPlanEntry struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	MealPlanID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_plan_day_recipe" json:"meal_plan_id"`
	Day        string    `gorm:"size:10;not null;uniqueIndex:idx_plan_day_recipe" json:"day"`
	RecipeID   uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_plan_day_recipe" json:"recipe_id"`
	Position   int       `gorm:"not null;default:0" json:"position"`
	CreatedAt  time.Time `json:"created_at"`
}

func (e *MealPlanEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
