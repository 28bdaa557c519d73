package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// EmbeddingDimensions is the length of every recipe embedding.
const EmbeddingDimensions = 64

// DefaultRecipeImage is used when a recipe is created without an image.
const DefaultRecipeImage = "/images/default_recipe.svg"

type Recipe struct {
	ID             uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	UserID         uuid.UUID        `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name           string           `gorm:"size:255;not null" json:"name"`
	Description    string           `gorm:"type:text;not null" json:"description"`
	ImageURL       string           `gorm:"size:512" json:"image_url"`
	Ingredients    StringArray      `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions   StringArray      `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	IngredientTags StringArray      `gorm:"type:jsonb;not null;default:'[]'" json:"ingredient_tags"`
	PrepTime       int              `gorm:"not null;default:0" json:"prep_time"`
	CookTime       int              `gorm:"not null;default:0" json:"cook_time"`
	DietaryTags    StringArray      `gorm:"type:jsonb;not null;default:'[]'" json:"dietary_tags"`
	Cuisine        string           `gorm:"size:100;index" json:"cuisine"`
	Rating         float64          `gorm:"not null;default:0" json:"rating"`
	NumReviews     int              `gorm:"not null;default:0" json:"num_reviews"`
	Embedding      *pgvector.Vector `gorm:"type:vector(64)" json:"-"`
	Reviews        []Review         `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
}

// BeforeCreate assigns an id and the default image.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.ImageURL == "" {
		r.ImageURL = DefaultRecipeImage
	}
	return nil
}

// Review is one user's rating of a recipe. A user reviews a recipe at most once.
type Review struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_review_recipe_user" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_review_recipe_user" json:"user_id"`
	Name      string    `gorm:"not null" json:"name"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
