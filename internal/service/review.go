package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/tastetrail/backend/internal/models"
	"github.com/pageza/tastetrail/backend/internal/types"
)

// ReviewService manages recipe reviews and keeps each recipe's rating
// average and review count in step with its reviews.
type ReviewService struct {
	db      *gorm.DB
	recipes *RecipeService
	logger  *zap.Logger
}

func NewReviewService(db *gorm.DB, recipes *RecipeService, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{db: db, recipes: recipes, logger: logger}
}

// AddReview records the actor's review. A user may review a recipe once.
func (s *ReviewService) AddReview(ctx context.Context, actor Actor, recipeID uuid.UUID, req *types.ReviewRequest) (*models.Recipe, error) {
	if err := validateReview(req); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Select("id").First(&recipe, "id = ?", recipeID).Error; err != nil {
			return notFound("recipe", err)
		}
		var user models.User
		if err := tx.Select("id", "name").First(&user, "id = ?", actor.UserID).Error; err != nil {
			return notFound("user", err)
		}

		var count int64
		if err := tx.Model(&models.Review{}).Where("recipe_id = ? AND user_id = ?", recipeID, actor.UserID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check reviews: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("review %w", ErrConflict)
		}

		review := &models.Review{
			RecipeID: recipeID,
			UserID:   actor.UserID,
			Name:     user.Name,
			Rating:   req.Rating,
			Comment:  strings.TrimSpace(req.Comment),
		}
		if err := tx.Create(review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("review %w", ErrConflict)
			}
			return fmt.Errorf("failed to create review: %w", err)
		}
		return recomputeRating(tx, recipeID)
	})
	if err != nil {
		return nil, err
	}
	return s.recipes.GetRecipe(ctx, recipeID)
}

// UpdateReview edits the actor's own review.
func (s *ReviewService) UpdateReview(ctx context.Context, actor Actor, recipeID, reviewID uuid.UUID, req *types.ReviewRequest) (*models.Recipe, error) {
	if err := validateReview(req); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		review, err := findReview(tx, recipeID, reviewID)
		if err != nil {
			return err
		}
		if review.UserID != actor.UserID {
			return fmt.Errorf("not the author of this review: %w", ErrForbidden)
		}

		err = tx.Model(review).Updates(map[string]interface{}{
			"rating":  req.Rating,
			"comment": strings.TrimSpace(req.Comment),
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update review: %w", err)
		}
		return recomputeRating(tx, recipeID)
	})
	if err != nil {
		return nil, err
	}
	return s.recipes.GetRecipe(ctx, recipeID)
}

// DeleteReview removes a review. Authors and admins may delete.
func (s *ReviewService) DeleteReview(ctx context.Context, actor Actor, recipeID, reviewID uuid.UUID) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		review, err := findReview(tx, recipeID, reviewID)
		if err != nil {
			return err
		}
		if !actor.CanModify(review.UserID) {
			return fmt.Errorf("not the author of this review: %w", ErrForbidden)
		}
		if err := tx.Delete(review).Error; err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}
		return recomputeRating(tx, recipeID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("review deleted",
		zap.String("review_id", reviewID.String()),
		zap.String("by", actor.UserID.String()),
	)
	return s.recipes.GetRecipe(ctx, recipeID)
}

func findReview(tx *gorm.DB, recipeID, reviewID uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := tx.First(&review, "id = ? AND recipe_id = ?", reviewID, recipeID).Error; err != nil {
		return nil, notFound("review", err)
	}
	return &review, nil
}

func validateReview(req *types.ReviewRequest) error {
	if req.Rating < 1 || req.Rating > 5 {
		return validationError("rating must be between 1 and 5")
	}
	if strings.TrimSpace(req.Comment) == "" {
		return validationError("comment is required")
	}
	return nil
}

// recomputeRating sets the recipe's average rating and review count from
// its current reviews.
func recomputeRating(tx *gorm.DB, recipeID uuid.UUID) error {
	var stats struct {
		Average float64
		Count   int
	}
	err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("recipe_id = ?", recipeID).
		Scan(&stats).Error
	if err != nil {
		return fmt.Errorf("failed to aggregate reviews: %w", err)
	}

	err = tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Updates(map[string]interface{}{
		"rating":      stats.Average,
		"num_reviews": stats.Count,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update recipe rating: %w", err)
	}
	return nil
}
