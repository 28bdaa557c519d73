package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/tastetrail/backend/internal/models"
	"github.com/pageza/tastetrail/backend/internal/types"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// UserService handles profile management and admin user operations.
type UserService struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ IUserService = (*UserService)(nil)

func NewUserService(db *gorm.DB, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{db: db, logger: logger}
}

// GetProfile retrieves a user's profile
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, notFound("user", err)
	}
	return &user, nil
}

// UpdateProfile updates a user's profile
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validationError("name cannot be empty")
		}
		user.Name = name
	}
	if req.DietaryPreferences != nil {
		user.DietaryPreferences = models.StringArray(*req.DietaryPreferences)
	}
	if req.Allergies != nil {
		user.Allergies = models.StringArray(*req.Allergies)
	}
	if req.FavoriteCuisines != nil {
		user.FavoriteCuisines = models.StringArray(*req.FavoriteCuisines)
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if !checkPassword(user.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	if len(next) < 6 {
		return validationError("password must be at least 6 characters")
	}

	hash, err := hashPassword(next)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password_hash", hash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// DeleteAccount removes the caller's account once the password is confirmed.
func (s *UserService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if !checkPassword(user.PasswordHash, password) {
		return ErrInvalidCredentials
	}
	return s.deleteUser(ctx, user.ID)
}

// ListUsers returns one page of users matching the query and the total count.
func (s *UserService) ListUsers(ctx context.Context, q types.ListUsersQuery) ([]models.User, int64, error) {
	page, limit := pageBounds(q.Page, q.Limit)

	query := s.db.WithContext(ctx).Model(&models.User{})
	if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" {
		like := "%" + search + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	if q.Role != "" {
		query = query.Where("role = ?", q.Role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	if err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// UpdateRole sets a user's role. Admins cannot change their own role.
func (s *UserService) UpdateRole(ctx context.Context, actor Actor, userID uuid.UUID, role string) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, validationError("role must be %q or %q", models.RoleUser, models.RoleAdmin)
	}
	if actor.UserID == userID {
		return nil, validationError("cannot change your own role")
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("role", role).Error; err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	user.Role = role

	s.logger.Info("user role updated",
		zap.String("user_id", userID.String()),
		zap.String("role", role),
		zap.String("by", actor.UserID.String()),
	)
	return user, nil
}

// GrantAdmin promotes the account registered under email. It backs the
// operator command and is not exposed over HTTP.
func (s *UserService) GrantAdmin(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		return nil, notFound("user", err)
	}
	if user.Role == models.RoleAdmin {
		return &user, nil
	}
	if err := s.db.WithContext(ctx).Model(&user).Update("role", models.RoleAdmin).Error; err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	user.Role = models.RoleAdmin

	s.logger.Info("admin granted", zap.String("user_id", user.ID.String()))
	return &user, nil
}

// ToggleDisabled flips the disabled flag of a user.
func (s *UserService) ToggleDisabled(ctx context.Context, actor Actor, userID uuid.UUID) (*models.User, error) {
	if actor.UserID == userID {
		return nil, validationError("cannot disable your own account")
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Disabled = !user.Disabled
	if err := s.db.WithContext(ctx).Model(user).Update("disabled", user.Disabled).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("user disabled flag changed",
		zap.String("user_id", userID.String()),
		zap.Bool("disabled", user.Disabled),
		zap.String("by", actor.UserID.String()),
	)
	return user, nil
}

// DeleteUser removes another user's account.
func (s *UserService) DeleteUser(ctx context.Context, actor Actor, userID uuid.UUID) error {
	if actor.UserID == userID {
		return validationError("use account deletion to remove your own account")
	}
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return err
	}
	return s.deleteUser(ctx, userID)
}

// deleteUser removes the user and everything only they can see. Recipes and
// reviews they wrote stay published.
func (s *UserService) deleteUser(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		planIDs := tx.Model(&models.MealPlan{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("meal_plan_id IN (?)", planIDs).Delete(&models.MealPlanEntry{}).Error; err != nil {
			return fmt.Errorf("failed to delete meal plan entries: %w", err)
		}
		collectionIDs := tx.Model(&models.Collection{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("collection_id IN (?)", collectionIDs).Delete(&models.CollectionRecipe{}).Error; err != nil {
			return fmt.Errorf("failed to delete collection entries: %w", err)
		}

		owned := []interface{}{
			&models.MealPlan{},
			&models.Collection{},
			&models.SavedRecipe{},
			&models.ShoppingList{},
		}
		for _, m := range owned {
			if err := tx.Where("user_id = ?", userID).Delete(m).Error; err != nil {
				return fmt.Errorf("failed to delete user data: %w", err)
			}
		}

		if err := tx.Delete(&models.User{}, "id = ?", userID).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

func pageBounds(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
