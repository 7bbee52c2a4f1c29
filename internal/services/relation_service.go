package services

import (
	"github.com/foodplate/foodplate-backend/internal/dto"
	"github.com/foodplate/foodplate-backend/internal/models"
	"gorm.io/gorm"
)

// RelationService is the add/remove toggle over the three join-row kinds:
// favorites, cart entries, and subscriptions. Duplicates are checked before
// insert so callers get a clean conflict error; the composite unique index
// stays as the backstop for concurrent adds, and an insert that loses that
// race is reported as the same conflict.
type RelationService struct {
	db    *gorm.DB
	users *UserService
}

func NewRelationService(db *gorm.DB, users *UserService) *RelationService {
	return &RelationService{db: db, users: users}
}

func (s *RelationService) AddFavorite(userID, recipeID uint) (*dto.RecipeMini, error) {
	return s.addRecipeRelation(&models.Favorite{UserID: userID, RecipeID: recipeID}, userID, recipeID)
}

func (s *RelationService) RemoveFavorite(userID, recipeID uint) error {
	return s.removeRecipeRelation(&models.Favorite{}, userID, recipeID)
}

func (s *RelationService) AddCartEntry(userID, recipeID uint) (*dto.RecipeMini, error) {
	return s.addRecipeRelation(&models.CartEntry{UserID: userID, RecipeID: recipeID}, userID, recipeID)
}

func (s *RelationService) RemoveCartEntry(userID, recipeID uint) error {
	return s.removeRecipeRelation(&models.CartEntry{}, userID, recipeID)
}

// addRecipeRelation inserts a (user, recipe) join row of the given kind and
// returns the mini projection of the recipe.
func (s *RelationService) addRecipeRelation(row interface{}, userID, recipeID uint) (*dto.RecipeMini, error) {
	var recipe models.Recipe
	if err := s.db.First(&recipe, recipeID).Error; err != nil {
		return nil, ErrRecipeNotFound
	}

	var count int64
	if err := s.db.Model(row).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrRelationExists
	}

	if err := s.db.Create(row).Error; err != nil {
		// Lost a concurrent race against the unique index.
		return nil, ErrRelationExists
	}

	return &dto.RecipeMini{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       MediaURL(recipe.Image),
		CookingTime: recipe.CookingTime,
	}, nil
}

// removeRecipeRelation deletes the join row. A missing row is a reported
// error, not a silent success.
func (s *RelationService) removeRecipeRelation(row interface{}, userID, recipeID uint) error {
	var recipe models.Recipe
	if err := s.db.First(&recipe, recipeID).Error; err != nil {
		return ErrRecipeNotFound
	}

	res := s.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRelationMissing
	}
	return nil
}

// Subscribe makes follower follow the target author and returns the target
// profile with a capped recipe preview.
func (s *RelationService) Subscribe(followerID, followingID uint, recipesLimit int) (*dto.SubscribedAuthor, error) {
	if followerID == followingID {
		return nil, ErrSelfSubscribe
	}

	var target models.User
	if err := s.db.First(&target, followingID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	var count int64
	err := s.db.Model(&models.Subscription{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrRelationExists
	}

	sub := models.Subscription{FollowerID: followerID, FollowingID: followingID}
	if err := s.db.Create(&sub).Error; err != nil {
		return nil, ErrRelationExists
	}

	return s.users.SubscribedAuthor(&target, recipesLimit)
}

func (s *RelationService) Unsubscribe(followerID, followingID uint) error {
	var target models.User
	if err := s.db.First(&target, followingID).Error; err != nil {
		return ErrUserNotFound
	}

	res := s.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRelationMissing
	}
	return nil
}
