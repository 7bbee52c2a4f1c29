package services

import (
	"errors"

	"github.com/foodplate/foodplate-backend/internal/dto"
	"github.com/foodplate/foodplate-backend/internal/models"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Profile renders a user relative to the viewer (0 = anonymous).
func (s *UserService) Profile(viewerID, userID uint) (*dto.Profile, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	profile := renderProfile(&user, false)
	if viewerID != 0 {
		var count int64
		err := s.db.Model(&models.Subscription{}).
			Where("follower_id = ? AND following_id = ?", viewerID, userID).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		profile.IsSubscribed = count > 0
	}
	return &profile, nil
}

// List returns a page of profiles with is_subscribed resolved in one
// batched query for the whole page.
func (s *UserService) List(viewerID uint, page, limit int) ([]dto.Profile, int64, error) {
	var total int64
	if err := s.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := s.db.Order("username").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	followed := make(map[uint]struct{})
	if viewerID != 0 && len(users) > 0 {
		ids := make([]uint, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		var followingIDs []uint
		err := s.db.Model(&models.Subscription{}).
			Where("follower_id = ? AND following_id IN ?", viewerID, ids).
			Pluck("following_id", &followingIDs).Error
		if err != nil {
			return nil, 0, err
		}
		for _, id := range followingIDs {
			followed[id] = struct{}{}
		}
	}

	profiles := make([]dto.Profile, 0, len(users))
	for _, u := range users {
		_, isSubscribed := followed[u.ID]
		profiles = append(profiles, renderProfile(&u, isSubscribed))
	}
	return profiles, total, nil
}

// Subscriptions lists the authors the user follows, each with a capped
// recipe preview. recipesLimit <= 0 means no cap.
func (s *UserService) Subscriptions(userID uint, page, limit, recipesLimit int) ([]dto.SubscribedAuthor, int64, error) {
	followingIDs := s.db.Model(&models.Subscription{}).
		Select("following_id").
		Where("follower_id = ?", userID)

	var total int64
	if err := s.db.Model(&models.User{}).Where("id IN (?)", followingIDs).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authors []models.User
	err := s.db.Where("id IN (?)", followingIDs).
		Order("username").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&authors).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.SubscribedAuthor, 0, len(authors))
	for i := range authors {
		author, err := s.SubscribedAuthor(&authors[i], recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *author)
	}
	return out, total, nil
}

// SubscribedAuthor renders an author the caller is known to follow, so
// is_subscribed is trivially true.
func (s *UserService) SubscribedAuthor(author *models.User, recipesLimit int) (*dto.SubscribedAuthor, error) {
	var recipesCount int64
	if err := s.db.Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&recipesCount).Error; err != nil {
		return nil, err
	}

	query := s.db.Where("author_id = ?", author.ID).Order("name, id")
	if recipesLimit > 0 {
		query = query.Limit(recipesLimit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}

	minis := make([]dto.RecipeMini, 0, len(recipes))
	for _, r := range recipes {
		minis = append(minis, dto.RecipeMini{
			ID:          r.ID,
			Name:        r.Name,
			Image:       MediaURL(r.Image),
			CookingTime: r.CookingTime,
		})
	}

	return &dto.SubscribedAuthor{
		Profile:      renderProfile(author, true),
		Recipes:      minis,
		RecipesCount: recipesCount,
	}, nil
}

func renderProfile(u *models.User, isSubscribed bool) dto.Profile {
	return dto.Profile{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}
