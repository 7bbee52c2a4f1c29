package services

import (
	"errors"
	"strings"

	"github.com/foodplate/foodplate-backend/internal/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

// ReferenceService serves the read-only tag and ingredient catalogs.
// Neither listing is paginated.
type ReferenceService struct {
	db *gorm.DB
}

func NewReferenceService(db *gorm.DB) *ReferenceService {
	return &ReferenceService{db: db}
}

func (s *ReferenceService) ListTags() ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *ReferenceService) GetTag(id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// ListIngredients filters by case-insensitive name prefix when namePrefix
// is non-empty.
func (s *ReferenceService) ListIngredients(namePrefix string) ([]models.Ingredient, error) {
	query := s.db.Order("name")
	if namePrefix != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, escapeLike(namePrefix)+"%")
	}
	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func escapeLike(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer("%", `\%`, "_", `\_`).Replace(s)
}

func (s *ReferenceService) GetIngredient(id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}
