package services

import (
	"fmt"
	"strings"

	"github.com/foodplate/foodplate-backend/internal/models"
	"gorm.io/gorm"
)

// ShoppingListItem is one aggregated group of the report. Grouping is by
// (name, measurement unit), not ingredient id, so duplicate reference rows
// with the same name and unit merge into one line.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

const shoppingListHeader = "Shopping list:"

// ShoppingListService aggregates the ingredient lines of every recipe in a
// user's cart.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Aggregate sums amounts per (name, unit) group, ordered by name then unit
// so the report is deterministic. An empty cart yields an empty slice.
func (s *ShoppingListService) Aggregate(userID uint) ([]ShoppingListItem, error) {
	cartRecipes := s.db.Model(&models.CartEntry{}).
		Select("recipe_id").
		Where("user_id = ?", userID)

	var items []ShoppingListItem
	err := s.db.Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id IN (?)", cartRecipes).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Render produces the flat text report: the fixed header line followed by
// one "{name} - {amount}, {unit}" line per group.
func (s *ShoppingListService) Render(items []ShoppingListItem) string {
	var b strings.Builder
	b.WriteString(shoppingListHeader)
	for _, item := range items {
		fmt.Fprintf(&b, "\n%s - %d, %s", item.Name, item.Amount, item.MeasurementUnit)
	}
	return b.String()
}
