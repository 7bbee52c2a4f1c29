package models

import "time"

// Recipe owns its ingredient lines and tag association rows; both are
// replaced wholesale on update. Recipes are hard-deleted so the DB-level
// cascades take favorites, cart entries, and lines with them.
type Recipe struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	AuthorID    uint               `gorm:"not null;index" json:"-"`
	Author      User               `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Name        string             `gorm:"size:200;not null" json:"name"`
	Image       string             `gorm:"size:255;not null" json:"image"`
	Text        string             `gorm:"type:text;not null" json:"text"`
	CookingTime int                `gorm:"not null" json:"cooking_time"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE;" json:"-"`
	Ingredients []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt   time.Time          `json:"-"`
	UpdatedAt   time.Time          `json:"-"`
}

// RecipeIngredient is one (ingredient, amount) line of a recipe.
type RecipeIngredient struct {
	ID           uint       `gorm:"primaryKey" json:"-"`
	RecipeID     uint       `gorm:"not null;index;uniqueIndex:idx_recipe_ingredient" json:"-"`
	IngredientID uint       `gorm:"not null;index;uniqueIndex:idx_recipe_ingredient" json:"-"`
	Ingredient   Ingredient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Amount       int        `gorm:"not null" json:"amount"`
}
