package dto

import "github.com/foodplate/foodplate-backend/internal/models"

// RecipeInput is the write shape for create and update. Image carries a
// base64 data URI; an empty image is accepted on update only and keeps the
// stored file.
type RecipeInput struct {
	Name        string            `json:"name"`
	Text        string            `json:"text"`
	Image       string            `json:"image"`
	CookingTime int               `json:"cooking_time"`
	Tags        []uint            `json:"tags"`
	Ingredients []IngredientInput `json:"ingredients"`
}

type IngredientInput struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// IngredientAmount is one rendered ingredient line of a recipe.
type IngredientAmount struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeResponse struct {
	ID               uint               `json:"id"`
	Tags             []models.Tag       `json:"tags"`
	Author           Profile            `json:"author"`
	Ingredients      []IngredientAmount `json:"ingredients"`
	Name             string             `json:"name"`
	Image            string             `json:"image"`
	Text             string             `json:"text"`
	CookingTime      int                `json:"cooking_time"`
	IsFavorited      bool               `json:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
}

// RecipeMini is the reduced projection returned from toggle endpoints and
// embedded in subscription listings.
type RecipeMini struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// RecipeFilter is the AND-combined filter set for recipe listing.
type RecipeFilter struct {
	TagSlugs       []string
	AuthorID       uint
	Favorited      bool
	InShoppingCart bool
	Page           int
	Limit          int
}
