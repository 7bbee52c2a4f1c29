package handlers

import (
	"github.com/foodplate/foodplate-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type IngredientHandler struct {
	reference *services.ReferenceService
}

func NewIngredientHandler(reference *services.ReferenceService) *IngredientHandler {
	return &IngredientHandler{reference: reference}
}

func (h *IngredientHandler) List(c *fiber.Ctx) error {
	ingredients, err := h.reference.ListIngredients(c.Query("name"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ingredients)
}

func (h *IngredientHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid ingredient id")
	}

	ingredient, err := h.reference.GetIngredient(uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ingredient)
}
