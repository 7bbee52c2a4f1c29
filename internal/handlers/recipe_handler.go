package handlers

import (
	"github.com/foodplate/foodplate-backend/internal/dto"
	"github.com/foodplate/foodplate-backend/internal/middleware"
	"github.com/foodplate/foodplate-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type RecipeHandler struct {
	recipes      *services.RecipeService
	relations    *services.RelationService
	shoppingList *services.ShoppingListService
}

func NewRecipeHandler(
	recipes *services.RecipeService,
	relations *services.RelationService,
	shoppingList *services.ShoppingListService,
) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, relations: relations, shoppingList: shoppingList}
}

func (h *RecipeHandler) List(c *fiber.Ctx) error {
	viewerID, _ := middleware.ViewerID(c)
	page, limit := pageParams(c)

	filter := dto.RecipeFilter{
		TagSlugs:       queryValues(c, "tags"),
		AuthorID:       uint(c.QueryInt("author", 0)),
		Favorited:      c.QueryBool("is_favorited", false),
		InShoppingCart: c.QueryBool("is_in_shopping_cart", false),
		Page:           page,
		Limit:          limit,
	}

	recipes, total, err := h.recipes.List(viewerID, filter)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(dto.NewPage(recipes, total, page, limit))
}

func (h *RecipeHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid recipe id")
	}
	viewerID, _ := middleware.ViewerID(c)

	recipe, err := h.recipes.Get(viewerID, uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(recipe)
}

func (h *RecipeHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var input dto.RecipeInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	recipe, err := h.recipes.Create(userID, &input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

func (h *RecipeHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid recipe id")
	}

	var input dto.RecipeInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	recipe, err := h.recipes.Update(userID, uint(id), &input)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(recipe)
}

func (h *RecipeHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid recipe id")
	}

	if err := h.recipes.Delete(userID, uint(id)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RecipeHandler) Favorite(c *fiber.Ctx) error {
	return h.addRelation(c, h.relations.AddFavorite)
}

func (h *RecipeHandler) Unfavorite(c *fiber.Ctx) error {
	return h.removeRelation(c, h.relations.RemoveFavorite)
}

func (h *RecipeHandler) AddToCart(c *fiber.Ctx) error {
	return h.addRelation(c, h.relations.AddCartEntry)
}

func (h *RecipeHandler) RemoveFromCart(c *fiber.Ctx) error {
	return h.removeRelation(c, h.relations.RemoveCartEntry)
}

func (h *RecipeHandler) addRelation(c *fiber.Ctx, add func(userID, recipeID uint) (*dto.RecipeMini, error)) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid recipe id")
	}

	mini, err := add(userID, uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(mini)
}

func (h *RecipeHandler) removeRelation(c *fiber.Ctx, remove func(userID, recipeID uint) error) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid recipe id")
	}

	if err := remove(userID, uint(id)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RecipeHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	items, err := h.shoppingList.Aggregate(userID)
	if err != nil {
		return fail(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="shopping_list.txt"`)
	return c.SendString(h.shoppingList.Render(items))
}

// queryValues reads a repeatable query parameter, also accepting the
// comma-separated form.
func queryValues(c *fiber.Ctx, key string) []string {
	var values []string
	for _, v := range c.Context().QueryArgs().PeekMulti(key) {
		for _, part := range splitNonEmpty(string(v)) {
			values = append(values, part)
		}
	}
	return values
}

func splitNonEmpty(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
