package handlers

import (
	"errors"

	"github.com/foodplate/foodplate-backend/internal/dto"
	"github.com/foodplate/foodplate-backend/internal/middleware"
	"github.com/foodplate/foodplate-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	users     *services.UserService
	relations *services.RelationService
}

func NewUserHandler(users *services.UserService, relations *services.RelationService) *UserHandler {
	return &UserHandler{users: users, relations: relations}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	viewerID, _ := middleware.ViewerID(c)
	page, limit := pageParams(c)

	profiles, total, err := h.users.List(viewerID, page, limit)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(dto.NewPage(profiles, total, page, limit))
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	profile, err := h.users.Profile(userID, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(profile)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid user id")
	}
	viewerID, _ := middleware.ViewerID(c)

	profile, err := h.users.Profile(viewerID, uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(profile)
}

func (h *UserHandler) Subscriptions(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	page, limit := pageParams(c)
	recipesLimit := c.QueryInt("recipes_limit", 0)

	authors, total, err := h.users.Subscriptions(userID, page, limit, recipesLimit)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(dto.NewPage(authors, total, page, limit))
}

func (h *UserHandler) Subscribe(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid user id")
	}
	recipesLimit := c.QueryInt("recipes_limit", 0)

	author, err := h.relations.Subscribe(userID, uint(id), recipesLimit)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(author)
}

func (h *UserHandler) Unsubscribe(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid user id")
	}

	if err := h.relations.Unsubscribe(userID, uint(id)); err != nil {
		// A subscription that never existed is a missing resource here,
		// unlike the favorite/cart convention.
		if errors.Is(err, services.ErrRelationMissing) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
