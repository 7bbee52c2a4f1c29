package handlers

import (
	"github.com/foodplate/foodplate-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type TagHandler struct {
	reference *services.ReferenceService
}

func NewTagHandler(reference *services.ReferenceService) *TagHandler {
	return &TagHandler{reference: reference}
}

func (h *TagHandler) List(c *fiber.Ctx) error {
	tags, err := h.reference.ListTags()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(tags)
}

func (h *TagHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid tag id")
	}

	tag, err := h.reference.GetTag(uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(tag)
}
