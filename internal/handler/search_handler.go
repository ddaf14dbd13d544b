package handler

import (
	"go-asset-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SearchHandler struct {
	service service.SearchService
}

func NewSearchHandler(s service.SearchService) *SearchHandler {
	return &SearchHandler{service: s}
}

// GET /api/v1/search/employees?q=&division=
func (h *SearchHandler) Employees(c *fiber.Ctx) error {
	rows, err := h.service.SearchEmployees(c.UserContext(), c.Query("q"), c.Query("division"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": rows})
}

// GET /api/v1/search/items?q=
func (h *SearchHandler) Items(c *fiber.Ctx) error {
	rows, err := h.service.SearchItems(c.UserContext(), c.Query("q"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": rows})
}

// GET /api/v1/search/divisions?q=
func (h *SearchHandler) Divisions(c *fiber.Ctx) error {
	rows, err := h.service.SearchDivisions(c.UserContext(), c.Query("q"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": rows})
}

// GET /api/v1/search/units?q=
func (h *SearchHandler) Units(c *fiber.Ctx) error {
	rows, err := h.service.SearchByUniqueKey(c.UserContext(), c.Query("q"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": rows})
}

// GET /api/v1/divisions/:id/details
func (h *SearchHandler) DivisionDetails(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	details, err := h.service.GetDivisionDetails(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": details})
}

// GET /api/v1/audit?limit=&action=
func (h *SearchHandler) Audit(c *fiber.Ctx) error {
	entries, err := h.service.RecentAudit(c.UserContext(), c.QueryInt("limit", 100), c.Query("action"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": entries})
}
