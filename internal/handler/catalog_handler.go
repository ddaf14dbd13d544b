package handler

import (
	"go-asset-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves divisions, employees, items and unit attributes.
type CatalogHandler struct {
	divisions  service.DivisionService
	employees  service.EmployeeService
	items      service.ItemService
	attributes service.AttributeService
}

func NewCatalogHandler(d service.DivisionService, e service.EmployeeService, i service.ItemService, a service.AttributeService) *CatalogHandler {
	return &CatalogHandler{divisions: d, employees: e, items: i, attributes: a}
}

func deletedResponse(c *fiber.Ctx, deleted bool, what string) error {
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": what + " not found"})
	}
	return c.JSON(fiber.Map{"message": what + " deleted"})
}

// ---- divisions ----

func (h *CatalogHandler) CreateDivision(c *fiber.Ctx) error {
	var req service.DivisionRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	division, err := h.divisions.Create(c.UserContext(), req, actorID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Division created", "data": division})
}

func (h *CatalogHandler) GetDivisions(c *fiber.Ctx) error {
	divisions, err := h.divisions.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": divisions})
}

func (h *CatalogHandler) GetDivision(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	division, err := h.divisions.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": division})
}

func (h *CatalogHandler) UpdateDivision(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req service.DivisionRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	division, err := h.divisions.Update(c.UserContext(), id, req, actorID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Division updated", "data": division})
}

func (h *CatalogHandler) DeleteDivision(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	deleted, err := h.divisions.Delete(c.UserContext(), id, actorID(c))
	if err != nil {
		return fail(c, err)
	}
	return deletedResponse(c, deleted, "Division")
}

// ---- employees ----

func (h *CatalogHandler) CreateEmployee(c *fiber.Ctx) error {
	var req service.CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	employee, err := h.employees.Create(c.UserContext(), req, actorID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Employee created", "data": employee})
}

func (h *CatalogHandler) GetEmployees(c *fiber.Ctx) error {
	employees, err := h.employees.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": employees})
}

func (h *CatalogHandler) GetEmployee(c *fiber.Ctx) error {
	employee, err := h.employees.Get(c.UserContext(), c.Params("empID"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": employee})
}

func (h *CatalogHandler) UpdateEmployee(c *fiber.Ctx) error {
	var req service.UpdateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	employee, err := h.employees.Update(c.UserContext(), c.Params("empID"), req, actorID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Employee updated", "data": employee})
}

func (h *CatalogHandler) DeleteEmployee(c *fiber.Ctx) error {
	deleted, err := h.employees.Delete(c.UserContext(), c.Params("empID"), actorID(c))
	if err != nil {
		return fail(c, err)
	}
	return deletedResponse(c, deleted, "Employee")
}

// ---- items ----

func (h *CatalogHandler) CreateItem(c *fiber.Ctx) error {
	var req service.ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	item, err := h.items.Create(c.UserContext(), req, actorID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Item created", "data": item})
}

func (h *CatalogHandler) GetItems(c *fiber.Ctx) error {
	items, err := h.items.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": items})
}

func (h *CatalogHandler) GetItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	item, err := h.items.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": item})
}

func (h *CatalogHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req service.ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	item, err := h.items.Update(c.UserContext(), id, req, actorID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item updated", "data": item})
}

func (h *CatalogHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	deleted, err := h.items.Delete(c.UserContext(), id, actorID(c))
	if err != nil {
		return fail(c, err)
	}
	return deletedResponse(c, deleted, "Item")
}

// ---- attributes ----

func (h *CatalogHandler) GetAttributes(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	attrs, err := h.attributes.List(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": attrs})
}

func (h *CatalogHandler) AddAttribute(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req service.AttributeRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	attr, err := h.attributes.Add(c.UserContext(), id, req, actorID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Attribute added", "data": attr})
}

func (h *CatalogHandler) UpdateAttribute(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req service.AttributeRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	req.Name = c.Params("name")
	attr, err := h.attributes.Update(c.UserContext(), id, req, actorID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Attribute updated", "data": attr})
}

// DeleteAttribute removes one attribute, or all of the unit's attributes when
// no name is given.
func (h *CatalogHandler) DeleteAttribute(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	removed, err := h.attributes.Delete(c.UserContext(), id, c.Params("name"), actorID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Attributes removed", "removed": removed})
}
