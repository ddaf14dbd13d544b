package handler

import (
	"errors"

	"go-asset-ledger/internal/ledger"
	"go-asset-ledger/internal/repository"
	"go-asset-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type LedgerHandler struct {
	ledger *ledger.Ledger
	search service.SearchService
}

func NewLedgerHandler(l *ledger.Ledger, search service.SearchService) *LedgerHandler {
	return &LedgerHandler{ledger: l, search: search}
}

// POST /api/v1/assignments/assign
func (h *LedgerHandler) Assign(c *fiber.Ctx) error {
	var req ledger.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	req.UserID = actorID(c)

	unit, err := h.ledger.Assign(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Item assigned", "data": unit})
}

// POST /api/v1/assignments/transfer
func (h *LedgerHandler) Transfer(c *fiber.Ctx) error {
	var req ledger.TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	req.UserID = actorID(c)

	result, err := h.ledger.Transfer(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	msg := "Item transferred"
	if !result.SourceFound {
		msg = "Item assigned; source employee held no matching unit"
	}
	return c.JSON(fiber.Map{"message": msg, "data": result})
}

// POST /api/v1/assignments/unassign
func (h *LedgerHandler) Unassign(c *fiber.Ctx) error {
	var req ledger.UnassignRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	req.UserID = actorID(c)

	removed, err := h.ledger.Unassign(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No matching assignment"})
	}
	return c.JSON(fiber.Map{"message": "Item unassigned"})
}

// GET /api/v1/assignments?emp_id=
func (h *LedgerHandler) GetAssignments(c *fiber.Ctx) error {
	empID := c.Query("emp_id")
	if empID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "emp_id is required"})
	}
	units, err := h.search.ListAssignments(c.UserContext(), empID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": units})
}

// GET /api/v1/transfers?item_id=&emp_id=&limit=
func (h *LedgerHandler) GetTransfers(c *fiber.Ctx) error {
	history, err := h.search.ListTransfers(c.UserContext(), repository.TransferFilter{
		ItemID: queryID(c, "item_id"),
		EmpID:  c.Query("emp_id"),
		Limit:  c.QueryInt("limit", 100),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": history})
}

// GET /api/v1/ledger/verify
func (h *LedgerHandler) Verify(c *fiber.Ctx) error {
	err := h.ledger.Verify(c.UserContext())
	if err == nil {
		return c.JSON(fiber.Map{"ok": true, "violations": []ledger.InvariantViolation{}})
	}
	if !errors.Is(err, ledger.ErrInvariantViolation) {
		return fail(c, err)
	}

	var found []*ledger.InvariantViolation
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			var v *ledger.InvariantViolation
			if errors.As(e, &v) {
				found = append(found, v)
			}
		}
	}
	return c.JSON(fiber.Map{"ok": false, "violations": found})
}

// POST /api/v1/ledger/reconcile
func (h *LedgerHandler) Reconcile(c *fiber.Ctx) error {
	repaired, err := h.ledger.Reconcile(c.UserContext(), actorID(c))
	if err != nil {
		return fail(c, err)
	}
	if repaired == nil {
		repaired = []ledger.InvariantViolation{}
	}
	return c.JSON(fiber.Map{"message": "Reconciled", "repaired": repaired})
}
