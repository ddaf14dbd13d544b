package handler

import (
	"go-asset-ledger/internal/middleware"
	"go-asset-ledger/internal/model"
	"go-asset-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Routes bundles the handlers mounted under /api/v1.
type Routes struct {
	Auth      *AuthHandler
	Users     *UserHandler
	Catalog   *CatalogHandler
	Ledger    *LedgerHandler
	Search    *SearchHandler
	Dashboard *DashboardHandler

	AuthService service.AuthService
}

func (r *Routes) Mount(app fiber.Router) {
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	api.Post("/auth/login", r.Auth.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(r.AuthService))
	protected.Post("/auth/change-password", r.Auth.ChangePassword)
	protected.Get("/auth/me", r.Auth.Me)

	protected.Get("/dashboard/stats", r.Dashboard.GetDashboardStats)

	view := middleware.RequirePrivilege(model.PrivCatalogView)
	edit := middleware.RequirePrivilege(model.PrivCatalogEdit)

	protected.Get("/divisions", view, r.Catalog.GetDivisions)
	protected.Get("/divisions/:id", view, r.Catalog.GetDivision)
	protected.Get("/divisions/:id/details", view, r.Search.DivisionDetails)
	protected.Post("/divisions", edit, r.Catalog.CreateDivision)
	protected.Put("/divisions/:id", edit, r.Catalog.UpdateDivision)
	protected.Delete("/divisions/:id", edit, r.Catalog.DeleteDivision)

	protected.Get("/employees", view, r.Catalog.GetEmployees)
	protected.Get("/employees/:empID", view, r.Catalog.GetEmployee)
	protected.Post("/employees", edit, r.Catalog.CreateEmployee)
	protected.Put("/employees/:empID", edit, r.Catalog.UpdateEmployee)
	protected.Delete("/employees/:empID", edit, r.Catalog.DeleteEmployee)

	protected.Get("/items", view, r.Catalog.GetItems)
	protected.Get("/items/:id", view, r.Catalog.GetItem)
	protected.Post("/items", edit, r.Catalog.CreateItem)
	protected.Put("/items/:id", edit, r.Catalog.UpdateItem)
	protected.Delete("/items/:id", edit, r.Catalog.DeleteItem)

	protected.Get("/search/employees", view, r.Search.Employees)
	protected.Get("/search/items", view, r.Search.Items)
	protected.Get("/search/divisions", view, r.Search.Divisions)
	protected.Get("/search/units", middleware.RequirePrivilege(model.PrivLedgerView), r.Search.Units)

	// Ledger
	ledgerView := middleware.RequirePrivilege(model.PrivLedgerView)
	ledgerEdit := middleware.RequirePrivilege(model.PrivLedgerEdit)

	protected.Get("/assignments", ledgerView, r.Ledger.GetAssignments)
	protected.Post("/assignments/assign", ledgerEdit, r.Ledger.Assign)
	protected.Post("/assignments/transfer", ledgerEdit, r.Ledger.Transfer)
	protected.Post("/assignments/unassign", ledgerEdit, r.Ledger.Unassign)
	protected.Get("/assignments/:id/attributes", ledgerView, r.Catalog.GetAttributes)
	protected.Post("/assignments/:id/attributes", ledgerEdit, r.Catalog.AddAttribute)
	protected.Put("/assignments/:id/attributes/:name", ledgerEdit, r.Catalog.UpdateAttribute)
	protected.Delete("/assignments/:id/attributes/:name?", ledgerEdit, r.Catalog.DeleteAttribute)
	protected.Get("/transfers", ledgerView, r.Ledger.GetTransfers)

	protected.Get("/ledger/verify", middleware.RequireAnyPrivilege(model.PrivLedgerReconcile, model.PrivAuditView), r.Ledger.Verify)
	protected.Post("/ledger/reconcile", middleware.RequirePrivilege(model.PrivLedgerReconcile), r.Ledger.Reconcile)

	protected.Get("/audit", middleware.RequirePrivilege(model.PrivAuditView), r.Search.Audit)

	// User management
	protected.Get("/users", middleware.RequirePrivilege(model.PrivUserManage), r.Users.GetUsers)
	protected.Get("/users/:id", middleware.RequirePrivilege(model.PrivUserManage), r.Users.GetUser)
	protected.Post("/users", middleware.RequirePrivilege(model.PrivUserManage), r.Users.CreateUser)
}
