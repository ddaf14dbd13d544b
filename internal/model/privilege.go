package model

// Privilege represents a permission granted through a role
type Privilege struct {
	Code string `json:"code"` // e.g., "catalog:edit"
	Name string `json:"name"` // e.g., "Edit Catalog"
}

const (
	PrivCatalogView     = "catalog:view"
	PrivCatalogEdit     = "catalog:edit"
	PrivLedgerView      = "ledger:view"
	PrivLedgerEdit      = "ledger:edit"
	PrivLedgerReconcile = "ledger:reconcile"
	PrivAuditView       = "audit:view"
	PrivUserManage      = "user:manage"
)

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// Divisions, employees, items, attributes
	{Code: PrivCatalogView, Name: "View Catalog"},
	{Code: PrivCatalogEdit, Name: "Edit Catalog"},
	// Assign / transfer / unassign
	{Code: PrivLedgerView, Name: "View Ledger"},
	{Code: PrivLedgerEdit, Name: "Edit Ledger"},
	{Code: PrivLedgerReconcile, Name: "Reconcile Item Counts"},
	// Audit trail
	{Code: PrivAuditView, Name: "View Audit Log"},
	// Operators
	{Code: PrivUserManage, Name: "Manage Users"},
}
