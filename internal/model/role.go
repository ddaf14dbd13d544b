package model

// Role codes as constants
const (
	RoleAdmin  = "admin"  // everything, including user management
	RoleClerk  = "clerk"  // day-to-day catalog and ledger work
	RoleViewer = "viewer" // read-only
)

// IsValidRole reports whether code names a known role.
func IsValidRole(code string) bool {
	_, ok := rolePrivileges[code]
	return ok
}

// RolePrivileges returns the privilege codes granted to a role.
// Unknown roles get none.
func RolePrivileges(role string) []string {
	return rolePrivileges[role]
}

var rolePrivileges = map[string][]string{
	RoleAdmin: privilegeCodes(DefaultPrivileges),
	RoleClerk: privilegeCodes(DefaultPrivileges, PrivUserManage, PrivLedgerReconcile),
	RoleViewer: {
		PrivCatalogView,
		PrivLedgerView,
		PrivAuditView,
	},
}

func privilegeCodes(all []Privilege, exclude ...string) []string {
	codes := make([]string, 0, len(all))
next:
	for _, p := range all {
		for _, e := range exclude {
			if p.Code == e {
				continue next
			}
		}
		codes = append(codes, p.Code)
	}
	return codes
}
