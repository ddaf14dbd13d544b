package model

// All returns every persisted entity, in migration order.
func All() []interface{} {
	return []interface{}{
		&Division{},
		&Employee{},
		&Item{},
		&Assignment{},
		&AssignmentAttribute{},
		&TransferHistory{},
		&AuditLog{},
		&User{},
	}
}
