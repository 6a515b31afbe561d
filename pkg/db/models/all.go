package models

// All lists every persisted model, used by SQLite auto-migration.
func All() []any {
	return []any{
		&User{},
		&PermissionAssignment{},
		&RoleTemplate{},
		&Customer{},
		&ScheduleEvent{},
		&ServiceLog{},
		&InventoryItem{},
		&AuditLog{},
		&Notification{},
	}
}
