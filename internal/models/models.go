package models

// All lists every model managed by AutoMigrate.
func All() []any {
	return []any{
		&Permission{},
		&Role{},
		&User{},
		&Department{},
		&City{},
		&Client{},
		&Brand{},
		&Category{},
		&CatalogEntry{},
		&SerializedItem{},
		&Cart{},
		&CartItem{},
		&AuditLog{},
	}
}
