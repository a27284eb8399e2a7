package models

import "time"

// AuditLog is append-only: the application creates entries and never edits or removes them.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	UserID *uint `gorm:"index" json:"user_id"`
	User   *User `gorm:"constraint:OnDelete:SET NULL" json:"user,omitempty"`

	Action      string `gorm:"size:50;not null" json:"action"`      // CREATE, EDIT, DELETE
	Description string `gorm:"type:text" json:"description"`
	Module      string `gorm:"size:50;not null;index" json:"module"` // Administration, Clients
	IPAddress   string `gorm:"size:45" json:"ip_address"`
}

const (
	ActionCreate = "CREATE"
	ActionEdit   = "EDIT"
	ActionDelete = "DELETE"

	ModuleAdministration = "Administration"
	ModuleClients        = "Clients"
)
