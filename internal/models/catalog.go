package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CatalogStatus string

const (
	CatalogActive   CatalogStatus = "active"
	CatalogInactive CatalogStatus = "inactive"
)

func (s CatalogStatus) Valid() bool {
	return s == CatalogActive || s == CatalogInactive
}

type ItemStatus string

const (
	ItemAvailable      ItemStatus = "available"
	ItemReserved       ItemStatus = "reserved"
	ItemSold           ItemStatus = "sold"
	ItemInRepair       ItemStatus = "in_repair"
	ItemDecommissioned ItemStatus = "decommissioned"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemAvailable, ItemReserved, ItemSold, ItemInRepair, ItemDecommissioned:
		return true
	}
	return false
}

type Brand struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}

func (b *Brand) SetName(name string) { b.Name = name }

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}

func (c *Category) SetName(name string) { c.Name = name }

// CatalogEntry is a sellable SKU. Physical units are SerializedItems.
type CatalogEntry struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	SKU            string          `gorm:"uniqueIndex;size:50;not null" json:"sku"`
	Name           string          `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description    string          `gorm:"type:text" json:"description"`
	ImageURL       string          `gorm:"size:500" json:"image_url"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	WarrantyMonths int             `gorm:"not null" json:"warranty_months"`
	Model          string          `gorm:"size:100" json:"model"`
	Status         CatalogStatus   `gorm:"type:varchar(15);not null;index" json:"status"`

	BrandID    *uint     `gorm:"index" json:"brand_id"`
	Brand      *Brand    `gorm:"constraint:OnDelete:SET NULL" json:"brand,omitempty"`
	CategoryID *uint     `gorm:"index" json:"category_id"`
	Category   *Category `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`

	// AvailableStock counts serialized items in status available; filled by the service.
	AvailableStock int64 `gorm:"-" json:"available_stock"`

	CreatedAt time.Time `json:"created_at"`
}

type SerializedItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	SerialNumber string          `gorm:"uniqueIndex;size:100;not null" json:"serial_number"`
	Cost         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cost"`
	Status       ItemStatus      `gorm:"type:varchar(15);not null;index" json:"status"`
	ReceivedAt   time.Time       `gorm:"autoCreateTime" json:"received_at"`

	CatalogEntryID uint          `gorm:"not null;index" json:"catalog_entry_id"`
	CatalogEntry   *CatalogEntry `gorm:"constraint:OnDelete:CASCADE" json:"catalog_entry,omitempty"`
}
