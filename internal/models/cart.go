package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart is created lazily, at most one per user.
type Cart struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    *uint      `gorm:"uniqueIndex" json:"user_id"`
	User      *User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Items     []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].Subtotal())
	}
	return total
}

func (c *Cart) TotalItems() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// CartItem references a catalog entry, never a serialized unit.
// (cart_id, catalog_entry_id) is unique: adding the same entry again merges quantities.
type CartItem struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	CartID         uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_entry" json:"cart_id"`
	CatalogEntryID uint          `gorm:"not null;uniqueIndex:idx_cart_items_cart_entry" json:"catalog_entry_id"`
	CatalogEntry   *CatalogEntry `gorm:"constraint:OnDelete:CASCADE" json:"catalog_entry,omitempty"`
	Quantity       int           `gorm:"not null" json:"quantity"`
}

// Subtotal needs CatalogEntry preloaded; it is zero otherwise.
func (i *CartItem) Subtotal() decimal.Decimal {
	if i.CatalogEntry == nil {
		return decimal.Zero
	}
	return i.CatalogEntry.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
