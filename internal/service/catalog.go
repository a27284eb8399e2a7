package service

import (
	"context"
	"fmt"
	"strings"

	"shop-admin/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultWarrantyMonths = 12

type CatalogEntryInput struct {
	SKU            string
	Name           string
	Description    string
	ImageURL       string
	Price          decimal.Decimal
	WarrantyMonths *int
	Model          string
	Status         models.CatalogStatus
	BrandID        *uint
	CategoryID     *uint
}

type CatalogFilter struct {
	ListParams
	Status     models.CatalogStatus
	BrandID    uint
	CategoryID uint
}

type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) List(ctx context.Context, f CatalogFilter) (Page[models.CatalogEntry], error) {
	f.normalize()
	if f.Status != "" && !f.Status.Valid() {
		return Page[models.CatalogEntry]{}, FieldInvalid("status", "must be one of: active, inactive")
	}

	db := s.db.WithContext(ctx)
	q := db.Model(&models.CatalogEntry{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.BrandID != 0 {
		q = q.Where("brand_id = ?", f.BrandID)
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	q = searchLike(q, f.Search, "sku", "name")

	page, err := paginate[models.CatalogEntry](q, f.ListParams, "id", "Brand", "Category")
	if err != nil {
		return page, err
	}
	if err := fillAvailableStock(db, page.Items); err != nil {
		return page, err
	}
	return page, nil
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.CatalogEntry, error) {
	db := s.db.WithContext(ctx)
	var entry models.CatalogEntry
	if err := db.Preload("Brand").Preload("Category").First(&entry, id).Error; err != nil {
		return nil, lookupErr(err, "catalog entry")
	}
	entries := []models.CatalogEntry{entry}
	if err := fillAvailableStock(db, entries); err != nil {
		return nil, err
	}
	return &entries[0], nil
}

func (s *CatalogService) Create(ctx context.Context, in CatalogEntryInput) (*models.CatalogEntry, error) {
	entry := models.CatalogEntry{}
	if err := s.apply(ctx, &entry, in); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, writeErr(err, "catalog entry", "sku")
	}
	return s.Get(ctx, entry.ID)
}

// Update replaces every writable field of the entry.
func (s *CatalogService) Update(ctx context.Context, id uint, in CatalogEntryInput) (*models.CatalogEntry, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, entry, in); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(entry).Error; err != nil {
		return nil, writeErr(err, "catalog entry", "sku")
	}
	return s.Get(ctx, id)
}

// Delete cascades to the entry's serialized items and to cart lines.
func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.CatalogEntry{}, id)
	if res.Error != nil {
		return deleteErr(res.Error, "catalog entry")
	}
	if res.RowsAffected == 0 {
		return NotFound("catalog entry")
	}
	return nil
}

// apply validates in and copies it onto entry.
func (s *CatalogService) apply(ctx context.Context, entry *models.CatalogEntry, in CatalogEntryInput) error {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)

	var details []FieldError
	if in.Price.IsNegative() {
		details = append(details, FieldError{Field: "price", Message: "must not be negative"})
	} else if !in.Price.Equal(in.Price.Round(2)) {
		details = append(details, FieldError{Field: "price", Message: "must have at most 2 decimal places"})
	}
	if in.WarrantyMonths != nil && *in.WarrantyMonths < 0 {
		details = append(details, FieldError{Field: "warranty_months", Message: "must not be negative"})
	}
	if in.Status == "" {
		in.Status = models.CatalogActive
	} else if !in.Status.Valid() {
		details = append(details, FieldError{Field: "status", Message: "must be one of: active, inactive"})
	}

	db := s.db.WithContext(ctx)
	dups, err := duplicateFields(db, &models.CatalogEntry{}, entry.ID, map[string]string{"sku": in.SKU, "name": in.Name})
	if err != nil {
		return err
	}
	details = append(details, dups...)
	if len(details) > 0 {
		return Validation("validation failed", details...)
	}

	if err := requireRef(db, &models.Brand{}, in.BrandID, "brand_id", "brand"); err != nil {
		return err
	}
	if err := requireRef(db, &models.Category{}, in.CategoryID, "category_id", "category"); err != nil {
		return err
	}

	entry.SKU = in.SKU
	entry.Name = in.Name
	entry.Description = in.Description
	entry.ImageURL = in.ImageURL
	entry.Price = in.Price
	entry.WarrantyMonths = defaultWarrantyMonths
	if in.WarrantyMonths != nil {
		entry.WarrantyMonths = *in.WarrantyMonths
	}
	entry.Model = in.Model
	entry.Status = in.Status
	entry.BrandID = in.BrandID
	entry.CategoryID = in.CategoryID
	entry.Brand = nil
	entry.Category = nil
	return nil
}

// duplicateFields reports which unique columns already hold the given values
// on a row other than excludeID. Columns are checked in sorted order.
func duplicateFields(tx *gorm.DB, model any, excludeID uint, values map[string]string) ([]FieldError, error) {
	var details []FieldError
	for _, col := range []string{"name", "serial_number", "sku"} {
		v, ok := values[col]
		if !ok {
			continue
		}
		var n int64
		if err := tx.Model(model).Where(col+" = ? AND id <> ?", v, excludeID).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("failed to check %s uniqueness: %w", col, err)
		}
		if n > 0 {
			details = append(details, FieldError{Field: col, Message: "already exists"})
		}
	}
	return details, nil
}

// fillAvailableStock sets AvailableStock on each entry from its serialized items.
func fillAvailableStock(tx *gorm.DB, entries []models.CatalogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]uint, len(entries))
	for i := range entries {
		ids[i] = entries[i].ID
	}

	var rows []struct {
		CatalogEntryID uint
		Available      int64
	}
	err := tx.Model(&models.SerializedItem{}).
		Select("catalog_entry_id, COUNT(*) AS available").
		Where("catalog_entry_id IN ? AND status = ?", ids, models.ItemAvailable).
		Group("catalog_entry_id").
		Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to count available stock: %w", err)
	}

	stock := make(map[uint]int64, len(rows))
	for _, r := range rows {
		stock[r.CatalogEntryID] = r.Available
	}
	for i := range entries {
		entries[i].AvailableStock = stock[entries[i].ID]
	}
	return nil
}
