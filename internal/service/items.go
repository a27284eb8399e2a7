package service

import (
	"context"
	"strings"

	"shop-admin/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SerializedItemInput struct {
	SerialNumber   string
	Cost           decimal.Decimal
	Status         models.ItemStatus
	CatalogEntryID uint
}

type ItemFilter struct {
	ListParams
	CatalogEntryID uint
	Status         models.ItemStatus
}

type ItemService struct {
	db *gorm.DB
}

func NewItemService(db *gorm.DB) *ItemService {
	return &ItemService{db: db}
}

const itemStatusMessage = "must be one of: available, reserved, sold, in_repair, decommissioned"

func (s *ItemService) List(ctx context.Context, f ItemFilter) (Page[models.SerializedItem], error) {
	f.normalize()
	if f.Status != "" && !f.Status.Valid() {
		return Page[models.SerializedItem]{}, FieldInvalid("status", itemStatusMessage)
	}

	q := s.db.WithContext(ctx).Model(&models.SerializedItem{})
	if f.CatalogEntryID != 0 {
		q = q.Where("catalog_entry_id = ?", f.CatalogEntryID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	q = searchLike(q, f.Search, "serial_number")
	return paginate[models.SerializedItem](q, f.ListParams, "id", "CatalogEntry")
}

func (s *ItemService) Get(ctx context.Context, id uint) (*models.SerializedItem, error) {
	var item models.SerializedItem
	if err := s.db.WithContext(ctx).Preload("CatalogEntry").First(&item, id).Error; err != nil {
		return nil, lookupErr(err, "serialized item")
	}
	return &item, nil
}

func (s *ItemService) Create(ctx context.Context, in SerializedItemInput) (*models.SerializedItem, error) {
	item := models.SerializedItem{}
	if err := s.apply(ctx, &item, in); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, writeErr(err, "serialized item", "serial_number")
	}
	return s.Get(ctx, item.ID)
}

func (s *ItemService) Update(ctx context.Context, id uint, in SerializedItemInput) (*models.SerializedItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, item, in); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error; err != nil {
		return nil, writeErr(err, "serialized item", "serial_number")
	}
	return s.Get(ctx, id)
}

func (s *ItemService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.SerializedItem{}, id)
	if res.Error != nil {
		return deleteErr(res.Error, "serialized item")
	}
	if res.RowsAffected == 0 {
		return NotFound("serialized item")
	}
	return nil
}

func (s *ItemService) apply(ctx context.Context, item *models.SerializedItem, in SerializedItemInput) error {
	in.SerialNumber = strings.TrimSpace(in.SerialNumber)

	var details []FieldError
	if in.Cost.IsNegative() {
		details = append(details, FieldError{Field: "cost", Message: "must not be negative"})
	} else if !in.Cost.Equal(in.Cost.Round(2)) {
		details = append(details, FieldError{Field: "cost", Message: "must have at most 2 decimal places"})
	}
	if in.Status == "" {
		in.Status = models.ItemAvailable
	} else if !in.Status.Valid() {
		details = append(details, FieldError{Field: "status", Message: itemStatusMessage})
	}

	db := s.db.WithContext(ctx)
	dups, err := duplicateFields(db, &models.SerializedItem{}, item.ID, map[string]string{"serial_number": in.SerialNumber})
	if err != nil {
		return err
	}
	details = append(details, dups...)
	if len(details) > 0 {
		return Validation("validation failed", details...)
	}

	if err := requireRef(db, &models.CatalogEntry{}, &in.CatalogEntryID, "catalog_entry_id", "catalog entry"); err != nil {
		return err
	}

	item.SerialNumber = in.SerialNumber
	item.Cost = in.Cost
	item.Status = in.Status
	item.CatalogEntryID = in.CatalogEntryID
	item.CatalogEntry = nil
	return nil
}
