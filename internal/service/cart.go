package service

import (
	"context"
	"errors"
	"fmt"

	"shop-admin/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartService manages the caller's own cart. Every item lookup is scoped to
// that cart, so an item id belonging to someone else reads as not found.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// Get returns the user's cart, creating it on first access.
func (s *CartService) Get(ctx context.Context, userID uint) (*models.Cart, error) {
	cart, err := s.ensure(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, cart.ID)
}

// AddItem merges quantity into an existing line for the same catalog entry.
func (s *CartService) AddItem(ctx context.Context, userID, catalogEntryID uint, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, FieldInvalid("quantity", "must be at least 1")
	}

	db := s.db.WithContext(ctx)
	ok, err := exists(db, &models.CatalogEntry{}, catalogEntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check catalog entry: %w", err)
	}
	if !ok {
		return nil, NotFound("catalog entry")
	}

	cart, err := s.ensure(db, userID)
	if err != nil {
		return nil, err
	}

	item := models.CartItem{CartID: cart.ID, CatalogEntryID: catalogEntryID, Quantity: quantity}
	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "catalog_entry_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
		}),
	}).Create(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, NotFound("catalog entry")
		}
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return s.load(ctx, cart.ID)
}

// UpdateItem sets the line quantity; a quantity of zero or less removes the line.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uint, quantity int) (*models.Cart, error) {
	db := s.db.WithContext(ctx)
	cart, err := s.ensure(db, userID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	if err := db.Where("id = ? AND cart_id = ?", itemID, cart.ID).First(&item).Error; err != nil {
		return nil, lookupErr(err, "cart item")
	}

	if quantity > 0 {
		err = db.Model(&item).Update("quantity", quantity).Error
	} else {
		err = db.Delete(&item).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return s.load(ctx, cart.ID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) (*models.Cart, error) {
	db := s.db.WithContext(ctx)
	cart, err := s.ensure(db, userID)
	if err != nil {
		return nil, err
	}

	res := db.Where("id = ? AND cart_id = ?", itemID, cart.ID).Delete(&models.CartItem{})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, NotFound("cart item")
	}

	return s.load(ctx, cart.ID)
}

// ensure creates the cart row if missing. Concurrent first requests race on the
// unique user_id index and all read back the same row.
func (s *CartService) ensure(db *gorm.DB, userID uint) (*models.Cart, error) {
	cart := models.Cart{UserID: &userID}
	err := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&cart).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	var existing models.Cart
	if err := db.Where("user_id = ?", userID).First(&existing).Error; err != nil {
		return nil, lookupErr(err, "cart")
	}
	return &existing, nil
}

func (s *CartService) load(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id") }).
		Preload("Items.CatalogEntry").
		First(&cart, "id = ?", cartID).Error
	if err != nil {
		return nil, lookupErr(err, "cart")
	}
	return &cart, nil
}
