package service

import (
	"context"
	"testing"

	"shop-admin/internal/database/dbtest"
	"shop-admin/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemService_CRUD(t *testing.T) {
	db := dbtest.New(t)
	svc := NewItemService(db)
	entry := seedEntry(t, db, "CAM-1", "300")
	ctx := context.Background()

	item, err := svc.Create(ctx, SerializedItemInput{SerialNumber: "SN-100", Cost: decimal.RequireFromString("210.25"), CatalogEntryID: entry.ID})
	require.NoError(t, err)
	assert.Equal(t, models.ItemAvailable, item.Status)
	assert.False(t, item.ReceivedAt.IsZero())
	require.NotNil(t, item.CatalogEntry)
	assert.Equal(t, "CAM-1", item.CatalogEntry.SKU)

	_, err = svc.Create(ctx, SerializedItemInput{SerialNumber: "SN-100", CatalogEntryID: entry.ID})
	e := requireCode(t, err, CodeValidation)
	assert.Equal(t, "serial_number", e.Details[0].Field)

	_, err = svc.Create(ctx, SerializedItemInput{SerialNumber: "SN-200", CatalogEntryID: 999})
	e = requireCode(t, err, CodeValidation)
	assert.Equal(t, "catalog_entry_id", e.Details[0].Field)

	_, err = svc.Create(ctx, SerializedItemInput{SerialNumber: "SN-300", CatalogEntryID: entry.ID, Status: "lost"})
	e = requireCode(t, err, CodeValidation)
	assert.Equal(t, "status", e.Details[0].Field)

	item, err = svc.Update(ctx, item.ID, SerializedItemInput{
		SerialNumber: "SN-100", Cost: decimal.RequireFromString("210.25"), CatalogEntryID: entry.ID, Status: models.ItemInRepair,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ItemInRepair, item.Status)

	page, err := svc.List(ctx, ItemFilter{CatalogEntryID: entry.ID, Status: models.ItemInRepair})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	page, err = svc.List(ctx, ItemFilter{Status: models.ItemAvailable})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	require.NoError(t, svc.Delete(ctx, item.ID))
	requireCode(t, svc.Delete(ctx, item.ID), CodeNotFound)
}
