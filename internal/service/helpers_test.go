package service

import (
	"context"
	"testing"

	"shop-admin/internal/database"
	"shop-admin/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type auditEntry struct {
	actor       database.Actor
	action      string
	description string
	module      string
}

type fakeAuditor struct {
	entries []auditEntry
}

func (f *fakeAuditor) Record(_ context.Context, actor database.Actor, action, description, module string) {
	f.entries = append(f.entries, auditEntry{actor: actor, action: action, description: description, module: module})
}

func (f *fakeAuditor) last(t *testing.T) auditEntry {
	t.Helper()
	require.NotEmpty(t, f.entries, "expected an audit entry")
	return f.entries[len(f.entries)-1]
}

func actorFor(u *models.User) database.Actor {
	return database.Actor{UserID: &u.ID, IP: "192.0.2.1"}
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@shop.local", PasswordHash: "x", IsActive: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedPermission(t *testing.T, db *gorm.DB, codename, name string) models.Permission {
	t.Helper()
	p := models.Permission{Codename: codename, Name: name}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedEntry(t *testing.T, db *gorm.DB, sku, price string) *models.CatalogEntry {
	t.Helper()
	e := &models.CatalogEntry{
		SKU:            sku,
		Name:           "Product " + sku,
		Price:          decimal.RequireFromString(price),
		WarrantyMonths: 12,
		Status:         models.CatalogActive,
	}
	require.NoError(t, db.Create(e).Error)
	return e
}

func seedItem(t *testing.T, db *gorm.DB, entryID uint, serial string, status models.ItemStatus) *models.SerializedItem {
	t.Helper()
	it := &models.SerializedItem{SerialNumber: serial, Cost: decimal.NewFromInt(5), Status: status, CatalogEntryID: entryID}
	require.NoError(t, db.Create(it).Error)
	return it
}

func requireCode(t *testing.T, err error, code string) *Error {
	t.Helper()
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, code, e.Code, e.Error())
	return e
}

func ptr[T any](v T) *T { return &v }
