package service

import (
	"context"
	"testing"

	"shop-admin/internal/database/dbtest"
	"shop-admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleService_Create(t *testing.T) {
	db := dbtest.New(t)
	audit := &fakeAuditor{}
	svc := NewRoleService(db, audit)
	admin := seedUser(t, db, "admin")
	view := seedPermission(t, db, "view_client", "Can view client")
	add := seedPermission(t, db, "add_client", "Can add client")

	role, err := svc.Create(context.Background(), actorFor(admin), RoleInput{Name: "Sales", PermissionIDs: []uint{view.ID, add.ID}})
	require.NoError(t, err)
	assert.Len(t, role.Permissions, 2)
	assert.Equal(t, "Role 'Sales' created with permissions: Can add client, Can view client", audit.last(t).description)

	_, err = svc.Create(context.Background(), actorFor(admin), RoleInput{Name: "Empty"})
	require.NoError(t, err)
	assert.Equal(t, "Role 'Empty' created with permissions: No permissions", audit.last(t).description)

	_, err = svc.Create(context.Background(), actorFor(admin), RoleInput{Name: "Sales"})
	e := requireCode(t, err, CodeValidation)
	assert.Equal(t, "name", e.Details[0].Field)
}

func TestRoleService_UpdateNoChanges(t *testing.T) {
	db := dbtest.New(t)
	audit := &fakeAuditor{}
	svc := NewRoleService(db, audit)
	admin := seedUser(t, db, "admin")
	p := seedPermission(t, db, "view_brand", "Can view brand")

	role, err := svc.Create(context.Background(), actorFor(admin), RoleInput{Name: "Viewer", PermissionIDs: []uint{p.ID}})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), actorFor(admin), role.ID, UpdateRoleInput{
		Name:          ptr("Viewer"),
		PermissionIDs: ptr([]uint{p.ID}),
	})
	require.NoError(t, err)

	entry := audit.last(t)
	assert.Equal(t, models.ActionEdit, entry.action)
	assert.Equal(t, "Role 'Viewer' updated. No changes detected", entry.description)
}

func TestRoleService_UpdateListsAddedAndRemoved(t *testing.T) {
	db := dbtest.New(t)
	audit := &fakeAuditor{}
	svc := NewRoleService(db, audit)
	admin := seedUser(t, db, "admin")
	a := seedPermission(t, db, "add_brand", "Can add brand")
	b := seedPermission(t, db, "change_brand", "Can change brand")
	c := seedPermission(t, db, "delete_brand", "Can delete brand")
	d := seedPermission(t, db, "view_brand", "Can view brand")

	role, err := svc.Create(context.Background(), actorFor(admin), RoleInput{Name: "Brands", PermissionIDs: []uint{a.ID, b.ID}})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), actorFor(admin), role.ID, UpdateRoleInput{
		Name:          ptr("Brand managers"),
		PermissionIDs: ptr([]uint{d.ID, b.ID, c.ID}),
	})
	require.NoError(t, err)
	assert.Len(t, updated.Permissions, 3)
	assert.Equal(t,
		"Role 'Brand managers' updated. Name: 'Brands' → 'Brand managers'. Permissions added: Can delete brand, Can view brand. Permissions removed: Can add brand",
		audit.last(t).description)
}

func TestRoleService_UpdateUnknownPermission(t *testing.T) {
	db := dbtest.New(t)
	audit := &fakeAuditor{}
	svc := NewRoleService(db, audit)
	admin := seedUser(t, db, "admin")

	role, err := svc.Create(context.Background(), actorFor(admin), RoleInput{Name: "R"})
	require.NoError(t, err)
	audit.entries = nil

	_, err = svc.Update(context.Background(), actorFor(admin), role.ID, UpdateRoleInput{PermissionIDs: ptr([]uint{42})})
	e := requireCode(t, err, CodeValidation)
	assert.Equal(t, "permission_ids", e.Details[0].Field)
	assert.Empty(t, audit.entries)
}

func TestRoleService_DeleteUnassignsUsers(t *testing.T) {
	db := dbtest.New(t)
	audit := &fakeAuditor{}
	roles := NewRoleService(db, audit)
	users := NewUserService(db, audit)
	admin := seedUser(t, db, "admin")
	p := seedPermission(t, db, "view_cart", "Can view cart")

	role, err := roles.Create(context.Background(), actorFor(admin), RoleInput{Name: "Cashier", PermissionIDs: []uint{p.ID}})
	require.NoError(t, err)
	member, err := users.Create(context.Background(), actorFor(admin), CreateUserInput{Username: "m", Password: "pw-12345", RoleIDs: []uint{role.ID}})
	require.NoError(t, err)

	require.NoError(t, roles.Delete(context.Background(), actorFor(admin), role.ID))
	assert.Equal(t, "Role 'Cashier' deleted. Had permissions: Can view cart", audit.last(t).description)

	reloaded, err := users.Get(context.Background(), member.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Roles)

	var grants int64
	require.NoError(t, db.Table("role_permissions").Count(&grants).Error)
	assert.Zero(t, grants)

	err = roles.Delete(context.Background(), actorFor(admin), role.ID)
	requireCode(t, err, CodeNotFound)
}

func TestPermissionService(t *testing.T) {
	db := dbtest.New(t)
	svc := NewPermissionService(db)
	p := seedPermission(t, db, "add_city", "Can add city")
	seedPermission(t, db, "view_city", "Can view city")

	page, err := svc.List(context.Background(), ListParams{Search: "add"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "add_city", page.Items[0].Codename)

	got, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Can add city", got.Name)

	_, err = svc.Get(context.Background(), 404)
	requireCode(t, err, CodeNotFound)
}
