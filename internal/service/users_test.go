package service

import (
	"context"
	"testing"

	"shop-admin/internal/database/dbtest"
	"shop-admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Create(t *testing.T) {
	db := dbtest.New(t)
	audit := &fakeAuditor{}
	svc := NewUserService(db, audit)
	admin := seedUser(t, db, "admin")
	sales := models.Role{Name: "Sales"}
	require.NoError(t, db.Create(&sales).Error)

	user, err := svc.Create(context.Background(), actorFor(admin), CreateUserInput{
		Username: "maria",
		Email:    "maria@shop.local",
		Password: "correct-horse",
		RoleIDs:  []uint{sales.ID, sales.ID},
	})
	require.NoError(t, err)

	assert.True(t, user.IsActive)
	assert.Equal(t, []string{"Sales"}, user.RoleNames())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse")))

	entry := audit.last(t)
	assert.Equal(t, models.ActionCreate, entry.action)
	assert.Equal(t, models.ModuleAdministration, entry.module)
	assert.Equal(t, "User 'maria' created with email 'maria@shop.local' and role 'Sales'", entry.description)
	assert.Equal(t, admin.ID, *entry.actor.UserID)
}

func TestUserService_CreateWithoutRole(t *testing.T) {
	db := dbtest.New(t)
	audit := &fakeAuditor{}
	svc := NewUserService(db, audit)

	_, err := svc.Create(context.Background(), actorFor(seedUser(t, db, "admin")), CreateUserInput{
		Username: "solo", Email: "solo@shop.local", Password: "pw-12345",
	})
	require.NoError(t, err)
	assert.Equal(t, "User 'solo' created with email 'solo@shop.local' and role 'No role'", audit.last(t).description)
}

func TestUserService_CreateValidation(t *testing.T) {
	db := dbtest.New(t)
	audit := &fakeAuditor{}
	svc := NewUserService(db, audit)
	admin := seedUser(t, db, "admin")

	_, err := svc.Create(context.Background(), actorFor(admin), CreateUserInput{Username: "admin", Password: "pw-12345"})
	e := requireCode(t, err, CodeValidation)
	assert.Equal(t, "username", e.Details[0].Field)

	_, err = svc.Create(context.Background(), actorFor(admin), CreateUserInput{Username: "x", Password: "pw-12345", RoleIDs: []uint{999}})
	e = requireCode(t, err, CodeValidation)
	assert.Equal(t, "role_ids", e.Details[0].Field)

	assert.Empty(t, audit.entries)
}

func TestUserService_UpdateDescribesChanges(t *testing.T) {
	db := dbtest.New(t)
	audit := &fakeAuditor{}
	svc := NewUserService(db, audit)
	admin := seedUser(t, db, "admin")
	sales := models.Role{Name: "Sales"}
	support := models.Role{Name: "Support"}
	require.NoError(t, db.Create(&sales).Error)
	require.NoError(t, db.Create(&support).Error)

	user, err := svc.Create(context.Background(), actorFor(admin), CreateUserInput{
		Username: "luis", Email: "luis@shop.local", Password: "pw-12345", RoleIDs: []uint{sales.ID},
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), actorFor(admin), user.ID, UpdateUserInput{
		Username: ptr("lucho"),
		Email:    ptr("lucho@shop.local"),
		RoleIDs:  ptr([]uint{support.ID}),
	})
	require.NoError(t, err)
	assert.Equal(t, "lucho", updated.Username)
	assert.Equal(t, []string{"Support"}, updated.RoleNames())

	entry := audit.last(t)
	assert.Equal(t, models.ActionEdit, entry.action)
	assert.Equal(t,
		"User 'lucho' updated. Changes: username: 'luis' → 'lucho', email: 'luis@shop.local' → 'lucho@shop.local', roles: 'Sales' → 'Support'",
		entry.description)
}

func TestUserService_UpdateNoChanges(t *testing.T) {
	db := dbtest.New(t)
	audit := &fakeAuditor{}
	svc := NewUserService(db, audit)
	admin := seedUser(t, db, "admin")
	user := seedUser(t, db, "carla")

	_, err := svc.Update(context.Background(), actorFor(admin), user.ID, UpdateUserInput{FirstName: ptr("Carla")})
	require.NoError(t, err)
	assert.Equal(t, "User 'carla' updated. No changes detected", audit.last(t).description)

	_, err = svc.Update(context.Background(), actorFor(admin), 9999, UpdateUserInput{})
	requireCode(t, err, CodeNotFound)
}

func TestUserService_UpdateClearsRolesAndPassword(t *testing.T) {
	db := dbtest.New(t)
	audit := &fakeAuditor{}
	svc := NewUserService(db, audit)
	admin := seedUser(t, db, "admin")
	role := models.Role{Name: "Sales"}
	require.NoError(t, db.Create(&role).Error)

	user, err := svc.Create(context.Background(), actorFor(admin), CreateUserInput{
		Username: "pia", Password: "old-password", RoleIDs: []uint{role.ID},
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), actorFor(admin), user.ID, UpdateUserInput{
		Password: ptr("new-password"),
		RoleIDs:  ptr([]uint{}),
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Roles)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("new-password")))
	assert.Equal(t, "User 'pia' updated. Changes: roles: 'Sales' → 'No role'", audit.last(t).description)
}

func TestUserService_Delete(t *testing.T) {
	db := dbtest.New(t)
	audit := &fakeAuditor{}
	svc := NewUserService(db, audit)
	admin := seedUser(t, db, "admin")
	role := models.Role{Name: "Warehouse"}
	require.NoError(t, db.Create(&role).Error)

	user, err := svc.Create(context.Background(), actorFor(admin), CreateUserInput{
		Username: "temp", Email: "temp@shop.local", Password: "pw-12345", RoleIDs: []uint{role.ID},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), actorFor(admin), user.ID))

	entry := audit.last(t)
	assert.Equal(t, models.ActionDelete, entry.action)
	assert.Equal(t, "User 'temp' deleted. Had email 'temp@shop.local' and role 'Warehouse'", entry.description)

	var links int64
	require.NoError(t, db.Table("user_roles").Where("user_id = ?", user.ID).Count(&links).Error)
	assert.Zero(t, links)

	err = svc.Delete(context.Background(), actorFor(admin), user.ID)
	requireCode(t, err, CodeNotFound)
}

func TestUserService_DeleteReferencedByClient(t *testing.T) {
	db := dbtest.New(t)
	audit := &fakeAuditor{}
	svc := NewUserService(db, audit)
	admin := seedUser(t, db, "admin")
	role := models.Role{Name: "Sales"}
	require.NoError(t, db.Create(&role).Error)

	seller, err := svc.Create(context.Background(), actorFor(admin), CreateUserInput{
		Username: "seller", Password: "pw-12345", RoleIDs: []uint{role.ID},
	})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Client{Name: "Acme", UserID: seller.ID}).Error)
	audit.entries = nil

	err = svc.Delete(context.Background(), actorFor(admin), seller.ID)
	e := requireCode(t, err, CodeReferenced)
	assert.Equal(t, "cannot delete user: it is referenced by other records (such as a client)", e.Message)
	assert.Empty(t, audit.entries)

	still, err := svc.Get(context.Background(), seller.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sales"}, still.RoleNames(), "role assignment must survive the refused delete")
}

func TestUserService_ListSearch(t *testing.T) {
	db := dbtest.New(t)
	svc := NewUserService(db, nil)
	seedUser(t, db, "alice")
	seedUser(t, db, "bob")
	seedUser(t, db, "alicia")

	page, err := svc.List(context.Background(), ListParams{Search: "ALI"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Items, 2)
}
