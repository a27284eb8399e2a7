package database

import (
	"context"
	"errors"
	"fmt"

	"shop-admin/internal/config"
	"shop-admin/internal/logger"
	"shop-admin/internal/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// managedModels drives permission seeding: one add/change/delete/view set per model.
var managedModels = []struct {
	codename string
	label    string
}{
	{"user", "user"},
	{"role", "role"},
	{"permission", "permission"},
	{"department", "department"},
	{"city", "city"},
	{"client", "client"},
	{"brand", "brand"},
	{"category", "category"},
	{"catalogentry", "catalog entry"},
	{"serializeditem", "serialized item"},
	{"cart", "cart"},
	{"cartitem", "cart item"},
	{"auditlog", "audit log"},
}

var errNoAdminPassword = errors.New("admin password is not configured")

var permissionActions = []string{"add", "change", "delete", "view"}

// DefaultPermissions returns the permission rows Seed keeps in the database.
func DefaultPermissions() []models.Permission {
	perms := make([]models.Permission, 0, len(managedModels)*len(permissionActions))
	for _, m := range managedModels {
		for _, action := range permissionActions {
			perms = append(perms, models.Permission{
				Name:     fmt.Sprintf("Can %s %s", action, m.label),
				Codename: action + "_" + m.codename,
			})
		}
	}
	return perms
}

// Seed is idempotent: permissions are upserted by codename, and the bootstrap
// admin is created only while no staff user exists.
func Seed(ctx context.Context, db *gorm.DB, admin config.AdminConfig, log *zap.Logger) error {
	perms := DefaultPermissions()
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "codename"}}, DoNothing: true}).
		Create(&perms).Error
	if err != nil {
		return fmt.Errorf("failed to seed permissions: %w", err)
	}

	if err := createDefaultAdmin(ctx, db, admin, log); err != nil {
		if errors.Is(err, errNoAdminPassword) {
			log.Warn("No staff user exists and SHOP_ADMIN_PASSWORD is empty; skipping admin bootstrap")
			return nil
		}
		return err
	}
	return nil
}

func createDefaultAdmin(ctx context.Context, db *gorm.DB, admin config.AdminConfig, log *zap.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("is_staff = ?", true).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check admin user: %w", err)
	}
	if count > 0 {
		return nil
	}
	if admin.Password == "" {
		return errNoAdminPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	user := models.User{
		Username:     admin.Username,
		Email:        admin.Email,
		PasswordHash: string(hash),
		IsStaff:      true,
		IsActive:     true,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	log.Info("Created default admin user",
		zap.String("username", admin.Username),
		zap.String("email", logger.MaskEmail(admin.Email)),
	)
	return nil
}
