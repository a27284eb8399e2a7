package service

import (
	"context"
	"fmt"
	"strings"

	"shop-admin/internal/database"
	"shop-admin/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoleInput struct {
	Name          string
	PermissionIDs []uint
}

// UpdateRoleInput leaves fields that are nil unchanged.
type UpdateRoleInput struct {
	Name          *string
	PermissionIDs *[]uint
}

type RoleService struct {
	db    *gorm.DB
	audit Auditor
}

func NewRoleService(db *gorm.DB, audit Auditor) *RoleService {
	return &RoleService{db: db, audit: auditorOrNop(audit)}
}

func (s *RoleService) List(ctx context.Context, p ListParams) (Page[models.Role], error) {
	p.normalize()
	q := searchLike(s.db.WithContext(ctx).Model(&models.Role{}), p.Search, "name")
	return paginate[models.Role](q, p, "id", "Permissions")
}

func (s *RoleService) Get(ctx context.Context, id uint) (*models.Role, error) {
	return s.load(s.db.WithContext(ctx), id)
}

func (s *RoleService) load(tx *gorm.DB, id uint) (*models.Role, error) {
	var role models.Role
	err := tx.Preload("Permissions", func(db *gorm.DB) *gorm.DB { return db.Order("permissions.id") }).
		First(&role, id).Error
	if err != nil {
		return nil, lookupErr(err, "role")
	}
	return &role, nil
}

func (s *RoleService) Create(ctx context.Context, actor database.Actor, in RoleInput) (*models.Role, error) {
	role := models.Role{Name: strings.TrimSpace(in.Name)}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		perms, err := findPermissions(tx, in.PermissionIDs)
		if err != nil {
			return err
		}
		if err := tx.Create(&role).Error; err != nil {
			return writeErr(err, "role", "name")
		}
		if len(perms) > 0 {
			if err := tx.Model(&role).Association("Permissions").Append(perms); err != nil {
				return fmt.Errorf("failed to assign permissions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, err := s.Get(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, models.ActionCreate,
		fmt.Sprintf("Role '%s' created with permissions: %s", created.Name, joinOr(sortedCopy(created.PermissionNames()), "No permissions")),
		models.ModuleAdministration)
	return created, nil
}

func (s *RoleService) Update(ctx context.Context, actor database.Actor, id uint, in UpdateRoleInput) (*models.Role, error) {
	var (
		beforeName  string
		beforePerms []string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role, err := s.load(tx, id)
		if err != nil {
			return err
		}
		beforeName = role.Name
		beforePerms = role.PermissionNames()

		if in.Name != nil {
			role.Name = strings.TrimSpace(*in.Name)
			if err := tx.Omit(clause.Associations).Save(role).Error; err != nil {
				return writeErr(err, "role", "name")
			}
		}
		if in.PermissionIDs != nil {
			perms, err := findPermissions(tx, *in.PermissionIDs)
			if err != nil {
				return err
			}
			assoc := tx.Model(role).Association("Permissions")
			if len(perms) == 0 {
				err = assoc.Clear()
			} else {
				err = assoc.Replace(perms)
			}
			if err != nil {
				return fmt.Errorf("failed to assign permissions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	afterPerms := updated.PermissionNames()
	added := setDiff(afterPerms, beforePerms)
	removed := setDiff(beforePerms, afterPerms)

	desc := fmt.Sprintf("Role '%s' updated", updated.Name)
	changed := false
	if updated.Name != beforeName {
		desc += fmt.Sprintf(". Name: '%s' → '%s'", beforeName, updated.Name)
		changed = true
	}
	if len(added) > 0 {
		desc += ". Permissions added: " + strings.Join(added, ", ")
		changed = true
	}
	if len(removed) > 0 {
		desc += ". Permissions removed: " + strings.Join(removed, ", ")
		changed = true
	}
	if !changed {
		desc += ". No changes detected"
	}
	s.audit.Record(ctx, actor, models.ActionEdit, desc, models.ModuleAdministration)
	return updated, nil
}

// Delete removes the role together with its permission grants and user assignments.
func (s *RoleService) Delete(ctx context.Context, actor database.Actor, id uint) error {
	var role *models.Role
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		role, err = s.load(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_roles WHERE role_id = ?", role.ID).Error; err != nil {
			return deleteErr(err, "role")
		}
		if err := tx.Select("Permissions").Delete(role).Error; err != nil {
			return deleteErr(err, "role")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, actor, models.ActionDelete,
		fmt.Sprintf("Role '%s' deleted. Had permissions: %s", role.Name, joinOr(sortedCopy(role.PermissionNames()), "No permissions")),
		models.ModuleAdministration)
	return nil
}

func findPermissions(tx *gorm.DB, ids []uint) ([]models.Permission, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	var perms []models.Permission
	if err := tx.Where("id IN ?", ids).Order("id").Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("failed to load permissions: %w", err)
	}
	if len(perms) != len(ids) {
		return nil, FieldInvalid("permission_ids", "one or more permissions do not exist")
	}
	return perms, nil
}
