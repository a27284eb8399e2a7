package service

import (
	"context"

	"shop-admin/internal/models"

	"gorm.io/gorm"
)

// PermissionService is read-only; permissions are created by database.Seed.
type PermissionService struct {
	db *gorm.DB
}

func NewPermissionService(db *gorm.DB) *PermissionService {
	return &PermissionService{db: db}
}

func (s *PermissionService) List(ctx context.Context, p ListParams) (Page[models.Permission], error) {
	p.normalize()
	q := searchLike(s.db.WithContext(ctx).Model(&models.Permission{}), p.Search, "name", "codename")
	return paginate[models.Permission](q, p, "id")
}

func (s *PermissionService) Get(ctx context.Context, id uint) (*models.Permission, error) {
	var perm models.Permission
	if err := s.db.WithContext(ctx).First(&perm, id).Error; err != nil {
		return nil, lookupErr(err, "permission")
	}
	return &perm, nil
}
