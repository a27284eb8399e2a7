package service

import (
	"context"
	"strings"

	"shop-admin/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NamedService is CRUD for lookup tables whose only attribute is a unique name.
type NamedService[T any, PT interface {
	*T
	SetName(string)
}] struct {
	db       *gorm.DB
	resource string
}

func NewNamedService[T any, PT interface {
	*T
	SetName(string)
}](db *gorm.DB, resource string) *NamedService[T, PT] {
	return &NamedService[T, PT]{db: db, resource: resource}
}

func NewBrandService(db *gorm.DB) *NamedService[models.Brand, *models.Brand] {
	return NewNamedService[models.Brand](db, "brand")
}

func NewCategoryService(db *gorm.DB) *NamedService[models.Category, *models.Category] {
	return NewNamedService[models.Category](db, "category")
}

func NewDepartmentService(db *gorm.DB) *NamedService[models.Department, *models.Department] {
	return NewNamedService[models.Department](db, "department")
}

func (s *NamedService[T, PT]) List(ctx context.Context, p ListParams) (Page[T], error) {
	p.normalize()
	q := searchLike(s.db.WithContext(ctx).Model(new(T)), p.Search, "name")
	return paginate[T](q, p, "name")
}

func (s *NamedService[T, PT]) Get(ctx context.Context, id uint) (*T, error) {
	v := new(T)
	if err := s.db.WithContext(ctx).First(v, id).Error; err != nil {
		return nil, lookupErr(err, s.resource)
	}
	return v, nil
}

func (s *NamedService[T, PT]) Create(ctx context.Context, name string) (*T, error) {
	v := new(T)
	PT(v).SetName(strings.TrimSpace(name))
	if err := s.db.WithContext(ctx).Create(v).Error; err != nil {
		return nil, writeErr(err, s.resource, "name")
	}
	return v, nil
}

func (s *NamedService[T, PT]) Update(ctx context.Context, id uint, name string) (*T, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	PT(v).SetName(strings.TrimSpace(name))
	if err := s.db.WithContext(ctx).Save(v).Error; err != nil {
		return nil, writeErr(err, s.resource, "name")
	}
	return v, nil
}

func (s *NamedService[T, PT]) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return deleteErr(res.Error, s.resource)
	}
	if res.RowsAffected == 0 {
		return NotFound(s.resource)
	}
	return nil
}

type CityInput struct {
	Name         string
	DepartmentID uint
}

type CityService struct {
	db *gorm.DB
}

func NewCityService(db *gorm.DB) *CityService {
	return &CityService{db: db}
}

// List filters by department when departmentID is non-zero.
func (s *CityService) List(ctx context.Context, p ListParams, departmentID uint) (Page[models.City], error) {
	p.normalize()
	q := s.db.WithContext(ctx).Model(&models.City{})
	if departmentID != 0 {
		q = q.Where("department_id = ?", departmentID)
	}
	q = searchLike(q, p.Search, "name")
	return paginate[models.City](q, p, "name", "Department")
}

func (s *CityService) Get(ctx context.Context, id uint) (*models.City, error) {
	var city models.City
	if err := s.db.WithContext(ctx).Preload("Department").First(&city, id).Error; err != nil {
		return nil, lookupErr(err, "city")
	}
	return &city, nil
}

func (s *CityService) Create(ctx context.Context, in CityInput) (*models.City, error) {
	db := s.db.WithContext(ctx)
	if err := requireRef(db, &models.Department{}, &in.DepartmentID, "department_id", "department"); err != nil {
		return nil, err
	}
	city := models.City{Name: strings.TrimSpace(in.Name), DepartmentID: in.DepartmentID}
	if err := db.Create(&city).Error; err != nil {
		return nil, writeErr(err, "city", "name")
	}
	return s.Get(ctx, city.ID)
}

func (s *CityService) Update(ctx context.Context, id uint, in CityInput) (*models.City, error) {
	city, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	if err := requireRef(db, &models.Department{}, &in.DepartmentID, "department_id", "department"); err != nil {
		return nil, err
	}
	city.Name = strings.TrimSpace(in.Name)
	city.DepartmentID = in.DepartmentID
	city.Department = nil
	if err := db.Omit(clause.Associations).Save(city).Error; err != nil {
		return nil, writeErr(err, "city", "name")
	}
	return s.Get(ctx, id)
}

func (s *CityService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.City{}, id)
	if res.Error != nil {
		return deleteErr(res.Error, "city")
	}
	if res.RowsAffected == 0 {
		return NotFound("city")
	}
	return nil
}
