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

type ClientInput struct {
	Name    string
	Phone   string
	Address string
	CityID  *uint
}

type ClientService struct {
	db    *gorm.DB
	audit Auditor
}

func NewClientService(db *gorm.DB, audit Auditor) *ClientService {
	return &ClientService{db: db, audit: auditorOrNop(audit)}
}

func (s *ClientService) List(ctx context.Context, p ListParams) (Page[models.Client], error) {
	p.normalize()
	q := searchLike(s.db.WithContext(ctx).Model(&models.Client{}), p.Search, "name", "phone")
	return paginate[models.Client](q, p, "id", "City")
}

func (s *ClientService) Get(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	if err := s.db.WithContext(ctx).Preload("City").First(&client, id).Error; err != nil {
		return nil, lookupErr(err, "client")
	}
	return &client, nil
}

// Create links the new client to the acting user.
func (s *ClientService) Create(ctx context.Context, actor database.Actor, in ClientInput) (*models.Client, error) {
	if actor.UserID == nil {
		return nil, Unauthorized("authentication required")
	}
	client := models.Client{
		Name:    strings.TrimSpace(in.Name),
		Phone:   in.Phone,
		Address: in.Address,
		UserID:  *actor.UserID,
		CityID:  in.CityID,
	}

	db := s.db.WithContext(ctx)
	if err := requireRef(db, &models.City{}, in.CityID, "city_id", "city"); err != nil {
		return nil, err
	}
	if err := db.Create(&client).Error; err != nil {
		return nil, writeErr(err, "client", "name")
	}

	s.audit.Record(ctx, actor, models.ActionCreate, "Client created: "+client.Name, models.ModuleClients)
	return s.Get(ctx, client.ID)
}

func (s *ClientService) Update(ctx context.Context, actor database.Actor, id uint, in ClientInput) (*models.Client, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := client.Name

	db := s.db.WithContext(ctx)
	if err := requireRef(db, &models.City{}, in.CityID, "city_id", "city"); err != nil {
		return nil, err
	}

	client.Name = strings.TrimSpace(in.Name)
	client.Phone = in.Phone
	client.Address = in.Address
	client.CityID = in.CityID
	client.City = nil
	if err := db.Omit(clause.Associations).Save(client).Error; err != nil {
		return nil, writeErr(err, "client", "name")
	}

	desc := "Client updated: " + client.Name
	if client.Name != before {
		desc += fmt.Sprintf(". Changes: name: '%s' → '%s'", before, client.Name)
	} else {
		desc += ". No changes detected"
	}
	s.audit.Record(ctx, actor, models.ActionEdit, desc, models.ModuleClients)
	return s.Get(ctx, id)
}

func (s *ClientService) Delete(ctx context.Context, actor database.Actor, id uint) error {
	client, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Client{}, client.ID).Error; err != nil {
		return deleteErr(err, "client")
	}

	s.audit.Record(ctx, actor, models.ActionDelete, "Client deleted: "+client.Name, models.ModuleClients)
	return nil
}
