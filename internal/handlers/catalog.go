package handlers

import (
	"net/http"

	"shop-admin/internal/models"
	"shop-admin/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CatalogHandler struct {
	svc *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// catalogEntryRequest replaces every field on update.
type catalogEntryRequest struct {
	SKU            string           `json:"sku" binding:"required,max=50"`
	Name           string           `json:"name" binding:"required,max=100"`
	Description    string           `json:"description"`
	ImageURL       string           `json:"image_url" binding:"omitempty,url,max=500"`
	Price          *decimal.Decimal `json:"price" binding:"required"`
	WarrantyMonths *int             `json:"warranty_months" binding:"omitempty,min=0"`
	Model          string           `json:"model" binding:"max=100"`
	Status         string           `json:"status"`
	BrandID        *uint            `json:"brand_id"`
	CategoryID     *uint            `json:"category_id"`
}

func (r catalogEntryRequest) input() service.CatalogEntryInput {
	return service.CatalogEntryInput{
		SKU:            r.SKU,
		Name:           r.Name,
		Description:    r.Description,
		ImageURL:       r.ImageURL,
		Price:          *r.Price,
		WarrantyMonths: r.WarrantyMonths,
		Model:          r.Model,
		Status:         models.CatalogStatus(r.Status),
		BrandID:        r.BrandID,
		CategoryID:     r.CategoryID,
	}
}

type catalogQuery struct {
	listQuery
	Status     string `form:"status"`
	BrandID    uint   `form:"brand_id"`
	CategoryID uint   `form:"category_id"`
}

func (h *CatalogHandler) List(c *gin.Context) {
	var q catalogQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.svc.List(c.Request.Context(), service.CatalogFilter{
		ListParams: q.params(),
		Status:     models.CatalogStatus(q.Status),
		BrandID:    q.BrandID,
		CategoryID: q.CategoryID,
	})
	if err != nil {
		renderError(c, err)
		return
	}
	renderList(c, page)
}

func (h *CatalogHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	entry, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, entry)
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var req catalogEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.svc.Create(c.Request.Context(), req.input())
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusCreated, entry)
}

func (h *CatalogHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req catalogEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.svc.Update(c.Request.Context(), id, req.input())
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, entry)
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
