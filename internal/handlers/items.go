package handlers

import (
	"net/http"

	"shop-admin/internal/models"
	"shop-admin/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ItemHandler struct {
	svc *service.ItemService
}

func NewItemHandler(svc *service.ItemService) *ItemHandler {
	return &ItemHandler{svc: svc}
}

type itemRequest struct {
	SerialNumber   string           `json:"serial_number" binding:"required,max=100"`
	Cost           *decimal.Decimal `json:"cost" binding:"required"`
	Status         string           `json:"status"`
	CatalogEntryID uint             `json:"catalog_entry_id" binding:"required"`
}

func (r itemRequest) input() service.SerializedItemInput {
	return service.SerializedItemInput{
		SerialNumber:   r.SerialNumber,
		Cost:           *r.Cost,
		Status:         models.ItemStatus(r.Status),
		CatalogEntryID: r.CatalogEntryID,
	}
}

type itemQuery struct {
	listQuery
	CatalogEntryID uint   `form:"catalog_entry_id"`
	Status         string `form:"status"`
}

func (h *ItemHandler) List(c *gin.Context) {
	var q itemQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.svc.List(c.Request.Context(), service.ItemFilter{
		ListParams:     q.params(),
		CatalogEntryID: q.CatalogEntryID,
		Status:         models.ItemStatus(q.Status),
	})
	if err != nil {
		renderError(c, err)
		return
	}
	renderList(c, page)
}

func (h *ItemHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, item)
}

func (h *ItemHandler) Create(c *gin.Context) {
	var req itemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.svc.Create(c.Request.Context(), req.input())
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusCreated, item)
}

func (h *ItemHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req itemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.svc.Update(c.Request.Context(), id, req.input())
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, item)
}

func (h *ItemHandler) Delete(c *gin.Context) {
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
