package handlers

import (
	"net/http"

	"shop-admin/internal/middleware"
	"shop-admin/internal/models"
	"shop-admin/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartHandler struct {
	svc *service.CartService
}

func NewCartHandler(svc *service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

type addCartItemRequest struct {
	CatalogEntryID uint `json:"catalog_entry_id" binding:"required"`
	Quantity       int  `json:"quantity" binding:"required,min=1"`
}

// Zero or negative quantities remove the line.
type updateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type cartEntrySummary struct {
	ID       uint            `json:"id"`
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url"`
}

type cartItemResponse struct {
	ID           uint             `json:"id"`
	CatalogEntry cartEntrySummary `json:"catalog_entry"`
	Quantity     int              `json:"quantity"`
	Subtotal     decimal.Decimal  `json:"subtotal"`
}

type cartResponse struct {
	ID         uuid.UUID          `json:"id"`
	Items      []cartItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPrice decimal.Decimal    `json:"total_price"`
}

func newCartResponse(cart *models.Cart) cartResponse {
	resp := cartResponse{
		ID:         cart.ID,
		Items:      make([]cartItemResponse, 0, len(cart.Items)),
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
	}
	for i := range cart.Items {
		it := &cart.Items[i]
		item := cartItemResponse{ID: it.ID, Quantity: it.Quantity, Subtotal: it.Subtotal()}
		if e := it.CatalogEntry; e != nil {
			item.CatalogEntry = cartEntrySummary{ID: e.ID, SKU: e.SKU, Name: e.Name, Price: e.Price, ImageURL: e.ImageURL}
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}

func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.svc.Get(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, newCartResponse(cart))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	cart, err := h.svc.AddItem(c.Request.Context(), middleware.CurrentUser(c).ID, req.CatalogEntryID, req.Quantity)
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, newCartResponse(cart))
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, ok := parseID(c, "item_id")
	if !ok {
		return
	}
	var req updateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	cart, err := h.svc.UpdateItem(c.Request.Context(), middleware.CurrentUser(c).ID, itemID, *req.Quantity)
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, newCartResponse(cart))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, ok := parseID(c, "item_id")
	if !ok {
		return
	}
	cart, err := h.svc.RemoveItem(c.Request.Context(), middleware.CurrentUser(c).ID, itemID)
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, newCartResponse(cart))
}
