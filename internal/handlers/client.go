package handlers

import (
	"net/http"

	"shop-admin/internal/middleware"
	"shop-admin/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	svc *service.ClientService
}

func NewClientHandler(svc *service.ClientService) *ClientHandler {
	return &ClientHandler{svc: svc}
}

type clientRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Phone   string `json:"phone" binding:"max=20"`
	Address string `json:"address"`
	CityID  *uint  `json:"city_id"`
}

func (r clientRequest) input() service.ClientInput {
	return service.ClientInput{Name: r.Name, Phone: r.Phone, Address: r.Address, CityID: r.CityID}
}

func (h *ClientHandler) List(c *gin.Context) {
	var q listQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.svc.List(c.Request.Context(), q.params())
	if err != nil {
		renderError(c, err)
		return
	}
	renderList(c, page)
}

func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	client, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, client)
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req clientRequest
	if !bindJSON(c, &req) {
		return
	}
	client, err := h.svc.Create(c.Request.Context(), middleware.Actor(c), req.input())
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusCreated, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req clientRequest
	if !bindJSON(c, &req) {
		return
	}
	client, err := h.svc.Update(c.Request.Context(), middleware.Actor(c), id, req.input())
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, client)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
