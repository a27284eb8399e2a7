package handlers

import (
	"context"
	"net/http"

	"shop-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// namedStore is the CRUD surface shared by brands, categories and departments.
type namedStore[T any] interface {
	List(ctx context.Context, p service.ListParams) (service.Page[T], error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, name string) (*T, error)
	Update(ctx context.Context, id uint, name string) (*T, error)
	Delete(ctx context.Context, id uint) error
}

type NamedHandler[T any] struct {
	svc namedStore[T]
}

func NewNamedHandler[T any](svc namedStore[T]) *NamedHandler[T] {
	return &NamedHandler[T]{svc: svc}
}

type nameRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

func (h *NamedHandler[T]) List(c *gin.Context) {
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

func (h *NamedHandler[T]) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	v, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, v)
}

func (h *NamedHandler[T]) Create(c *gin.Context) {
	var req nameRequest
	if !bindJSON(c, &req) {
		return
	}
	v, err := h.svc.Create(c.Request.Context(), req.Name)
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusCreated, v)
}

func (h *NamedHandler[T]) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req nameRequest
	if !bindJSON(c, &req) {
		return
	}
	v, err := h.svc.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, v)
}

func (h *NamedHandler[T]) Delete(c *gin.Context) {
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

type CityHandler struct {
	svc *service.CityService
}

func NewCityHandler(svc *service.CityService) *CityHandler {
	return &CityHandler{svc: svc}
}

type cityRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	DepartmentID uint   `json:"department_id" binding:"required"`
}

type cityQuery struct {
	listQuery
	DepartmentID uint `form:"department_id"`
}

func (h *CityHandler) List(c *gin.Context) {
	var q cityQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.svc.List(c.Request.Context(), q.params(), q.DepartmentID)
	if err != nil {
		renderError(c, err)
		return
	}
	renderList(c, page)
}

func (h *CityHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	city, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, city)
}

func (h *CityHandler) Create(c *gin.Context) {
	var req cityRequest
	if !bindJSON(c, &req) {
		return
	}
	city, err := h.svc.Create(c.Request.Context(), service.CityInput{Name: req.Name, DepartmentID: req.DepartmentID})
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusCreated, city)
}

func (h *CityHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req cityRequest
	if !bindJSON(c, &req) {
		return
	}
	city, err := h.svc.Update(c.Request.Context(), id, service.CityInput{Name: req.Name, DepartmentID: req.DepartmentID})
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, city)
}

func (h *CityHandler) Delete(c *gin.Context) {
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
