package handlers

import (
	"net/http"

	"shop-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// AuditHandler is read-only; entries are written by the services.
type AuditHandler struct {
	svc *service.AuditLogService
}

func NewAuditHandler(svc *service.AuditLogService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

type auditQuery struct {
	listQuery
	Module string `form:"module"`
	Action string `form:"action" binding:"omitempty,oneof=CREATE EDIT DELETE"`
	UserID uint   `form:"user_id"`
}

func (h *AuditHandler) List(c *gin.Context) {
	var q auditQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.svc.List(c.Request.Context(), service.AuditFilter{
		ListParams: q.params(),
		Module:     q.Module,
		Action:     q.Action,
		UserID:     q.UserID,
	})
	if err != nil {
		renderError(c, err)
		return
	}
	renderList(c, page)
}

func (h *AuditHandler) Get(c *gin.Context) {
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
