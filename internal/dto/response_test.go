package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"shop-admin/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(service.CodeReferenced))
	assert.Equal(t, http.StatusNotFound, StatusFor(service.CodeNotFound))
	assert.Equal(t, http.StatusUnauthorized, StatusFor(service.CodeTokenInvalid))
	assert.Equal(t, http.StatusForbidden, StatusFor(service.CodeForbidden))
	assert.Equal(t, http.StatusInternalServerError, StatusFor("ERR_SOMETHING_ELSE"))
}

func TestNewListResponse(t *testing.T) {
	resp := NewListResponse(service.Page[string]{Items: []string{"a", "b"}, Total: 5, Page: 1, PageSize: 2})
	require.NotNil(t, resp.Meta)
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestNewErrorResponse_JSON(t *testing.T) {
	resp := NewErrorResponse(service.CodeValidation, "validation failed", "req-1",
		service.FieldError{Field: "sku", Message: "already exists"})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": false,
		"error": {
			"code": "ERR_VALIDATION",
			"message": "validation failed",
			"details": [{"field": "sku", "message": "already exists"}],
			"request_id": "req-1"
		}
	}`, string(raw))
}
