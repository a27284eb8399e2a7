// Package dto holds the JSON envelope shared by handlers and middleware.
package dto

import (
	"net/http"

	"shop-admin/internal/service"
)

// Response is the envelope of every API response.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

type ErrorInfo struct {
	Code      string               `json:"code"`
	Message   string               `json:"message"`
	Details   []service.FieldError `json:"details,omitempty"`
	RequestID string               `json:"request_id,omitempty"`
}

type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

func NewListResponse[T any](page service.Page[T]) Response {
	return Response{
		Success: true,
		Data:    page.Items,
		Meta: &Meta{
			Total:      page.Total,
			Page:       page.Page,
			PageSize:   page.PageSize,
			TotalPages: page.TotalPages(),
		},
	}
}

func NewErrorResponse(code, message, requestID string, details ...service.FieldError) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
	}
}

var codeStatus = map[string]int{
	service.CodeValidation:   http.StatusBadRequest,
	service.CodeBadRequest:   http.StatusBadRequest,
	service.CodeReferenced:   http.StatusBadRequest,
	service.CodeNotFound:     http.StatusNotFound,
	service.CodeUnauthorized: http.StatusUnauthorized,
	service.CodeTokenInvalid: http.StatusUnauthorized,
	service.CodeForbidden:    http.StatusForbidden,
	service.CodeInternal:     http.StatusInternalServerError,
}

// StatusFor maps an error code to its HTTP status; unknown codes are 500.
func StatusFor(code string) int {
	if s, ok := codeStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}
