package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"shop-admin/internal/dto"
	"shop-admin/internal/logger"
	"shop-admin/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var setupValidatorOnce sync.Once

// SetupValidator makes binding errors report JSON field names.
func SetupValidator() {
	setupValidatorOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name == "" {
					name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
				}
				return name
			})
		}
	})
}

func render(c *gin.Context, status int, data any) {
	c.JSON(status, dto.NewSuccessResponse(data))
}

func renderList[T any](c *gin.Context, page service.Page[T]) {
	c.JSON(http.StatusOK, dto.NewListResponse(page))
}

// renderError writes err in the envelope. Errors that are not *service.Error
// are logged and hidden behind ERR_INTERNAL.
func renderError(c *gin.Context, err error) {
	requestID := c.GetString(logger.RequestIDKey)

	var e *service.Error
	if errors.As(err, &e) {
		status := dto.StatusFor(e.Code)
		if status >= http.StatusInternalServerError {
			logger.FromGin(c).Error("Request failed", zap.Error(err))
		}
		c.JSON(status, dto.NewErrorResponse(e.Code, e.Message, requestID, e.Details...))
		return
	}

	_ = c.Error(err)
	logger.FromGin(c).Error("Request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(service.CodeInternal, "internal server error", requestID))
}

// bindJSON decodes the body into dst, writing the error response itself on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		renderError(c, bindingError(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		renderError(c, bindingError(err))
		return false
	}
	return true
}

func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]service.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, service.FieldError{Field: fe.Field(), Message: validationMessage(fe)})
		}
		return service.Validation("request validation failed", details...)
	}
	return service.BadRequest("malformed request: " + err.Error())
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "invalid email format"
	case "url":
		return "invalid URL"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return "failed on " + fe.Tag() + " validation"
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		renderError(c, service.BadRequest("invalid "+name))
		return 0, false
	}
	return uint(id), true
}

type listQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
}

func (q listQuery) params() service.ListParams {
	return service.ListParams{Page: q.Page, PageSize: q.PageSize, Search: q.Search}
}
