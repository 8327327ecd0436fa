// Package handler holds the gin handlers of the shop API. Handlers only
// translate between HTTP and the application services; all business rules
// live below them.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/infrastructure/logger"
	"github.com/shop/backend/internal/interfaces/http/dto"
	"github.com/shop/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, code, message string) {
	h.Error(c, http.StatusBadRequest, code, message)
}

// InternalError sends a 500 response. The cause is logged with the trace
// of the request and attached to the gin context; the client only sees a
// generic message.
func (h *BaseHandler) InternalError(c *gin.Context, err error) {
	logger.L(c.Request.Context()).Error("Request failed", zap.Error(err))
	_ = c.Error(err)
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// HandleError converts an error returned by a service into a response.
// Domain errors keep their code and get the status of their kind.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.StatusForKind(domainErr.Kind)
		if status == http.StatusInternalServerError {
			h.InternalError(c, err)
			return
		}
		h.Error(c, status, domainErr.Code, domainErr.Message)
		return
	}
	h.InternalError(c, err)
}

// BindJSON binds the request body into req and answers 400 on failure.
// It returns false when the handler must stop.
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.handleBindError(c, err)
		return false
	}
	return true
}

// BindQuery binds the query string into req and answers 400 on failure
func (h *BaseHandler) BindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.handleBindError(c, err)
		return false
	}
	return true
}

func (h *BaseHandler) handleBindError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &maxErr):
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
	case errors.Is(err, io.EOF):
		h.BadRequest(c, dto.ErrCodeInvalidJSON, "Request body is empty")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		h.BadRequest(c, dto.ErrCodeInvalidJSON, "Request body is not valid JSON")
	case errors.As(err, &typeErr):
		h.BadRequest(c, dto.ErrCodeInvalidJSON, "Field "+typeErr.Field+" has the wrong type")
	default:
		if details := middleware.ValidationDetails(err); details != nil {
			middleware.HandleValidationError(c, err)
			return
		}
		h.BadRequest(c, dto.ErrCodeBadRequest, err.Error())
	}
}

// ParseID reads a UUID path parameter and answers 400 when it is malformed
func (h *BaseHandler) ParseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidID, "Invalid "+param+" format")
		return uuid.Nil, false
	}
	return id, true
}

// respondPage writes one page of a listing with its pagination meta
func respondPage[T any](h *BaseHandler, c *gin.Context, page *shared.Paginated[T]) {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}
