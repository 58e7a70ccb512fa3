// Package handler contains the HTTP transport layer. Handlers bind and
// validate requests, call the application services and render the response
// envelope; they hold no business logic.
package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/crm/backend/internal/application/crm"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// bindJSON binds the request body and renders a validation error response
// on failure. Returns false when the request was already answered.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest,
			dto.NewValidationErrorResponse("Invalid request body", validationDetails(err)))
		return false
	}
	return true
}

// bindQuery binds query parameters the same way
func bindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest,
			dto.NewValidationErrorResponse("Invalid query parameters", validationDetails(err)))
		return false
	}
	return true
}

// pathID parses the :id path parameter as a UUID
func pathID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid resource ID"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid resource ID"))
		return uuid.Nil, false
	}
	return id, true
}

func validationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag()))
	}
	return details
}

// principal returns the authenticated caller. Routes behind the Auth
// middleware always have one; the guard covers misconfigured routes.
func principal(c *gin.Context) (auth.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
	}
	return p, ok
}

// requestInfo captures the caller's network details for audit logging
func requestInfo(c *gin.Context) crm.RequestInfo {
	return crm.RequestInfo{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// listFilter builds the common repository filter from query parameters
func listFilter(c *gin.Context) (shared.Filter, bool) {
	var req dto.ListRequest
	if !bindQuery(c, &req) {
		return shared.Filter{}, false
	}
	req.Normalize()

	filter := shared.Filter{
		Page:    req.Page,
		Limit:   req.Limit,
		Search:  req.Search,
		Filters: make(map[string]any),
	}
	if owner := c.Query("owner_id"); owner != "" {
		id, err := uuid.Parse(owner)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid owner_id"))
			return shared.Filter{}, false
		}
		filter.OwnerID = &id
	}
	return filter, true
}

func respondError(c *gin.Context, err error) {
	c.JSON(dto.HTTPStatusForError(err), dto.NewErrorResponse(dto.MessageForError(err)))
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

func respondPage[T any](c *gin.Context, page shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page.Items, page.Total, page.Page, page.Limit))
}
