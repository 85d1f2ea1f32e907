package handlers

import (
	"errors"
	"net/http"

	"classhub/errs"
	"classhub/middleware"
	"classhub/models"
	"classhub/utils"

	"github.com/gin-gonic/gin"
)

// actorFrom builds the authenticated actor from the claims AuthMiddleware
// stored on the request context.
func actorFrom(c *gin.Context) models.Actor {
	return models.Actor{
		ID:   c.GetString(middleware.ContextUserID),
		Role: c.GetString(middleware.ContextRole),
	}
}

// respondError maps a typed domain error onto an HTTP status. Anything
// outside the taxonomy is an internal error.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *errs.ValidationError
		notFoundErr   *errs.NotFoundError
		ineligibleErr *errs.IneligibleItemError
		windowErr     *errs.EditWindowClosedError
		forbiddenErr  *errs.ForbiddenError
	)

	switch {
	case errors.As(err, &validationErr):
		utils.JSONError(c, http.StatusBadRequest, "invalid input", validationErr.Error())
	case errors.As(err, &notFoundErr):
		utils.JSONError(c, http.StatusNotFound, "not found", notFoundErr.Error())
	case errors.As(err, &ineligibleErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "ineligible items",
			"details": ineligibleErr.Error(),
			"items":   ineligibleErr.ItemNames,
		})
	case errors.As(err, &windowErr):
		utils.JSONError(c, http.StatusConflict, "edit window closed", windowErr.Error())
	case errors.As(err, &forbiddenErr):
		utils.JSONError(c, http.StatusForbidden, "forbidden", forbiddenErr.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
