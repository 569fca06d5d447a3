package handler

import (
	"github.com/mageuzialbert/skymap-courier/internal/service"
	"github.com/mageuzialbert/skymap-courier/pkg/apperrors"
	"github.com/mageuzialbert/skymap-courier/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError maps a service error onto the response envelope using the
// error taxonomy's HTTP status.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.FromError(err)
	c.JSON(appErr.HTTPStatus(), response.Error(appErr.HTTPStatus(), appErr.Message))
}

// actorFromContext rebuilds the acting user from values the auth
// middleware stored on the gin context.
func actorFromContext(c *gin.Context) service.Actor {
	actor := service.Actor{Role: c.GetString("userRole")}
	if raw, ok := c.Get("userID"); ok {
		if s, ok := raw.(string); ok {
			if id, err := uuid.Parse(s); err == nil {
				actor.ID = id
			}
		}
	}
	if raw := c.GetString("businessID"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			actor.BusinessID = &id
		}
	}
	return actor
}

// actorID returns the acting user's ID as a pointer for audit fields,
// nil when unauthenticated.
func actorID(c *gin.Context) *uuid.UUID {
	actor := actorFromContext(c)
	if actor.ID == uuid.Nil {
		return nil
	}
	id := actor.ID
	return &id
}

// parseIDParam parses the :id path parameter as a UUID.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.NewValidation("invalid id"))
		return uuid.Nil, false
	}
	return id, true
}
