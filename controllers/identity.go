package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"foodtruck-ops/models"
)

// currentIdentity pulls the (user id, role) pair the auth middleware
// stored on the context.
func currentIdentity(c *gin.Context) (uint, models.Role, error) {
	userIDValue, exists := c.Get("user_id")
	if !exists {
		return 0, "", errors.New("user id not found in context")
	}
	userID, ok := userIDValue.(uint)
	if !ok {
		return 0, "", errors.New("invalid user id type")
	}

	roleValue, exists := c.Get("role")
	if !exists {
		return 0, "", errors.New("role not found in context")
	}
	role, ok := roleValue.(models.Role)
	if !ok {
		return 0, "", errors.New("invalid role type")
	}

	return userID, role, nil
}
