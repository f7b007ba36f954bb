package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/project-portal-api/internal/middleware"
	"github.com/noah-isme/project-portal-api/internal/models"
)

func principalFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Principal(c)
}
