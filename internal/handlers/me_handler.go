package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sandyspetshop/petshop-scheduler/internal/httpresp"
	"github.com/sandyspetshop/petshop-scheduler/internal/middleware"
)

type MeHandler struct{}

func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

// GetMe echoes the identity carried by the token.
func (h *MeHandler) GetMe(c *gin.Context) {
	httpresp.OK(c, gin.H{
		"user": gin.H{
			"id":   middleware.UserID(c),
			"name": c.GetString(middleware.ContextUserName),
			"role": c.GetString(middleware.ContextUserRole),
		},
	})
}
