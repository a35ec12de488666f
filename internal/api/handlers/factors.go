package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wwtp-carbon/internal/carbon"
)

// GetFactors handles GET /api/v1/factors
func GetFactors(engine *carbon.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, engine.Factors())
	}
}
