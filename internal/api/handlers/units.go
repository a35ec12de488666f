package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wwtp-carbon/internal/session"
)

type UnitHandler struct {
	state *session.State
}

func NewUnitHandler(state *session.State) *UnitHandler {
	return &UnitHandler{state: state}
}

// ListUnits handles GET /api/v1/units
func (h *UnitHandler) ListUnits(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"units": h.state.Units()})
}

// UpdateUnit handles PUT /api/v1/units/:name
func (h *UnitHandler) UpdateUnit(c *gin.Context) {
	var patch session.UnitPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.state.UpdateUnit(c.Param("name"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
