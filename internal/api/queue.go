package api

import (
	"net/http"

	"cardclash/internal/constants"

	"github.com/gin-gonic/gin"
)

type JoinQueuePayload struct {
	DeckID string `json:"deck_id"`
}

// JoinQueue enqueues the caller for matchmaking within their tenant. The
// response either names the created battle or reports the queue position.
func (h *BattleHandler) JoinQueue(c *gin.Context) {
	var req JoinQueuePayload
	if err := c.ShouldBindJSON(&req); err != nil || req.DeckID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	playerID, tenantID := identity(c)
	res, err := h.svc.JoinQueue(playerID, tenantID, req.DeckID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// LeaveQueue cancels the caller's queue entry. Always succeeds.
func (h *BattleHandler) LeaveQueue(c *gin.Context) {
	playerID, _ := identity(c)
	h.svc.LeaveQueue(playerID)
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "left"})
}

// QueueStatus reports the caller's position and the tenant pool size.
func (h *BattleHandler) QueueStatus(c *gin.Context) {
	playerID, tenantID := identity(c)
	c.JSON(http.StatusOK, h.svc.Status(playerID, tenantID))
}
