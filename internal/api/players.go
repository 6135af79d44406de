package api

import (
	"net/http"
	"strconv"
	"unicode/utf8"

	"cardclash/internal/constants"

	"github.com/gin-gonic/gin"
)

// GetPlayerStats returns the caller's profile and aggregate stats.
func (h *BattleHandler) GetPlayerStats(c *gin.Context) {
	playerID, _ := identity(c)
	p, err := h.repo.GetProfileByPlayerID(playerID)
	if err != nil || p == nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"player_id":      p.PlayerID,
		"display_name":   p.DisplayName,
		"tenant_id":      p.TenantID,
		"battles_played": p.BattlesPlayed,
		"wins":           p.Wins,
		"abandons":       p.Abandons,
	})
}

type UpdateProfilePayload struct {
	DisplayName string `json:"display_name"`
}

// UpdatePlayerProfile changes the caller's display name.
func (h *BattleHandler) UpdatePlayerProfile(c *gin.Context) {
	var req UpdateProfilePayload
	if err := c.ShouldBindJSON(&req); err != nil || req.DisplayName == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if utf8.RuneCountInString(req.DisplayName) > 32 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	playerID, _ := identity(c)
	p, err := h.repo.GetProfileByPlayerID(playerID)
	if err != nil || p == nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}
	p.DisplayName = req.DisplayName
	if err := h.repo.SaveProfile(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}
	c.JSON(http.StatusOK, gin.H{"display_name": p.DisplayName})
}

// Leaderboard lists the top players by wins. Public endpoint.
func (h *BattleHandler) Leaderboard(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	profiles, err := h.repo.GetTopPlayers(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchBoard})
		return
	}
	out := make([]gin.H, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		out = append(out, gin.H{
			"player_id":      p.PlayerID,
			"display_name":   p.DisplayName,
			"battles_played": p.BattlesPlayed,
			"wins":           p.Wins,
		})
	}
	c.JSON(http.StatusOK, gin.H{"players": out})
}
