package api

import (
	"errors"
	"net/http"

	"cardclash/internal/constants"
	"cardclash/internal/matchmaking"
	"cardclash/internal/service"
	"cardclash/internal/storage"

	"github.com/gin-gonic/gin"
)

// BattleHandler groups all battle-related HTTP handlers.
type BattleHandler struct {
	svc  *service.BattleService
	repo storage.Repository
}

// NewBattleHandler creates a new BattleHandler backed by the battle service
// and the repository (for read-only profile and leaderboard queries).
func NewBattleHandler(svc *service.BattleService, repo storage.Repository) *BattleHandler {
	return &BattleHandler{svc: svc, repo: repo}
}

// writeServiceError maps service sentinels onto HTTP statuses. Rule
// violations (wrong turn, wrong state, bad card) are conflicts, not
// server errors.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBattleNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
	case errors.Is(err, service.ErrNotYourTurn):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotYourTurn})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrInvalidTrans})
	case errors.Is(err, service.ErrCardNotInHand):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrCardNotInHand})
	case errors.Is(err, service.ErrNoMonsterToAttack):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNoMonster})
	case errors.Is(err, service.ErrUnknownDeck):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrUnknownDeck})
	case errors.Is(err, service.ErrOpponentNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrOpponentNotFound})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotParticipant})
	case errors.Is(err, matchmaking.ErrAlreadyQueued):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrAlreadyQueued})
	case errors.Is(err, matchmaking.ErrTransientPairingFailure):
		c.JSON(http.StatusServiceUnavailable, gin.H{constants.JSONKeyError: constants.ErrPairingFailed})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedPersist})
	}
}
