package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"cardclash/internal/battle"
	"cardclash/internal/battlelog"
	"cardclash/internal/constants"
	"cardclash/internal/notify"

	"github.com/gin-gonic/gin"
)

func respondSession(c *gin.Context, s *battle.Session, viewerID string, status int) {
	out, err := MarshalIntoSnakeTimestamps(s.RedactFor(viewerID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(status, out)
}

type CreateBattlePayload struct {
	OpponentID   string `json:"opponent_id"`
	DeckID       string `json:"deck_id"`
	OpponentDeck string `json:"opponent_deck_id"`
}

// CreateBattle creates a direct (non-matchmade) battle against a chosen
// opponent in the caller's tenant. The battle waits until started.
func (h *BattleHandler) CreateBattle(c *gin.Context) {
	var req CreateBattlePayload
	if err := c.ShouldBindJSON(&req); err != nil || req.OpponentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if req.OpponentDeck == "" {
		req.OpponentDeck = req.DeckID
	}
	playerID, tenantID := identity(c)
	s, err := h.svc.CreateDirectBattle(playerID, tenantID, req.DeckID, req.OpponentID, req.OpponentDeck)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"battle_id": s.BattleID, constants.JSONKeyStatus: s.Status})
}

// GetBattle returns the caller's view of the battle: the opponent's hand
// and face-down traps stay hidden.
func (h *BattleHandler) GetBattle(c *gin.Context) {
	playerID, _ := identity(c)
	s, err := h.svc.Snapshot(c.Param("battleID"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondSession(c, s, playerID, http.StatusOK)
}

// StartBattle deals hands and begins the first turn.
func (h *BattleHandler) StartBattle(c *gin.Context) {
	playerID, _ := identity(c)
	s, err := h.svc.StartBattle(c.Param("battleID"), playerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondSession(c, s, playerID, http.StatusOK)
}

type PlayCardPayload struct {
	CardID string `json:"card_id"`
	AsTrap bool   `json:"as_trap"`
}

// PlayCard places a hand card face-up as a monster or face-down as a trap.
func (h *BattleHandler) PlayCard(c *gin.Context) {
	var req PlayCardPayload
	if err := c.ShouldBindJSON(&req); err != nil || req.CardID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	playerID, _ := identity(c)
	s, err := h.svc.PlayCard(c.Param("battleID"), playerID, req.CardID, req.AsTrap)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondSession(c, s, playerID, http.StatusOK)
}

// Attack resolves the caller's attack for this turn.
func (h *BattleHandler) Attack(c *gin.Context) {
	playerID, _ := identity(c)
	s, err := h.svc.Attack(c.Param("battleID"), playerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondSession(c, s, playerID, http.StatusOK)
}

// EndTurn passes the turn to the opponent.
func (h *BattleHandler) EndTurn(c *gin.Context) {
	playerID, _ := identity(c)
	s, err := h.svc.EndTurn(c.Param("battleID"), playerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondSession(c, s, playerID, http.StatusOK)
}

// Abandon forfeits the battle for the caller.
func (h *BattleHandler) Abandon(c *gin.Context) {
	playerID, _ := identity(c)
	s, err := h.svc.Abandon(c.Param("battleID"), playerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondSession(c, s, playerID, http.StatusOK)
}

// TimeoutCheck lets a client nudge the server about an expired deadline.
// The server re-validates the deadline itself, so calling this early or
// repeatedly changes nothing.
func (h *BattleHandler) TimeoutCheck(c *gin.Context) {
	playerID, _ := identity(c)
	battleID := c.Param("battleID")
	if err := h.svc.ForceTimeout(battleID); err != nil {
		writeServiceError(c, err)
		return
	}
	s, err := h.svc.Snapshot(battleID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondSession(c, s, playerID, http.StatusOK)
}

// GetLog returns battle log entries after the given sequence cursor.
// Polling clients pass the last sequence they saw; omitting it returns the
// full log.
func (h *BattleHandler) GetLog(c *gin.Context) {
	sinceSeq := uint64(0)
	if raw := c.Query("since"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
			return
		}
		sinceSeq = v
	}
	entries, err := h.svc.Log(c.Param("battleID"), sinceSeq)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLog})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// History lists the caller's finished and abandoned battles, newest first.
func (h *BattleHandler) History(c *gin.Context) {
	playerID, _ := identity(c)
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	sessions, err := h.svc.History(playerID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchHist})
		return
	}
	out, err := MarshalIntoSnakeTimestamps(sessions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchHist})
		return
	}
	c.JSON(http.StatusOK, gin.H{"battles": out})
}

type NormalizeLogPayload struct {
	Records []json.RawMessage `json:"records"`
}

// NormalizeLog converts legacy-shaped log records (exports from the old
// system) into the canonical typed-event shape for display. Nothing is
// stored.
func (h *BattleHandler) NormalizeLog(c *gin.Context) {
	var req NormalizeLogPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	entries := make([]battle.LogEntry, 0, len(req.Records))
	for _, raw := range req.Records {
		e, err := battlelog.NormalizeLegacy(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest, constants.JSONKeyDetails: err.Error()})
			return
		}
		entries = append(entries, e)
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// StreamBattle pushes battle events over SSE. The first event carries the
// current snapshot so the client never needs a separate initial fetch; a
// client that misses pushes catches up through the log's sequence cursor.
func (h *BattleHandler) StreamBattle(c *gin.Context) {
	playerID, _ := identity(c)
	battleID := c.Param("battleID")

	snap, err := h.svc.Snapshot(battleID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	ch, cancel := h.svc.Subscribe(battleID)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.SSEvent("battle", notify.Event{Snapshot: snap.RedactFor(playerID)})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			if ev.Snapshot != nil {
				ev.Snapshot = ev.Snapshot.RedactFor(playerID)
			}
			c.SSEvent("battle", ev)
			if ev.Snapshot != nil && ev.Snapshot.Terminal() {
				return false
			}
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
