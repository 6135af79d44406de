package service

import (
	"time"

	"cardclash/internal/battle"
	"cardclash/internal/matchmaking"

	"github.com/google/uuid"
)

// QueueStatus describes a player's current matchmaking state.
type QueueStatus struct {
	Searching bool `json:"searching"`
	Position  int  `json:"position,omitempty"`
	PoolSize  int  `json:"pool_size"`
}

// JoinQueue validates the deck and enqueues the player for pairing within
// their tenant.
func (svc *BattleService) JoinQueue(playerID, tenantID, deckID string) (matchmaking.JoinResult, error) {
	if !svc.catalog.HasDeck(deckID) {
		return matchmaking.JoinResult{}, ErrUnknownDeck
	}
	return svc.queue.Join(playerID, tenantID, deckID)
}

// LeaveQueue cancels the player's queue entry. Idempotent.
func (svc *BattleService) LeaveQueue(playerID string) {
	svc.queue.Leave(playerID)
}

// Status reports the player's queue position and their tenant's pool size.
func (svc *BattleService) Status(playerID, tenantID string) QueueStatus {
	pos, ok := svc.queue.Position(playerID)
	return QueueStatus{Searching: ok, Position: pos, PoolSize: svc.queue.PoolSize(tenantID)}
}

// CreateDirectBattle creates a waiting battle against a chosen opponent in
// the same tenant. Unlike matchmade battles it does not start automatically;
// either participant starts it.
func (svc *BattleService) CreateDirectBattle(callerID, callerTenant, callerDeck, opponentID, opponentDeck string) (*battle.Session, error) {
	if !svc.catalog.HasDeck(callerDeck) || !svc.catalog.HasDeck(opponentDeck) {
		return nil, ErrUnknownDeck
	}
	opp, err := svc.repo.GetProfileByPlayerID(opponentID)
	if err != nil {
		return nil, err
	}
	if opp == nil || opp.TenantID != callerTenant || opponentID == callerID {
		return nil, ErrOpponentNotFound
	}
	return svc.createSession(callerTenant, callerID, callerDeck, opponentID, opponentDeck)
}

func (svc *BattleService) createSession(tenantID, p1ID, p1Deck, p2ID, p2Deck string) (*battle.Session, error) {
	now := time.Now().UTC()
	hp := svc.opts.StartingHitPoints
	s := &battle.Session{
		BattleID:     uuid.NewString(),
		TenantID:     tenantID,
		Status:       battle.StatusWaiting,
		LastActionAt: now,
		Field: battle.Field{Players: [2]battle.PlayerState{
			{PlayerID: p1ID, DeckID: p1Deck, HitPoints: hp, MaxHitPoints: hp},
			{PlayerID: p2ID, DeckID: p2Deck, HitPoints: hp, MaxHitPoints: hp},
		}},
	}
	if err := svc.repo.CreateSession(s); err != nil {
		return nil, err
	}
	svc.reg.Add(s)
	return s, nil
}

// matchedSession is the matchmaking queue's session factory. Matchmade
// battles start immediately, with the longer-waiting player seated as
// player1 and holding the first turn.
func (svc *BattleService) matchedSession(tenantID string, first, second matchmaking.QueueEntry) (string, error) {
	s, err := svc.createSession(tenantID, first.PlayerID, first.DeckID, second.PlayerID, second.DeckID)
	if err != nil {
		return "", err
	}
	if _, err := svc.StartBattle(s.BattleID, first.PlayerID); err != nil {
		svc.reg.Remove(s.BattleID)
		return "", err
	}
	return s.BattleID, nil
}
