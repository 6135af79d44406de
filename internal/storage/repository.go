package storage

import (
	"time"

	"cardclash/internal/battle"
)

type Repository interface {
	// Battle sessions. The in-memory registry is authoritative for live
	// battles; rows here are durable snapshots written after each
	// committed transition.
	CreateSession(s *battle.Session) error
	SaveSession(s *battle.Session) error
	// SaveSessionWithEntries persists the session snapshot and appends log
	// entries in one transaction, so a transition is either fully durable
	// or not at all.
	SaveSessionWithEntries(s *battle.Session, entries []battle.LogEntry) error
	GetSessionByBattleID(battleID string) (*battle.Session, error)

	// Battle log. Append-only; reads are ordered by sequence and
	// restartable from any cursor.
	ListLogEntries(battleID string, sinceSeq uint64) ([]battle.LogEntry, error)

	// FindStalledBattles returns in-progress battles whose turn deadline
	// is at or before now. Backs the sweeper that covers timers lost to a
	// process restart.
	FindStalledBattles(now time.Time, limit int) ([]battle.Session, error)

	ListFinishedByPlayer(playerID string, limit int) ([]battle.Session, error)

	// Player profiles and aggregate stats.
	UpsertProfile(email, tenantID, displayName string) (*battle.Profile, error)
	GetProfileByEmail(email string) (*battle.Profile, error)
	GetProfileByPlayerID(playerID string) (*battle.Profile, error)
	SaveProfile(p *battle.Profile) error
	UpdateStatsOnBattleEnd(s *battle.Session, abandonedBy string) error
	GetTopPlayers(limit int) ([]battle.Profile, error)
}
