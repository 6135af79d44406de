package battlelog

import (
	"time"

	"cardclash/internal/battle"
)

// Assign stamps battle identity and the next sequence numbers onto entries
// produced by the resolver. It must be called under the per-battle lock so
// sequence numbers for one battle are strictly increasing with no gaps.
// The session's LastSeq is advanced; the caller persists both together.
func Assign(s *battle.Session, entries []battle.LogEntry) []battle.LogEntry {
	for i := range entries {
		s.LastSeq++
		entries[i].BattleID = s.BattleID
		entries[i].Sequence = s.LastSeq
		if entries[i].LoggedAt.IsZero() {
			entries[i].LoggedAt = time.Now().UTC()
		}
	}
	return entries
}
