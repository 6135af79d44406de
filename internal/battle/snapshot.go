package battle

// Clone returns a deep copy of the session suitable for handing to
// observers outside the per-battle lock.
func (s *Session) Clone() *Session {
	out := *s
	for i := range s.Field.Players {
		p := &s.Field.Players[i]
		cp := &out.Field.Players[i]
		cp.Hand = append([]Card(nil), p.Hand...)
		cp.Effects = append([]StatusEffect(nil), p.Effects...)
		cp.Field = make([]CardInPlay, len(p.Field))
		for j := range p.Field {
			cp.Field[j] = p.Field[j]
			cp.Field[j].Effects = append([]StatusEffect(nil), p.Field[j].Effects...)
		}
	}
	return &out
}

// RedactFor returns a copy of the session with hidden information removed
// for the given viewer: the opponent's hand is replaced by a count-preserving
// list of blank cards and face-down traps lose their identity and stats.
// Spectators (viewerID not a participant) see both sides redacted.
func (s *Session) RedactFor(viewerID string) *Session {
	out := s.Clone()
	for i := range out.Field.Players {
		p := &out.Field.Players[i]
		if p.PlayerID == viewerID {
			continue
		}
		for j := range p.Hand {
			p.Hand[j] = Card{CardID: "hidden"}
		}
		for j := range p.Field {
			if p.Field[j].Position == PositionTrap {
				p.Field[j].Card = Card{CardID: "hidden"}
			}
		}
	}
	return out
}
