package battle

import "testing"

func twoPlayerSession() *Session {
	return &Session{
		BattleID: "b1",
		Field: Field{Players: [2]PlayerState{
			{
				PlayerID: "p1",
				Hand:     []Card{{CardID: "c1", Name: "Raider", Attack: 12}},
				Field: []CardInPlay{
					{Card: Card{CardID: "c2", Name: "Wall"}, Position: PositionMonster},
				},
			},
			{
				PlayerID: "p2",
				Hand:     []Card{{CardID: "c3", Name: "Viper", Attack: 4}, {CardID: "c4"}},
				Field: []CardInPlay{
					{Card: Card{CardID: "c5", Name: "Snare", Trap: &TrapEffect{Kind: EffectFreeze}}, Position: PositionTrap},
					{Card: Card{CardID: "c6", Name: "Golem"}, Position: PositionMonster},
				},
			},
		}},
	}
}

func TestRedactFor_HidesOpponentHandAndTraps(t *testing.T) {
	s := twoPlayerSession()
	view := s.RedactFor("p1")

	own := view.Field.Players[0]
	if own.Hand[0].CardID != "c1" {
		t.Fatalf("viewer's own hand must stay visible")
	}

	opp := view.Field.Players[1]
	if len(opp.Hand) != 2 {
		t.Fatalf("hand count must be preserved, got %d", len(opp.Hand))
	}
	for i := range opp.Hand {
		if opp.Hand[i].CardID != "hidden" || opp.Hand[i].Attack != 0 {
			t.Fatalf("opponent hand leaked: %+v", opp.Hand[i])
		}
	}
	if opp.Field[0].CardID != "hidden" || opp.Field[0].Trap != nil {
		t.Fatalf("face-down trap leaked: %+v", opp.Field[0].Card)
	}
	if opp.Field[1].CardID != "c6" {
		t.Fatalf("face-up monsters must stay visible, got %+v", opp.Field[1].Card)
	}

	// The original is untouched.
	if s.Field.Players[1].Hand[0].CardID != "c3" {
		t.Fatalf("redaction mutated the source session")
	}
}

func TestRedactFor_SpectatorSeesBothSidesRedacted(t *testing.T) {
	view := twoPlayerSession().RedactFor("watcher")
	for i := range view.Field.Players {
		for _, c := range view.Field.Players[i].Hand {
			if c.CardID != "hidden" {
				t.Fatalf("spectator saw a hand card: %+v", c)
			}
		}
	}
}

func TestClone_DeepCopiesNestedState(t *testing.T) {
	s := twoPlayerSession()
	s.Field.Players[0].Effects = []StatusEffect{{Kind: EffectShield, Magnitude: 4, RemainingDuration: 2}}

	c := s.Clone()
	c.Field.Players[0].Hand[0].CardID = "mutated"
	c.Field.Players[0].Effects[0].Magnitude = 99
	c.Field.Players[1].Field[0].Card.CardID = "mutated"

	if s.Field.Players[0].Hand[0].CardID != "c1" {
		t.Fatalf("clone shares hand storage")
	}
	if s.Field.Players[0].Effects[0].Magnitude != 4 {
		t.Fatalf("clone shares effect storage")
	}
	if s.Field.Players[1].Field[0].CardID != "c5" {
		t.Fatalf("clone shares field storage")
	}
}
