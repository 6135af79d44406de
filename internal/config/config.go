package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"cardclash/internal/battle"
)

type cardEntry struct {
	CardID  string `json:"card_id"`
	Name    string `json:"name"`
	Attack  int    `json:"attack"`
	Defense int    `json:"defense"`
	Trap    *struct {
		Kind      string `json:"kind"`
		Magnitude int    `json:"magnitude"`
		Duration  int    `json:"duration"`
	} `json:"trap"`
}

type deckEntry struct {
	DeckID  string   `json:"deck_id"`
	Name    string   `json:"name"`
	CardIDs []string `json:"card_ids"`
}

type rawConfig struct {
	CardList []cardEntry `json:"card_list"`
	DeckList []deckEntry `json:"deck_list"`
	Server   *struct {
		Address string `json:"address"`
	} `json:"server"`
	TurnTimeoutSeconds int `json:"turn_timeout_seconds"`
	StartingHitPoints  int `json:"starting_hit_points"`
	// MaxConsecutiveTimeouts > 0 abandons a battle once the active player
	// exceeds that many forced turn passes in a row; 0 disables the policy.
	MaxConsecutiveTimeouts int `json:"max_consecutive_timeouts"`
}

// LoadedConfig contains the card catalog, the configured decks and the
// battle policy knobs.
type LoadedConfig struct {
	Cards                  []battle.Card
	Decks                  []battle.Deck
	ServerAddress          string
	TurnTimeout            time.Duration
	StartingHitPoints      int
	MaxConsecutiveTimeouts int
}

var validEffectKinds = map[battle.EffectKind]bool{
	battle.EffectBurn:    true,
	battle.EffectFreeze:  true,
	battle.EffectShield:  true,
	battle.EffectBoost:   true,
	battle.EffectHeal:    true,
	battle.EffectReflect: true,
	battle.EffectDouble:  true,
}

// LoadConfig reads the configuration file at path. It requires the keys
// `card_list` and `deck_list` (snake_case) and validates cross references.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.CardList) == 0 {
		return nil, fmt.Errorf("config file %s: card_list is empty (provide 'card_list' array)", path)
	}
	if len(rc.DeckList) == 0 {
		return nil, fmt.Errorf("config file %s: deck_list is empty (provide 'deck_list' array)", path)
	}

	cards := make([]battle.Card, 0, len(rc.CardList))
	byID := make(map[string]struct{}, len(rc.CardList))
	for _, ce := range rc.CardList {
		id := strings.TrimSpace(ce.CardID)
		if id == "" {
			return nil, fmt.Errorf("config file %s: card entry missing 'card_id'", path)
		}
		if _, exists := byID[id]; exists {
			return nil, fmt.Errorf("config file %s: duplicate card_id '%s'", path, id)
		}
		byID[id] = struct{}{}
		if ce.Attack < 0 || ce.Defense < 0 {
			return nil, fmt.Errorf("config file %s: card '%s' has negative stats", path, id)
		}
		card := battle.Card{CardID: id, Name: ce.Name, Attack: ce.Attack, Defense: ce.Defense}
		if ce.Trap != nil {
			kind := battle.EffectKind(ce.Trap.Kind)
			if !validEffectKinds[kind] {
				return nil, fmt.Errorf("config file %s: card '%s' has unknown trap kind '%s'", path, id, ce.Trap.Kind)
			}
			card.Trap = &battle.TrapEffect{Kind: kind, Magnitude: ce.Trap.Magnitude, Duration: ce.Trap.Duration}
		}
		cards = append(cards, card)
	}

	decks := make([]battle.Deck, 0, len(rc.DeckList))
	deckIDs := make(map[string]struct{}, len(rc.DeckList))
	for _, de := range rc.DeckList {
		id := strings.TrimSpace(de.DeckID)
		if id == "" {
			return nil, fmt.Errorf("config file %s: deck entry missing 'deck_id'", path)
		}
		if _, exists := deckIDs[id]; exists {
			return nil, fmt.Errorf("config file %s: duplicate deck_id '%s'", path, id)
		}
		deckIDs[id] = struct{}{}
		if len(de.CardIDs) == 0 {
			return nil, fmt.Errorf("config file %s: deck '%s' has no cards", path, id)
		}
		for _, cid := range de.CardIDs {
			if _, ok := byID[cid]; !ok {
				return nil, fmt.Errorf("config file %s: deck '%s' references unknown card '%s'", path, id, cid)
			}
		}
		decks = append(decks, battle.Deck{DeckID: id, Name: de.Name, CardIDs: de.CardIDs})
	}

	addr := ":8080"
	if rc.Server != nil && rc.Server.Address != "" {
		addr = rc.Server.Address
	}
	turnTimeout := 60 * time.Second
	if rc.TurnTimeoutSeconds > 0 {
		turnTimeout = time.Duration(rc.TurnTimeoutSeconds) * time.Second
	}
	startingHP := 20
	if rc.StartingHitPoints > 0 {
		startingHP = rc.StartingHitPoints
	}

	return &LoadedConfig{
		Cards:                  cards,
		Decks:                  decks,
		ServerAddress:          addr,
		TurnTimeout:            turnTimeout,
		StartingHitPoints:      startingHP,
		MaxConsecutiveTimeouts: rc.MaxConsecutiveTimeouts,
	}, nil
}
