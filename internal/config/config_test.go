package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cardclash_config.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validConfig = `{
  "card_list": [
    {"card_id": "c1", "name": "Raider", "attack": 12, "defense": 2},
    {"card_id": "c2", "name": "Snare", "attack": 0, "defense": 1,
     "trap": {"kind": "freeze", "magnitude": 0, "duration": 2}}
  ],
  "deck_list": [
    {"deck_id": "starter", "name": "Starter", "card_ids": ["c1", "c2"]}
  ],
  "server": {"address": ":9090"},
  "turn_timeout_seconds": 30,
  "starting_hit_points": 25,
  "max_consecutive_timeouts": 3
}`

func TestLoadConfig_Valid(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerAddress != ":9090" {
		t.Fatalf("expected :9090, got %s", cfg.ServerAddress)
	}
	if cfg.TurnTimeout != 30*time.Second {
		t.Fatalf("expected 30s turn timeout, got %v", cfg.TurnTimeout)
	}
	if cfg.StartingHitPoints != 25 || cfg.MaxConsecutiveTimeouts != 3 {
		t.Fatalf("policy knobs not loaded: %+v", cfg)
	}
	if cfg.Cards[1].Trap == nil || cfg.Cards[1].Trap.Duration != 2 {
		t.Fatalf("trap config not loaded: %+v", cfg.Cards[1])
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{
  "card_list": [{"card_id": "c1", "name": "Raider", "attack": 1, "defense": 1}],
  "deck_list": [{"deck_id": "d1", "name": "D", "card_ids": ["c1"]}]
}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerAddress != ":8080" || cfg.TurnTimeout != 60*time.Second || cfg.StartingHitPoints != 20 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.MaxConsecutiveTimeouts != 0 {
		t.Fatalf("timeout forfeit must default to disabled, got %d", cfg.MaxConsecutiveTimeouts)
	}
}

func TestLoadConfig_Rejections(t *testing.T) {
	cases := map[string]string{
		"duplicate card": `{
  "card_list": [{"card_id": "c1", "attack": 1, "defense": 1}, {"card_id": "c1", "attack": 1, "defense": 1}],
  "deck_list": [{"deck_id": "d1", "card_ids": ["c1"]}]}`,
		"unknown trap kind": `{
  "card_list": [{"card_id": "c1", "attack": 1, "defense": 1, "trap": {"kind": "confuse"}}],
  "deck_list": [{"deck_id": "d1", "card_ids": ["c1"]}]}`,
		"deck references missing card": `{
  "card_list": [{"card_id": "c1", "attack": 1, "defense": 1}],
  "deck_list": [{"deck_id": "d1", "card_ids": ["c9"]}]}`,
		"empty deck list": `{
  "card_list": [{"card_id": "c1", "attack": 1, "defense": 1}],
  "deck_list": []}`,
	}
	for name, body := range cases {
		if _, err := LoadConfig(writeConfig(t, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestCatalog_Deal(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cat := NewCatalog(cfg)
	if !cat.HasDeck("starter") || cat.HasDeck("nope") {
		t.Fatalf("deck lookup broken")
	}

	hand, err := cat.Deal("starter")
	if err != nil {
		t.Fatalf("deal: %v", err)
	}
	if len(hand) != 2 || hand[0].CardID != "c1" {
		t.Fatalf("unexpected hand: %+v", hand)
	}
	// Dealt hands are copies; mutating one must not bleed into the catalog.
	hand[0].Attack = 999
	again, _ := cat.Deal("starter")
	if again[0].Attack != 12 {
		t.Fatalf("catalog card mutated through a dealt hand")
	}

	if _, err := cat.Deal("nope"); err == nil {
		t.Fatalf("expected error for unknown deck")
	}
}
