package config

import (
	"fmt"

	"cardclash/internal/battle"
)

// Catalog is the in-memory card/deck lookup built from the loaded config.
// It acts as the deck service for battle starts: hands are dealt by copying
// the configured deck list, so config stays the single source of truth for
// card stats.
type Catalog struct {
	cards map[string]battle.Card
	decks map[string]battle.Deck
}

func NewCatalog(cfg *LoadedConfig) *Catalog {
	c := &Catalog{
		cards: make(map[string]battle.Card, len(cfg.Cards)),
		decks: make(map[string]battle.Deck, len(cfg.Decks)),
	}
	for _, card := range cfg.Cards {
		c.cards[card.CardID] = card
	}
	for _, deck := range cfg.Decks {
		c.decks[deck.DeckID] = deck
	}
	return c
}

// HasDeck reports whether a deck ID exists in the configuration.
func (c *Catalog) HasDeck(deckID string) bool {
	_, ok := c.decks[deckID]
	return ok
}

// Card returns the catalog card for the given ID.
func (c *Catalog) Card(cardID string) (battle.Card, bool) {
	card, ok := c.cards[cardID]
	return card, ok
}

// Deal returns a fresh hand for the given deck: a copy of the deck's cards
// in configured order. Callers own the returned slice.
func (c *Catalog) Deal(deckID string) ([]battle.Card, error) {
	deck, ok := c.decks[deckID]
	if !ok {
		return nil, fmt.Errorf("unknown deck %q", deckID)
	}
	hand := make([]battle.Card, 0, len(deck.CardIDs))
	for _, cid := range deck.CardIDs {
		card, ok := c.cards[cid]
		if !ok {
			return nil, fmt.Errorf("deck %q references unknown card %q", deckID, cid)
		}
		hand = append(hand, card)
	}
	return hand, nil
}
