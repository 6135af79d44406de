package dedupe

// Package dedupe provides a shared singleflight group used to deduplicate
// concurrent cold loads of a battle from the database into the in-memory
// registry. Using a centralized singleflight.Group ensures only one load
// runs per battle ID while other callers wait for the result.

import "golang.org/x/sync/singleflight"

// BattleLoadGroup deduplicates battle loads keyed by battle ID.
var BattleLoadGroup singleflight.Group
