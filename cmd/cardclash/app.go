package main

import (
	"cardclash/internal/config"
	"cardclash/internal/logging"
	"cardclash/internal/notify"
	"cardclash/internal/registry"
	"cardclash/internal/service"
	"cardclash/internal/storage"
)

type app struct {
	repo storage.Repository
	svc  *service.BattleService
}

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid cardclash configuration", err, logging.Fields{"config_path": path, "hint": "create a cardclash_config.json with 'card_list' and 'deck_list' arrays and optional keys: server.address, turn_timeout_seconds, starting_hit_points, max_consecutive_timeouts"})
	}
	return cfg
}

func createRepositoryOrExit(dbPath string) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewSQLiteRepository(db)
}

// buildApp wires the long-lived components: repository, live session
// registry, event hub and the battle service that owns them.
func buildApp(repo storage.Repository, cfg *config.LoadedConfig) *app {
	reg := registry.New(repo)
	hub := notify.NewHub()
	catalog := config.NewCatalog(cfg)
	svc := service.NewBattleService(repo, reg, hub, catalog, service.Options{
		TurnTimeout:            cfg.TurnTimeout,
		StartingHitPoints:      cfg.StartingHitPoints,
		MaxConsecutiveTimeouts: cfg.MaxConsecutiveTimeouts,
	})
	return &app{repo: repo, svc: svc}
}
