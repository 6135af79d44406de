package main

import (
	"os"

	"cardclash/internal/constants"
	"cardclash/internal/logging"

	"github.com/joho/godotenv"
)

func main() {
	// Local development reads secrets from a .env file; in production the
	// variables come from the environment and the file is absent.
	_ = godotenv.Load()
	checkEnvVars([]string{constants.EnvSessionSecret, constants.EnvGoogleClientID, constants.EnvGoogleClientSecret})

	// Card and deck configuration file (required). Path may be provided via
	// CARDCLASH_CONFIG env var or defaults to ./cardclash_config.json in the
	// current working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./cardclash_config.json"
	}
	cfg := loadConfigOrExit(configPath)

	// Allow the DB path to be configured via CARDCLASH_DB. Default to a
	// `data/` directory for local development.
	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = "./data/cardclash.db"
	}
	repo := createRepositoryOrExit(dbPath)

	app := buildApp(repo, cfg)
	startTimeoutSweeper(app.svc)

	router := buildRouter(app)

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}

func checkEnvVars(vars []string) {
	for _, v := range vars {
		if os.Getenv(v) == "" {
			logging.Fatal("Required environment variable not set", nil, logging.Fields{"var": v})
		}
	}
}
