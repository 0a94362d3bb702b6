package main

import (
	"os"
	"strings"

	"github.com/smartpos/pos-engine/internal/config"
	"github.com/smartpos/pos-engine/pkg/logger"
	"github.com/smartpos/pos-engine/pkg/sqlite"
)

// main applies the embedded migrations to the database file. The api
// binary migrates on startup too; this exists for upgrading a data
// directory without starting the engine.
func main() {
	err := config.Load(getEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	db, err := sqlite.Open(sqlite.Config{
		Dir:  config.Get().DataDir,
		File: config.Get().DatabaseFile,
	}, false)
	if err != nil {
		logger.Error("migration: failed opening database", "error", err)
		return
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Error("migration: error running migrations", "error", err)
		return
	}
	logger.Info("migration: database is up to date",
		"dir", config.Get().DataDir, "file", config.Get().DatabaseFile)
}

func getEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	if _, err := os.Open(".env"); err != nil {
		return ""
	}
	return ".env"
}
