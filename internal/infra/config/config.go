package config

import (
	"log"
	"os"
)

type Config struct {
	BotToken   string
	BotOwnerID string

	AIEndpoint string // endpoint chat-completion
	AIAPIKey   string // opcional según el proveedor
	AIModel    string

	DBPath      string // documento JSON (default)
	DatabaseURL string // opcional: backend postgres
}

func Load() Config {
	get := func(k string, req bool) string {
		v := os.Getenv(k)
		if v == "" && req {
			log.Fatalf("faltante env %s", k)
		}
		return v
	}

	cfg := Config{
		BotToken:    get("BOT_TOKEN", true),
		BotOwnerID:  get("BOT_OWNER_ID", true),
		AIEndpoint:  get("AI_API_URL", false),
		AIAPIKey:    get("AI_API_KEY", false),
		AIModel:     get("AI_MODEL", false),
		DBPath:      get("DB_PATH", false),
		DatabaseURL: get("DATABASE_URL", false),
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "db.json"
	}
	return cfg
}
