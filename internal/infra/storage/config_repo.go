package storage

import (
	"context"
	"database/sql"

	pq "github.com/lib/pq"

	"github.com/Gen1xLol/AIsemble/internal/domain"
)

// ConfigRepo es el backend relacional de la config por guild (alternativa al
// documento JSON, mismo contrato).
type ConfigRepo struct{ db *sql.DB }

func NewConfigRepo(db *sql.DB) *ConfigRepo { return &ConfigRepo{db: db} }

// Get: un guild sin fila devuelve config vacía; la fila se crea en el primer Put.
func (r *ConfigRepo) Get(ctx context.Context, guildID string) (domain.GuildConfig, error) {
	cfg := domain.GuildConfig{GuildID: guildID}
	err := r.db.QueryRowContext(ctx, `
SELECT context, suggestions, channel_whitelist
  FROM guild_configs
 WHERE guild_id = $1
`, guildID).Scan(&cfg.Context, pq.Array(&cfg.Suggestions), pq.Array(&cfg.WhitelistedChannelIDs))
	if err == sql.ErrNoRows {
		return cfg, nil
	}
	return cfg, err
}

func (r *ConfigRepo) Put(ctx context.Context, cfg domain.GuildConfig) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO guild_configs (guild_id, context, suggestions, channel_whitelist)
VALUES ($1, $2, $3::text[], $4::text[])
ON CONFLICT (guild_id) DO UPDATE SET
  context           = EXCLUDED.context,
  suggestions       = EXCLUDED.suggestions,
  channel_whitelist = EXCLUDED.channel_whitelist,
  updated_at        = now()
`, cfg.GuildID, cfg.Context, pq.Array(cfg.Suggestions), pq.Array(cfg.WhitelistedChannelIDs))
	return err
}
