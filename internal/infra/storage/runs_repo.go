package storage

import (
	"context"
	"database/sql"

	"github.com/oklog/ulid/v2"
)

// RunsRepo audita reforms ejecutados (solo en modo postgres). El janitor
// limpia las filas viejas.
type RunsRepo struct{ db *sql.DB }

func NewRunsRepo(db *sql.DB) *RunsRepo { return &RunsRepo{db: db} }

func (r *RunsRepo) Start(ctx context.Context, guildID string) (string, error) {
	id := ulid.Make().String()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO reform_runs (id, guild_id) VALUES ($1, $2)
`, id, guildID)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *RunsRepo) Finish(ctx context.Context, runID, outcome string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE reform_runs
   SET outcome = $1, finished_at = now()
 WHERE id = $2
`, outcome, runID)
	return err
}

// NopRuns: auditoría apagada (modo JSON).
type NopRuns struct{}

func (NopRuns) Start(context.Context, string) (string, error) { return "", nil }
func (NopRuns) Finish(context.Context, string, string) error  { return nil }
