package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Limpia la auditoría de reforms viejos (solo aplica al backend postgres).
func handler(ctx context.Context) (string, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return "no DATABASE_URL", nil
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fmt.Sprintf("parse: %v", err), nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Sprintf("pool: %v", err), nil
	}
	defer pool.Close()

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, _ = pool.Exec(cctx, `
DELETE FROM reform_runs
WHERE started_at < now() - INTERVAL '30 days';`)

	// corridas que nunca cerraron (proceso caído a mitad de reform)
	_, _ = pool.Exec(cctx, `
UPDATE reform_runs
   SET outcome = 'abandoned', finished_at = now()
 WHERE outcome IS NULL
   AND started_at < now() - INTERVAL '1 day';`)

	return "ok", nil
}

func main() { lambda.Start(handler) }
