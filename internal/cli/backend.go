package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/dmitrijs2005/stockwatch/internal/server/config"
	"github.com/dmitrijs2005/stockwatch/internal/server/repositories/repomanager"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DSNEnvName overrides the default database DSN for all subcommands.
const DSNEnvName = "STOCKWATCH_DATABASE_DSN"

// backend holds the database flags shared by subcommands that touch storage.
type backend struct {
	dsn        string
	bcryptCost int
}

func (b *backend) setFlags(f *flag.FlagSet) {
	defaults := &config.Config{}
	defaults.LoadDefaults()

	dsn := defaults.DatabaseDSN
	if v := os.Getenv(DSNEnvName); v != "" {
		dsn = v
	}
	f.StringVar(&b.dsn, "d", dsn, "database DSN (env "+DSNEnvName+")")
	f.IntVar(&b.bcryptCost, "b", defaults.BcryptCost, "bcrypt cost for new password hashes")
}

// config returns a server config carrying the backend flags.
func (b *backend) config() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabaseDSN = b.dsn
	c.BcryptCost = b.bcryptCost
	return c
}

// open connects to Postgres and applies pending migrations.
func (b *backend) open(ctx context.Context) (*sql.DB, repomanager.RepositoryManager, error) {
	db, err := sql.Open("pgx", b.dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}
	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrations error: %w", err)
	}
	return db, rm, nil
}
