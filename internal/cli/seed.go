package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/stockwatch/internal/server/models"
	"github.com/dmitrijs2005/stockwatch/internal/server/services"
	"github.com/google/subcommands"
)

type seeder interface {
	EnsureSeeded(ctx context.Context) error
	ListSupported(ctx context.Context) ([]*models.Stock, error)
}

type seedCmd struct {
	backend

	out     io.Writer
	catalog func(ctx context.Context) (seeder, func(), error)
}

func newSeedCmd() *seedCmd {
	c := &seedCmd{out: os.Stdout}
	c.catalog = func(ctx context.Context) (seeder, func(), error) {
		db, rm, err := c.open(ctx)
		if err != nil {
			return nil, nil, err
		}
		return services.NewCatalogService(db, rm), func() { db.Close() }, nil
	}
	return c
}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "insert the supported stocks if missing" }
func (*seedCmd) Usage() string {
	return `stockwatch-cli seed [-d <dsn>]

  Applies migrations and makes sure every supported ticker exists.
`
}

func (c *seedCmd) SetFlags(f *flag.FlagSet) {
	c.backend.setFlags(f)
}

func (c *seedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	catalog, closeFn, err := c.catalog(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	if err := catalog.EnsureSeeded(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	stocks, err := catalog.ListSupported(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for _, s := range stocks {
		fmt.Fprintln(c.out, s.String())
	}
	return subcommands.ExitSuccess
}
