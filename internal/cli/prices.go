package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/stockwatch/internal/server/models"
	"github.com/dmitrijs2005/stockwatch/internal/server/prices"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type pricesCmd struct {
	rounds int
	seed   uint64

	out io.Writer
}

func newPricesCmd() *pricesCmd {
	return &pricesCmd{out: os.Stdout}
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "print simulated prices" }
func (*pricesCmd) Usage() string {
	return `stockwatch-cli prices [-n <rounds>] [-seed <n>] [TICKER...]

  Prints simulated prices for the given tickers, or for every supported
  ticker when none are given. No database is needed.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.rounds, "n", 1, "number of price rounds to print")
	f.Uint64Var(&c.seed, "seed", 0, "random seed; 0 seeds from the clock")
}

func (c *pricesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.rounds < 1 {
		fmt.Fprintln(os.Stderr, "-n must be at least 1")
		return subcommands.ExitUsageError
	}

	tickers := f.Args()
	if len(tickers) == 0 {
		tickers = models.SupportedTickers()
	}
	for i, t := range tickers {
		tickers[i] = strings.ToUpper(t)
	}

	var src rand.Source
	if c.seed != 0 {
		src = rand.NewPCG(c.seed, c.seed)
	}
	gen := prices.NewGenerator(src)

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "TICKER\tBASE\tPRICE\t")
	for r := 0; r < c.rounds; r++ {
		for _, t := range tickers {
			base := prices.FormatMoney(decimal.NewFromFloat(prices.BasePrice(t)))
			fmt.Fprintf(tw, "%s\t%s\t%s\t\n", t, base, prices.FormatMoney(gen.Generate(t)))
		}
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
