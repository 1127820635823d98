package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dmitrijs2005/stockwatch/internal/server/models"
	"github.com/dmitrijs2005/stockwatch/internal/server/services"
	"github.com/google/subcommands"
)

type registrar interface {
	Register(ctx context.Context, email, password, confirmPassword string) (*models.User, error)
}

type registerCmd struct {
	backend
	email string

	in       io.Reader
	out      io.Writer
	accounts func(ctx context.Context) (registrar, func(), error)
}

func newRegisterCmd() *registerCmd {
	c := &registerCmd{in: os.Stdin, out: os.Stdout}
	c.accounts = func(ctx context.Context) (registrar, func(), error) {
		db, rm, err := c.open(ctx)
		if err != nil {
			return nil, nil, err
		}
		cfg := c.config()
		svc := services.NewAccountService(db, rm, services.NewBcryptHasher(cfg.BcryptCost), cfg)
		return svc, func() { db.Close() }, nil
	}
	return c
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create a dashboard account" }
func (*registerCmd) Usage() string {
	return `stockwatch-cli register [-email <email>] [-d <dsn>]

  Creates an account. The password is read twice from the terminal.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	c.backend.setFlags(f)
	f.StringVar(&c.email, "email", "", "account email; prompted when empty")
}

func (c *registerCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	email := c.email
	if email == "" {
		var err error
		email, err = promptLine(bufio.NewReader(c.in), c.out, "Email")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}

	password, err := promptPassword(c.out, "Password")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	confirm, err := promptPassword(c.out, "Confirm password")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	accounts, closeFn, err := c.accounts(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	user, err := accounts.Register(ctx, email, password, confirm)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			fields := make([]string, 0, len(verr.Fields))
			for f := range verr.Fields {
				fields = append(fields, f)
			}
			sort.Strings(fields)
			for _, f := range fields {
				fmt.Fprintf(c.out, "%s: %s\n", f, verr.Fields[f])
			}
			return subcommands.ExitUsageError
		}
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(c.out, "Account %s created.\n", user.UserName)
	return subcommands.ExitSuccess
}
