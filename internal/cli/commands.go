// Package cli implements the stockwatch-cli subcommands: account creation,
// catalog seeding and offline price simulation.
package cli

import "github.com/google/subcommands"

// Commands returns the stockwatch-cli subcommands.
func Commands() []subcommands.Command {
	return []subcommands.Command{
		newRegisterCmd(),
		newSeedCmd(),
		newPricesCmd(),
	}
}
