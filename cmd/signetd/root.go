package main

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "signetd",
		Short: "Signet chain-signature escrow daemon",
	}

	InitRootCmd(rootCmd) // add subcommands like `init`, `start` and `version`

	return rootCmd
}
