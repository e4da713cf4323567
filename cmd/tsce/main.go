package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/tethys/tethyscore/cmd/tsce/cmd"
)

func main() {
	rootCmd, err := NewServiceCommand()
	if err != nil {
		log.Fatalf("init command failed.err:%v", err)
	}

	if err = rootCmd.Execute(); err != nil {
		log.Fatalf("run command failed.err:%v", err)
	}
}

func NewServiceCommand() (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:           "tsce <command> [arguments]",
		Short:         "tsce runs the contracts of a block against a local ledger.",
		Long:          "tsce runs the contracts of a block against a local ledger and prints the mutation queries.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example:       "tsce run --conf /home/rd/tethys/conf/env.yaml --block block.json",
	}

	// cmd version
	rootCmd.AddCommand(cmd.GetVersionCmd().GetCmd())
	// cmd run
	rootCmd.AddCommand(cmd.GetRunCmd().GetCmd())
	// cmd ledger
	rootCmd.AddCommand(cmd.GetLedgerCmd().GetCmd())
	return rootCmd, nil
}
