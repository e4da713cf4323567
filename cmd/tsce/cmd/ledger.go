package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tethys/tethyscore/bcs/ledger/tledger"
)

type LedgerCmd struct {
	BaseCmd
}

func GetLedgerCmd() *LedgerCmd {
	ledgerCmdIns := new(LedgerCmd)
	ledgerCmdIns.cmd = &cobra.Command{
		Use:   "ledger",
		Short: "Manage the local ledger.",
	}

	var envCfgPath, fixturePath string
	importCmd := &cobra.Command{
		Use:           "import",
		Short:         "Import world, chain, contracts and users from a yaml fixture.",
		Example:       "tsce ledger import --conf /home/rd/tethys/conf/env.yaml --file fixture.yaml",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ImportFixture(envCfgPath, fixturePath, cmd.OutOrStdout())
		},
	}
	importCmd.Flags().StringVarP(&envCfgPath, "conf", "c", "", "engine environment config file path")
	importCmd.Flags().StringVarP(&fixturePath, "file", "f", "", "fixture yaml file path")
	importCmd.MarkFlagRequired("file")

	ledgerCmdIns.cmd.AddCommand(importCmd)
	return ledgerCmdIns
}

func ImportFixture(envCfgPath, fixturePath string, out io.Writer) error {
	env, err := setupEnv(envCfgPath)
	if err != nil {
		return err
	}
	defer env.Close()

	f, err := tledger.LoadFixture(fixturePath)
	if err != nil {
		return err
	}
	n, err := env.ledger.Import(f)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "imported %d records\n", n)
	return nil
}
