package main

import (
	"fmt"
	"os"

	"github.com/newthinker/pms/internal/core"
	"github.com/newthinker/pms/internal/ledger"
	"github.com/spf13/cobra"
)

var importSnapshot bool

var importCmd = &cobra.Command{
	Use:   "import <file.csv | snapshot-id>",
	Short: "Append trades from a CSV file or an archived snapshot",
	Long: `Reads a ledger CSV with header id,date,symbol,qty,entry,exit,fees,pnl,note.
Every row is validated first and the rows are inserted all together or not at all.
Ids and pnl in the file are ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importSnapshot, "snapshot", false, "treat the argument as a snapshot id from the archive")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	var records []core.TradeRecord
	if importSnapshot {
		arch, err := openArchiver(s)
		if err != nil {
			return err
		}
		records, err = arch.LoadTrades(cmd.Context(), args[0])
		if err != nil {
			return err
		}
	} else {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		records, err = ledger.ReadCSV(f)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
	}

	n, err := s.app.Import(cmd.Context(), records)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d trades\n", n)
	return nil
}
