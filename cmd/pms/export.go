package main

import (
	"fmt"
	"io"
	"os"

	"github.com/newthinker/pms/internal/ledger"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file.csv]",
	Short: "Write the ledger as CSV",
	Long:  "Writes every trade in date order with its pnl. Without a file the CSV goes to stdout.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.app.ListTrades(cmd.Context())
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if len(args) == 1 {
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if err := ledger.WriteCSV(w, records); err != nil {
		return err
	}
	if len(args) == 1 {
		fmt.Fprintf(cmd.ErrOrStderr(), "exported %d trades to %s\n", len(records), args[0])
	}
	return nil
}
