package main

import (
	"fmt"
	"time"

	"github.com/newthinker/pms/internal/storage/archive"
	"github.com/spf13/cobra"
)

var snapshotBenchmark bool

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Archive the ledger and its report",
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write a snapshot to the configured archive",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotSave,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived snapshot ids",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotList,
}

func init() {
	snapshotSaveCmd.Flags().BoolVar(&snapshotBenchmark, "benchmark", false, "include the benchmark comparison")
	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotListCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func openArchiver(s *session) (*archive.Archiver, error) {
	store, err := archive.Open(s.cfg.Archive)
	if err != nil {
		return nil, err
	}
	return archive.NewArchiver(store, s.log), nil
}

func runSnapshotSave(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	arch, err := openArchiver(s)
	if err != nil {
		return err
	}

	dash, err := loadDashboard(cmd, s, snapshotBenchmark)
	if err != nil {
		return err
	}
	snap := archive.Snapshot{
		TakenAt:   time.Now(),
		Report:    dash.Report,
		Benchmark: dash.Benchmark,
	}
	for _, t := range dash.Trades {
		snap.Trades = append(snap.Trades, t.TradeRecord)
	}

	id, err := arch.Save(cmd.Context(), snap)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	arch, err := openArchiver(s)
	if err != nil {
		return err
	}
	ids, err := arch.List(cmd.Context())
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}
