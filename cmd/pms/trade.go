package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/newthinker/pms/internal/app"
	"github.com/newthinker/pms/internal/core"
	"github.com/newthinker/pms/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Add, edit, delete and list ledger trades",
}

var tradeAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Record a closed trade",
	Example: "  pms trade add --date 2024-01-02 --symbol INFY --qty 10 --entry 1500 --exit 1560 --fees 20",
	Args:    cobra.NoArgs,
	RunE:    runTradeAdd,
}

var tradeEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a recorded trade",
	Long:  "Only the flags given are changed; pnl is recomputed from the result.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeEdit,
}

var tradeDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a trade from the ledger",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeDelete,
}

var tradeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades in date order",
	Args:  cobra.NoArgs,
	RunE:  runTradeList,
}

var tradeListJSON bool

func init() {
	for _, c := range []*cobra.Command{tradeAddCmd, tradeEditCmd} {
		addTradeFlags(c.Flags())
	}
	for _, name := range []string{"date", "symbol", "qty", "entry", "exit"} {
		tradeAddCmd.MarkFlagRequired(name)
	}
	tradeListCmd.Flags().BoolVar(&tradeListJSON, "json", false, "print JSON instead of a table")

	tradeCmd.AddCommand(tradeAddCmd, tradeEditCmd, tradeDeleteCmd, tradeListCmd)
	rootCmd.AddCommand(tradeCmd)
}

func addTradeFlags(fs *pflag.FlagSet) {
	fs.String("date", "", "trade date YYYY-MM-DD")
	fs.String("symbol", "", "instrument symbol")
	fs.Int64("qty", 0, "quantity")
	fs.String("entry", "", "entry price")
	fs.String("exit", "", "exit price")
	fs.String("fees", "", "fees paid")
	fs.String("note", "", "free text note")
}

func runTradeAdd(cmd *cobra.Command, args []string) error {
	fs := cmd.Flags()
	in := ledger.Input{}
	in.Date, _ = fs.GetString("date")
	in.Symbol, _ = fs.GetString("symbol")
	in.Quantity, _ = fs.GetInt64("qty")
	in.Note, _ = fs.GetString("note")

	var err error
	if in.Entry, err = decimalFlag(fs, "entry"); err != nil {
		return err
	}
	if in.Exit, err = decimalFlag(fs, "exit"); err != nil {
		return err
	}
	if in.Fees, err = decimalFlag(fs, "fees"); err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	rec, err := s.app.AddTrade(cmd.Context(), in)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %s (pnl %s)\n", rec.ID, rec.PnL().StringFixed(2))
	return nil
}

func runTradeEdit(cmd *cobra.Command, args []string) error {
	patch, err := tradePatch(cmd.Flags())
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	rec, err := s.app.EditTrade(cmd.Context(), args[0], patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "updated %s (pnl %s)\n", rec.ID, rec.PnL().StringFixed(2))
	return nil
}

// tradePatch collects only the flags set on the command line.
func tradePatch(fs *pflag.FlagSet) (ledger.Patch, error) {
	var p ledger.Patch
	if fs.Changed("date") {
		v, _ := fs.GetString("date")
		p.Date = &v
	}
	if fs.Changed("symbol") {
		v, _ := fs.GetString("symbol")
		p.Symbol = &v
	}
	if fs.Changed("qty") {
		v, _ := fs.GetInt64("qty")
		p.Quantity = &v
	}
	if fs.Changed("note") {
		v, _ := fs.GetString("note")
		p.Note = &v
	}

	var err error
	if p.Entry, err = decimalFlag(fs, "entry"); err != nil {
		return p, err
	}
	if p.Exit, err = decimalFlag(fs, "exit"); err != nil {
		return p, err
	}
	if p.Fees, err = decimalFlag(fs, "fees"); err != nil {
		return p, err
	}
	return p, nil
}

// decimalFlag parses a price flag; unset flags yield nil.
func decimalFlag(fs *pflag.FlagSet, name string) (*decimal.Decimal, error) {
	if !fs.Changed(name) {
		return nil, nil
	}
	raw, _ := fs.GetString(name)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, core.WrapError(core.ErrInvalidRecord, fmt.Errorf("--%s: %q is not a number", name, raw))
	}
	return &d, nil
}

func runTradeDelete(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.app.DeleteTrade(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
	return nil
}

func runTradeList(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.app.ListTrades(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if tradeListJSON {
		trades := make([]app.Trade, 0, len(records))
		for _, rec := range records {
			trades = append(trades, app.NewTrade(rec))
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(trades)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, app.EmptyNotice)
		return nil
	}
	return writeTradeTable(out, records)
}

func writeTradeTable(out io.Writer, records []core.TradeRecord) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "ID\tDate\tSymbol\tQty\tEntry\tExit\tFees\tPnL\t")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t\n",
			r.ID,
			r.Date.Format(core.DateLayout),
			r.Symbol,
			r.Quantity,
			r.EntryPrice.StringFixed(2),
			r.ExitPrice.StringFixed(2),
			r.Fees.StringFixed(2),
			r.PnL().StringFixed(2),
		)
	}
	return w.Flush()
}
