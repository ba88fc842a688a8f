// internal/storage/archive/snapshot.go
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/newthinker/pms/internal/analytics"
	"github.com/newthinker/pms/internal/benchmark"
	"github.com/newthinker/pms/internal/core"
	"github.com/newthinker/pms/internal/ledger"
	"go.uber.org/zap"
)

const (
	snapshotRoot   = "snapshots"
	snapshotLayout = "20060102T150405Z"
	reportFile     = "report.json"
	ledgerFile     = "ledger.csv"
)

// Snapshot is a point-in-time copy of the ledger and its report.
type Snapshot struct {
	TakenAt   time.Time          `json:"taken_at"`
	Report    analytics.Report   `json:"report"`
	Benchmark *benchmark.Result  `json:"benchmark,omitempty"`
	Trades    []core.TradeRecord `json:"-"`
}

// Archiver persists snapshots to a Storage backend.
type Archiver struct {
	storage Storage
	logger  *zap.Logger
}

// NewArchiver creates an archiver over storage.
func NewArchiver(storage Storage, logger *zap.Logger) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{storage: storage, logger: logger}
}

// Save writes the report and ledger of snap and returns the snapshot id.
func (a *Archiver) Save(ctx context.Context, snap Snapshot) (string, error) {
	if snap.TakenAt.IsZero() {
		snap.TakenAt = time.Now()
	}
	id := snap.TakenAt.UTC().Format(snapshotLayout)

	// ids have one-second resolution; never replace a complete snapshot
	exists, err := a.storage.Exists(ctx, snapshotPath(id, reportFile))
	if err != nil {
		return "", err
	}
	if exists {
		return "", core.WrapError(core.ErrArchiveFailed, fmt.Errorf("snapshot %s already exists", id))
	}

	report, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, err)
	}

	var buf bytes.Buffer
	if err := ledger.WriteCSV(&buf, snap.Trades); err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, err)
	}

	// ledger first: a snapshot is listed only once its report exists
	if err := a.storage.Write(ctx, snapshotPath(id, ledgerFile), buf.Bytes()); err != nil {
		return "", err
	}
	if err := a.storage.Write(ctx, snapshotPath(id, reportFile), report); err != nil {
		return "", err
	}

	a.logger.Info("snapshot saved",
		zap.String("id", id),
		zap.Int("trades", len(snap.Trades)),
	)
	return id, nil
}

// List returns the ids of all complete snapshots, oldest first.
func (a *Archiver) List(ctx context.Context) ([]string, error) {
	paths, err := a.storage.List(ctx, snapshotRoot)
	if err != nil {
		return nil, err
	}

	ids := []string{}
	for _, p := range paths {
		dir, file := path.Split(p)
		if file != reportFile {
			continue
		}
		ids = append(ids, path.Base(strings.TrimSuffix(dir, "/")))
	}
	sort.Strings(ids)
	return ids, nil
}

// Load reads a snapshot back, including its trades.
func (a *Archiver) Load(ctx context.Context, id string) (*Snapshot, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	data, err := a.storage.Read(ctx, snapshotPath(id, reportFile))
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, fmt.Errorf("decoding snapshot %s: %w", id, err))
	}
	trades, err := a.LoadTrades(ctx, id)
	if err != nil {
		return nil, err
	}
	snap.Trades = trades
	return &snap, nil
}

// LoadTrades reads only the ledger of a snapshot.
func (a *Archiver) LoadTrades(ctx context.Context, id string) ([]core.TradeRecord, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	data, err := a.storage.Read(ctx, snapshotPath(id, ledgerFile))
	if err != nil {
		return nil, err
	}
	return ledger.ReadCSV(bytes.NewReader(data))
}

func snapshotPath(id, file string) string {
	return path.Join(snapshotRoot, id, file)
}

func checkID(id string) error {
	if _, err := time.Parse(snapshotLayout, id); err != nil {
		return core.WrapError(core.ErrBadRequest, fmt.Errorf("invalid snapshot id %q", id))
	}
	return nil
}
