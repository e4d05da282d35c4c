// Package report drives the omv-report subcommands: it loads the snapshot,
// runs the analysis and writes charts or a text summary.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/banshee-data/omv.report/internal/config"
	"github.com/banshee-data/omv.report/internal/fsutil"
	"github.com/banshee-data/omv.report/internal/monitoring"
	"github.com/banshee-data/omv.report/internal/render"
	"github.com/banshee-data/omv.report/internal/snapshot"
	"github.com/banshee-data/omv.report/internal/timeutil"
	"github.com/banshee-data/omv.report/internal/voter"
	"github.com/google/uuid"
)

// ErrSnapshotExists is returned by Import when the target file already exists.
var ErrSnapshotExists = errors.New("snapshot already exists")

// ReportCLI provides the operations behind each omv-report subcommand.
type ReportCLI struct {
	Config *config.AnalysisConfig
	FS     fsutil.FileSystem
	Output io.Writer // where to write output (os.Stdout by default)
	RunID  string
	Clock  timeutil.Clock
}

// NewReportCLI creates a ReportCLI with a fresh run ID. A nil fs writes
// charts to disk.
func NewReportCLI(cfg *config.AnalysisConfig, fsys fsutil.FileSystem, output io.Writer) *ReportCLI {
	if cfg == nil {
		cfg = config.EmptyAnalysisConfig()
	}
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	return &ReportCLI{
		Config: cfg,
		FS:     fsys,
		Output: output,
		RunID:  uuid.NewString(),
		Clock:  timeutil.RealClock{},
	}
}

func (c *ReportCLI) logf(format string, v ...interface{}) {
	monitoring.RunLogf(c.RunID)(format, v...)
}

// analyse loads the snapshot and runs the pipeline up to the county summaries.
func (c *ReportCLI) analyse(ctx context.Context) (*voter.Result, error) {
	path := c.Config.GetSnapshotPath()
	c.logf("loading snapshot %s", path)

	db, err := snapshot.Open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	tables, err := db.Load(ctx, snapshot.LoadOptions{
		RegistrationTable: c.Config.GetRegistrationTable(),
		MotorVoterTable:   c.Config.GetMotorVoterTable(),
	})
	if err != nil {
		return nil, err
	}
	c.logf("loaded %d registrations, %d motor voter rows", tables.Registrations.Len(), tables.MotorVoter.Len())

	return voter.Analyze(tables.Registrations, tables.MotorVoter, voter.Options{
		Filter: voter.FilterOptions{
			ActiveStatus: c.Config.GetActiveStatus(),
			BirthFloor:   c.Config.GetBirthDateFloor(),
		},
		StrictPartyCodes: c.Config.GetStrictPartyCodes(),
		Logf:             c.logf,
	})
}

// Run analyses the snapshot and renders both charts. It returns the paths
// written. Nothing is written if loading or analysis fails.
func (c *ReportCLI) Run(ctx context.Context) ([]string, error) {
	start := c.Clock.Now()
	res, err := c.analyse(ctx)
	if err != nil {
		return nil, err
	}

	r := render.NewRenderer(c.FS, render.Options{
		OutputDir:  c.Config.GetOutputDir(),
		Formats:    c.Config.GetFormats(),
		Width:      c.Config.GetChartWidthInches(),
		Height:     c.Config.GetChartHeightInches(),
		AssetsHost: c.Config.GetEchartsAssetsHost(),
		Subtitle:   c.subtitle(res.Filter.Kept, len(res.Counties), start),
	})
	paths, err := r.Render(res.Counties, res.Categories)
	if err != nil {
		return nil, fmt.Errorf("failed to render charts: %w", err)
	}

	for _, p := range paths {
		fmt.Fprintf(c.Output, "Wrote %s\n", p)
	}
	c.logf("run complete, %d files written in %s", len(paths), c.Clock.Since(start))
	return paths, nil
}

// subtitle is the line shared by every chart, PNG and HTML alike.
func (c *ReportCLI) subtitle(kept, counties int, at time.Time) string {
	return fmt.Sprintf("%d active registrations, %d counties, %s", kept, counties, at.Format("2006-01-02"))
}

// Summary analyses the snapshot and prints the per-county table.
func (c *ReportCLI) Summary(ctx context.Context) (*voter.Result, error) {
	res, err := c.analyse(ctx)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(c.Output, "Motor Voter Summary\n")
	fmt.Fprintf(c.Output, "===================\n")
	fmt.Fprintf(c.Output, "Records joined: %d\n", res.Joined)
	fmt.Fprintf(c.Output, "Duplicate voter ids dropped: %d registrations, %d motor voter\n",
		res.RegistrationDuplicates, res.MotorVoterDuplicates)
	fmt.Fprintf(c.Output, "Filtered out: %d confidential, %d inactive, %d birth date\n",
		res.Filter.Confidential, res.Filter.Inactive, res.Filter.BirthFloor)
	fmt.Fprintf(c.Output, "Active records: %d\n\n", res.Filter.Kept)

	header := []string{fmt.Sprintf("%-20s %8s %8s %7s", "County", "Total", "Motor", "Share")}
	for _, cat := range res.Categories {
		header = append(header, fmt.Sprintf("%14s", cat))
	}
	fmt.Fprintln(c.Output, strings.Join(header, " "))

	for _, cs := range res.Counties {
		name := cs.County
		if name == "" {
			name = "(unknown)"
		}
		cols := []string{fmt.Sprintf("%-20s %8d %8d %6.1f%%", name, cs.Total, cs.MotorVoterCount, 100*cs.Proportion)}
		for _, cat := range res.Categories {
			cols = append(cols, fmt.Sprintf("%13.1f%%", 100*cs.ByCategory[cat]))
		}
		fmt.Fprintln(c.Output, strings.Join(cols, " "))
	}

	if len(res.Unmapped) > 0 {
		fmt.Fprintf(c.Output, "\nParty codes without a display category: %s\n", strings.Join(res.Unmapped, ", "))
	}
	return res, nil
}

// ImportCounts reports the rows written by Import.
type ImportCounts struct {
	Registrations int
	MotorVoter    int
}

// Import builds a new snapshot from two CSV exports. It refuses to touch an
// existing file and removes the partial snapshot if any step fails.
func (c *ReportCLI) Import(ctx context.Context, registrationsCSV, motorVoterCSV string) (counts ImportCounts, err error) {
	path := c.Config.GetSnapshotPath()
	if _, statErr := os.Stat(path); statErr == nil {
		return counts, fmt.Errorf("%w: %s", ErrSnapshotExists, path)
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return counts, statErr
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return counts, err
	}
	db, err := snapshot.Create(path)
	if err != nil {
		return counts, fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer func() {
		db.Close()
		if err != nil {
			os.Remove(path)
		}
	}()

	regTable, omvTable := c.Config.GetRegistrationTable(), c.Config.GetMotorVoterTable()
	if err = db.CreateTableLike(ctx, regTable, snapshot.DefaultRegistrationTable); err != nil {
		return counts, err
	}
	if err = db.CreateTableLike(ctx, omvTable, snapshot.DefaultMotorVoterTable); err != nil {
		return counts, err
	}

	counts.Registrations, err = importFile(ctx, db, regTable, registrationsCSV, voter.RegistrationColumns)
	if err != nil {
		return counts, err
	}
	counts.MotorVoter, err = importFile(ctx, db, omvTable, motorVoterCSV, voter.MotorVoterColumns)
	if err != nil {
		return counts, err
	}

	fmt.Fprintf(c.Output, "Imported %d registrations and %d motor voter rows into %s\n",
		counts.Registrations, counts.MotorVoter, path)
	return counts, nil
}

func importFile(ctx context.Context, db *snapshot.DB, table, path string, required []string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	n, err := db.ImportCSV(ctx, table, f, required...)
	if err != nil {
		return 0, fmt.Errorf("failed to import %s: %w", path, err)
	}
	return n, nil
}

// PrintUsage prints the omv-report usage.
func (c *ReportCLI) PrintUsage() {
	fmt.Fprintln(c.Output, "Usage: omv-report <command> [options]")
	fmt.Fprintln(c.Output, "")
	fmt.Fprintln(c.Output, "Commands:")
	fmt.Fprintln(c.Output, "  run                          Analyse the snapshot and render the charts (default)")
	fmt.Fprintln(c.Output, "  summary                      Print the per-county motor voter table")
	fmt.Fprintln(c.Output, "  import                       Build a snapshot from registration and motor voter CSV exports")
	fmt.Fprintln(c.Output, "  version                      Show omv-report version")
	fmt.Fprintln(c.Output, "  help                         Show this help message")
	fmt.Fprintln(c.Output, "")
	fmt.Fprintln(c.Output, "Environment:")
	fmt.Fprintln(c.Output, "  OMV_REPORT_SNAPSHOT_PATH, OMV_REPORT_OUTPUT_DIR, OMV_REPORT_FORMATS,")
	fmt.Fprintln(c.Output, "  OMV_REPORT_STRICT_PARTY_CODES override the config file; flags override both.")
	fmt.Fprintln(c.Output, "")
}
