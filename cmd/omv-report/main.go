package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/banshee-data/omv.report/internal/config"
	"github.com/banshee-data/omv.report/internal/report"
	"github.com/banshee-data/omv.report/internal/version"
)

func main() {
	command, args := splitCommand(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch command {
	case "run":
		handleRun(ctx, args)
	case "summary":
		handleSummary(ctx, args)
	case "import":
		handleImport(ctx, args)
	case "version":
		fmt.Println(version.String("omv-report"))
	case "help":
		report.NewReportCLI(nil, nil, os.Stdout).PrintUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		report.NewReportCLI(nil, nil, os.Stderr).PrintUsage()
		os.Exit(1)
	}
}

// splitCommand returns the subcommand and its arguments. With no subcommand,
// or when the first argument is a flag, the command is run.
func splitCommand(args []string) (string, []string) {
	if len(args) > 0 {
		switch args[0] {
		case "-version", "--version":
			return "version", args[1:]
		case "-h", "-help", "--help":
			return "help", args[1:]
		}
	}
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "run", args
	}
	return args[0], args[1:]
}

// commonFlags are accepted by every analysis subcommand.
type commonFlags struct {
	configPath *string
	snapshot   *string
	outputDir  *string
	formats    *string
	strict     *bool
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	return &commonFlags{
		configPath: fs.String("config", "", "Path to a JSON config file (default "+config.DefaultConfigPath+" if present)"),
		snapshot:   fs.String("snapshot", "", "Path to the SQLite voter snapshot"),
		outputDir:  fs.String("out", "", "Directory for chart output"),
		formats:    fs.String("format", "", "Comma-separated output formats: png, html"),
		strict:     fs.Bool("strict", false, "Fail on party codes with no display category"),
	}
}

// resolveConfig layers the config file, OMV_REPORT_* environment variables
// and explicitly set flags, in that order of precedence from lowest.
func resolveConfig(fs *flag.FlagSet, f *commonFlags) (*config.AnalysisConfig, error) {
	var cfg *config.AnalysisConfig
	switch {
	case *f.configPath != "":
		c, err := config.LoadAnalysisConfig(*f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		if _, err := os.Stat(config.DefaultConfigPath); err == nil {
			c, err := config.LoadAnalysisConfig(config.DefaultConfigPath)
			if err != nil {
				return nil, err
			}
			cfg = c
		} else {
			cfg = config.EmptyAnalysisConfig()
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "snapshot":
			cfg.SnapshotPath = f.snapshot
		case "out":
			cfg.OutputDir = f.outputDir
		case "format":
			cfg.Formats = strings.Split(*f.formats, ",")
		case "strict":
			cfg.StrictPartyCodes = f.strict
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func parseCommon(name string, args []string) *config.AnalysisConfig {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	f := addCommonFlags(fs)
	fs.Parse(args)

	cfg, err := resolveConfig(fs, f)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return cfg
}

func handleRun(ctx context.Context, args []string) {
	cfg := parseCommon("run", args)
	cli := report.NewReportCLI(cfg, nil, os.Stdout)
	if _, err := cli.Run(ctx); err != nil {
		log.Fatalf("Run %s failed: %v", cli.RunID, err)
	}
}

func handleSummary(ctx context.Context, args []string) {
	cfg := parseCommon("summary", args)
	cli := report.NewReportCLI(cfg, nil, os.Stdout)
	if _, err := cli.Summary(ctx); err != nil {
		log.Fatalf("Summary failed: %v", err)
	}
}

func handleImport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	f := addCommonFlags(fs)
	regCSV := fs.String("registrations", "", "Registration CSV export (required)")
	omvCSV := fs.String("motor-voter", "", "Motor voter CSV export (required)")
	fs.Parse(args)

	if *regCSV == "" || *omvCSV == "" {
		fmt.Fprintln(os.Stderr, "Error: --registrations and --motor-voter are both required")
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := resolveConfig(fs, f)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cli := report.NewReportCLI(cfg, nil, os.Stdout)
	if _, err := cli.Import(ctx, *regCSV, *omvCSV); err != nil {
		log.Fatalf("Import failed: %v", err)
	}
}
