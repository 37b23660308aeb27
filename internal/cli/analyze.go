package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gobeaver/magickit"
	"github.com/gobeaver/magickit/analyzer"
	"github.com/gobeaver/magickit/scheduler"
	"github.com/gobeaver/magickit/service"
)

type analyzeFlags struct {
	jsonPath     string
	recursive    bool
	sequential   bool
	organize     bool
	watch        bool
	verbose      bool
	noProgress   bool
	concurrency  int
	workers      int
	signatures   string
	output       string
	outputDriver string
	checksum     string
	include      []string
	exclude      []string
}

// NewAnalyzeCmd creates the analyze subcommand.
func NewAnalyzeCmd() *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze [PATH]",
		Short: "Analyze a file or directory",
		Long: `Analyze identifies every file under PATH (default: current directory).

For each file the report shows the detected type, whether the extension
matches the content, the Shannon entropy of the first 64 KiB and a content
fingerprint. With --organize identified files are copied into
<output>/<Type>/ without touching the originals.`,
		Example: `  magickit analyze ~/Downloads -r
  magickit analyze ./dump --organize --output sorted
  magickit analyze ./data -r --include '*.bin' --json report.json
  magickit analyze . -r --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) > 0 {
				target = args[0]
			}

			cfg, err := magickit.GetConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			flags.apply(cmd, cfg)

			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), target, cfg, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.jsonPath, "json", "", "Write the JSON report to `FILE` (- for stdout)")
	f.BoolVarP(&flags.recursive, "recursive", "r", false, "Descend into subdirectories")
	f.BoolVarP(&flags.sequential, "sequential", "s", false, "Analyze one file at a time")
	f.BoolVarP(&flags.organize, "organize", "o", false, "Copy identified files into per-type folders")
	f.BoolVarP(&flags.watch, "watch", "w", false, "Re-analyze whenever files change")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	f.BoolVar(&flags.noProgress, "no-progress", false, "Hide the progress bar")
	f.IntVarP(&flags.concurrency, "concurrency", "c", 0, "Files in flight (0 tunes from file sizes)")
	f.IntVar(&flags.workers, "workers", 0, "CPU workers (0 uses all cores)")
	f.StringVar(&flags.signatures, "signatures", "", "Load extra signatures from a JSON `FILE`")
	f.StringVar(&flags.output, "output", "", "Organize into `DIR` (relative paths are placed under the analyzed directory)")
	f.StringVar(&flags.outputDriver, "output-driver", "", "Organize destination driver (local, memory)")
	f.StringVar(&flags.checksum, "checksum", "", "Fingerprint algorithm (md5, sha1, sha256, sha512, crc32, xxhash)")
	f.StringSliceVar(&flags.include, "include", nil, "Only analyze files matching these globs")
	f.StringSliceVar(&flags.exclude, "exclude", nil, "Skip files and directories matching these globs")

	return cmd
}

// apply overrides cfg with the flags set on the command line.
func (fl analyzeFlags) apply(cmd *cobra.Command, cfg *magickit.Config) {
	changed := cmd.Flags().Changed

	if changed("recursive") {
		cfg.Recursive = fl.recursive
	}
	if changed("sequential") {
		cfg.Sequential = fl.sequential
	}
	if changed("organize") {
		cfg.Organize = fl.organize
	}
	if changed("concurrency") {
		cfg.Concurrency = fl.concurrency
	}
	if changed("workers") {
		cfg.Workers = fl.workers
	}
	if changed("signatures") {
		cfg.SignaturesFile = fl.signatures
	}
	if changed("output") {
		cfg.OutputDir = fl.output
	}
	if changed("output-driver") {
		cfg.OutputDriver = fl.outputDriver
	}
	if changed("checksum") {
		cfg.ChecksumAlgorithm = fl.checksum
	}
	if changed("include") {
		cfg.Include = strings.Join(fl.include, ",")
	}
	if changed("exclude") {
		cfg.Exclude = strings.Join(fl.exclude, ",")
	}
	if fl.verbose {
		cfg.LogLevel = "debug"
	}
}

func runAnalyze(ctx context.Context, stdout, stderr io.Writer, target string, cfg *magickit.Config, flags analyzeFlags) error {
	if flags.watch && cfg.Organize {
		return errors.New("--watch cannot be combined with --organize")
	}

	logger := newLogger(stderr, cfg.Level())

	svc, err := service.New(cfg, service.WithLogger(logger))
	if err != nil {
		return err
	}
	defer svc.Close()

	showProgress := !flags.noProgress && flags.jsonPath != "-"

	if flags.watch {
		logger.Info("watching for changes", "target", target)
		err := svc.Watch(ctx, target, func(run *service.Run) error {
			if flags.jsonPath != "-" {
				printReport(stdout, run.Report)
			}
			return writeJSON(stdout, flags.jsonPath, run.Report)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	var bar *progressBar
	onProgress := func(scheduler.Stats) {}
	if showProgress {
		bar = newProgressBar(stderr, "Analyzing")
		onProgress = bar.Update
	}

	run, err := svc.Analyze(ctx, target, onProgress)
	bar.Finish()
	if err != nil {
		return err
	}

	if flags.jsonPath != "-" {
		printReport(stdout, run.Report)
	}
	if err := writeJSON(stdout, flags.jsonPath, run.Report); err != nil {
		return err
	}

	if !cfg.Organize {
		return nil
	}

	if showProgress {
		bar = newProgressBar(stderr, "Organizing")
		onProgress = bar.Update
	}
	res, err := svc.Organize(ctx, run, onProgress)
	bar.Finish()
	if err != nil {
		return err
	}
	if flags.jsonPath != "-" {
		printOrganize(stdout, svc.OutputRoot(run.Root), res)
	}
	return nil
}

func writeJSON(stdout io.Writer, path string, report *analyzer.Report) error {
	switch path {
	case "":
		return nil
	case "-":
		return report.WriteJSON(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := report.WriteJSON(f); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}
