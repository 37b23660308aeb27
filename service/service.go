// Package service wires configuration, drivers, the analysis pipeline and the
// organizer into one entry point.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gobeaver/beaver-kit/config"

	"github.com/gobeaver/magickit"
	"github.com/gobeaver/magickit/analyzer"
	"github.com/gobeaver/magickit/collect"
	"github.com/gobeaver/magickit/organizer"
	"github.com/gobeaver/magickit/scheduler"
	"github.com/gobeaver/magickit/signature"

	// Register the built-in drivers.
	_ "github.com/gobeaver/magickit/driver/local"
	_ "github.com/gobeaver/magickit/driver/memory"
)

// Global instance
var (
	defaultService *Service
	defaultOnce    sync.Once
	defaultErr     error
)

// Builder creates services from environment variables with a custom prefix.
type Builder struct {
	prefix string
}

// WithPrefix creates a new Builder with the specified prefix
func WithPrefix(prefix string) *Builder {
	return &Builder{prefix: prefix}
}

// New creates a Service from the environment using the builder's prefix
func (b *Builder) New(opts ...Option) (*Service, error) {
	cfg := &magickit.Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// Init initializes the global service. Without a config it is loaded from
// the environment.
func Init(configs ...*magickit.Config) error {
	defaultOnce.Do(func() {
		var cfg *magickit.Config
		if len(configs) > 0 {
			cfg = configs[0]
		} else {
			cfg, defaultErr = magickit.GetConfig()
			if defaultErr != nil {
				return
			}
		}

		defaultService, defaultErr = New(cfg)
	})

	return defaultErr
}

// Default returns the global service, or nil before a successful Init.
func Default() *Service {
	return defaultService
}

// Service runs analyses and organizes their results.
type Service struct {
	cfg    *magickit.Config
	algo   magickit.ChecksumAlgorithm
	table  signature.Table
	pool   *scheduler.Pool
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger passed to every component.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New validates cfg, loads custom signatures and starts the CPU pool.
func New(cfg *magickit.Config, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	algo, err := magickit.ParseChecksumAlgorithm(cfg.ChecksumAlgorithm)
	if err != nil {
		return nil, err
	}

	s := &Service{
		cfg:    cfg,
		algo:   algo,
		table:  signature.Default(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if cfg.SignaturesFile != "" {
		custom, err := signature.LoadFile(cfg.SignaturesFile)
		if err != nil {
			return nil, fmt.Errorf("load signatures: %w", err)
		}
		s.table = s.table.Append(custom...)
		s.logger.Info("custom signatures loaded", "file", cfg.SignaturesFile, "count", len(custom))
	}

	s.pool = scheduler.NewPool(cfg.Workers)
	return s, nil
}

// Config returns the service configuration.
func (s *Service) Config() *magickit.Config {
	return s.cfg
}

// Signatures returns the active signature table.
func (s *Service) Signatures() signature.Table {
	return s.table
}

// Close stops the CPU pool.
func (s *Service) Close() {
	s.pool.Close()
}

// Run is one analysis of a target.
type Run struct {
	// Root is the absolute directory the source driver is rooted at.
	Root string
	// Source reads the analyzed files; record paths are relative to Root.
	Source *magickit.ReadOnlyFileSystem
	Report *analyzer.Report
}

// Target resolves a file or directory path into a driver root and the path
// to collect under it.
func Target(target string) (root, rel string, err error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", "", &magickit.PathError{Op: "stat", Path: target, Err: magickit.ErrNotExist}
	}
	if info.IsDir() {
		return abs, "", nil
	}
	return filepath.Dir(abs), filepath.Base(abs), nil
}

// OutputRoot returns where organized files go for a source root. Relative
// output directories are placed under the source root.
func (s *Service) OutputRoot(root string) string {
	if filepath.IsAbs(s.cfg.OutputDir) {
		return s.cfg.OutputDir
	}
	return filepath.Join(root, s.cfg.OutputDir)
}

// CollectOptions returns the collector options for a source root. The output
// directory is excluded when it lies inside the root.
func (s *Service) CollectOptions(root string) collect.Options {
	opts := collect.Options{
		Recursive: s.cfg.Recursive,
		Include:   s.cfg.IncludePatterns(),
		Exclude:   s.cfg.ExcludePatterns(),
	}
	if rel, err := filepath.Rel(root, s.OutputRoot(root)); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
		opts.Exclude = append(opts.Exclude, filepath.ToSlash(rel))
	}
	return opts
}

// Analyze collects and analyzes target. onProgress may be nil.
func (s *Service) Analyze(ctx context.Context, target string, onProgress func(scheduler.Stats)) (*Run, error) {
	root, rel, err := Target(target)
	if err != nil {
		return nil, err
	}

	fs, err := magickit.CreateDriver("local", root)
	if err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}
	src := magickit.NewReadOnlyFileSystem(fs, magickit.WithWriteAttemptHandler(func(op, path string) {
		s.logger.Error("write to analysis source rejected", "op", op, "path", path)
	}))

	jobs, err := collect.Collect(ctx, src, rel, s.CollectOptions(root))
	if err != nil {
		return nil, err
	}

	report, err := s.AnalyzeJobs(ctx, src, jobs, onProgress)
	if err != nil {
		return nil, err
	}
	return &Run{Root: root, Source: src, Report: report}, nil
}

// AnalyzeJobs analyzes jobs read from src with the service settings.
func (s *Service) AnalyzeJobs(ctx context.Context, src magickit.FileReader, jobs []analyzer.Job, onProgress func(scheduler.Stats)) (*analyzer.Report, error) {
	p := analyzer.NewPipeline(src,
		analyzer.WithMatcher(s.table),
		analyzer.WithChecksumAlgorithm(s.algo),
		analyzer.WithPool(s.pool),
		analyzer.WithLogger(s.logger),
	)
	defer p.Close()

	return p.Analyze(ctx, jobs, analyzer.AnalyzeOptions{
		Concurrency: s.cfg.Concurrency,
		Sequential:  s.cfg.Sequential,
		OnProgress:  onProgress,
	})
}

// Organize copies the identified files of run into the output directory.
// With the memory output driver nothing touches the disk.
func (s *Service) Organize(ctx context.Context, run *Run, onProgress func(scheduler.Stats)) (*organizer.Result, error) {
	out := s.OutputRoot(run.Root)
	dst, err := magickit.CreateDriver(s.cfg.OutputDriver, out)
	if err != nil {
		return nil, fmt.Errorf("failed to create output driver: %w", err)
	}

	s.logger.Info("organizing", "output", out, "driver", s.cfg.OutputDriver)

	o := organizer.New(run.Source, dst,
		organizer.WithLimit(s.cfg.WriteConcurrency),
		organizer.WithLogger(s.logger),
		organizer.WithProgress(onProgress),
	)
	return o.Organize(ctx, run.Report.Records)
}

// Watch analyzes target, then re-analyzes it after every change under it
// until ctx ends. fn receives each run.
func (s *Service) Watch(ctx context.Context, target string, fn func(*Run) error) error {
	run, err := s.Analyze(ctx, target, nil)
	if err != nil {
		return err
	}
	if err := fn(run); err != nil {
		return err
	}

	pattern := "*"
	if s.cfg.Recursive {
		pattern = "**"
	}

	return collect.Watch(ctx, run.Source, pattern, func(ctx context.Context) error {
		run, err := s.Analyze(ctx, target, nil)
		if err != nil {
			s.logger.Warn("re-analysis failed", "target", target, "err", err)
			return nil
		}
		return fn(run)
	})
}
