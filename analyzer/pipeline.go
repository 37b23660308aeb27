package analyzer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gobeaver/magickit"
	"github.com/gobeaver/magickit/entropy"
	"github.com/gobeaver/magickit/scheduler"
	"github.com/gobeaver/magickit/signature"
)

// Matcher classifies an uppercase hex header. signature.Table implements it.
type Matcher interface {
	Match(header string) (signature.Signature, bool)
}

// Pipeline analyzes files read from a FileReader.
type Pipeline struct {
	src     magickit.FileReader
	matcher Matcher
	algo    magickit.ChecksumAlgorithm
	pool    *scheduler.Pool
	ownPool bool
	logger  *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithMatcher replaces the built-in signature table.
func WithMatcher(m Matcher) PipelineOption {
	return func(p *Pipeline) {
		p.matcher = m
	}
}

// WithChecksumAlgorithm sets the fingerprint algorithm (default sha256).
func WithChecksumAlgorithm(algo magickit.ChecksumAlgorithm) PipelineOption {
	return func(p *Pipeline) {
		p.algo = algo
	}
}

// WithPool runs CPU-bound stages on a shared pool. The pipeline does not
// close a pool it did not create.
func WithPool(pool *scheduler.Pool) PipelineOption {
	return func(p *Pipeline) {
		p.pool = pool
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline creates a pipeline reading from src.
func NewPipeline(src magickit.FileReader, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		src:     src,
		matcher: signature.Default(),
		algo:    magickit.DefaultChecksum,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.pool == nil {
		p.pool = scheduler.NewPool(0)
		p.ownPool = true
	}
	return p
}

// Close releases the pipeline's own CPU pool.
func (p *Pipeline) Close() {
	if p.ownPool {
		p.pool.Close()
	}
}

// AnalyzeFile reads job.Path once and classifies it. It never fails: read
// problems produce an Unreadable record and invalid paths an Error record.
func (p *Pipeline) AnalyzeFile(ctx context.Context, job Job) FileRecord {
	start := time.Now()
	rec := newRecord(job)
	defer func() {
		p.logger.Debug("analyzed", "path", rec.Path, "type", rec.Type, "elapsed", time.Since(start))
	}()

	if hasParentRef(job.Path) {
		rec.Type = TypeError
		rec.Category = TypeError
		rec.Description = "Invalid file path"
		rec.AnalysisTime = time.Since(start)
		return rec
	}

	data, err := p.src.ReadAll(ctx, job.Path)
	if err != nil {
		p.logger.Warn("read failed", "path", job.Path, "err", err)
		rec.Type = TypeUnreadable
		rec.Category = TypeUnreadable
		rec.Description = "Could not open file"
		rec.Fingerprint = FingerprintError
		rec.AnalysisTime = time.Since(start)
		return rec
	}
	rec.Size = int64(len(data))

	if len(data) < 2 {
		rec.Corrupt = true
		rec.Type = TypeCorrupt
		rec.Category = TypeCorrupt
		rec.Description = "File too small to identify"
		rec.AnalysisTime = time.Since(start)
		return rec
	}

	if err := p.classify(ctx, data, &rec); err != nil {
		p.logger.Warn("analysis failed", "path", job.Path, "err", err)
		rec.Type = TypeError
		rec.Category = TypeError
		rec.Description = fmt.Sprintf("Analysis failed: %v", err)
		rec.Fingerprint = FingerprintError
	}
	rec.AnalysisTime = time.Since(start)
	return rec
}

// classify runs the matcher, entropy and digest stages concurrently on the
// CPU pool and waits for all three, digest included.
func (p *Pipeline) classify(ctx context.Context, data []byte, rec *FileRecord) error {
	var (
		sig       signature.Signature
		matched   bool
		score     float64
		digest    string
		digestErr error
	)

	rec.Fingerprint = FingerprintPending
	rec.FingerprintAlgorithm = p.algo

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.pool.Do(gctx, func() error {
			sig, matched = p.matcher.Match(signature.HeaderHex(data))
			return nil
		})
	})
	g.Go(func() error {
		return p.pool.Do(gctx, func() error {
			score = entropy.Shannon(entropy.Sample(data))
			return nil
		})
	})
	g.Go(func() error {
		return p.pool.Do(gctx, func() error {
			digest, digestErr = magickit.CalculateChecksum(bytes.NewReader(data), p.algo)
			return nil
		})
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if digestErr != nil {
		p.logger.Warn("fingerprint failed", "path", rec.Path, "err", digestErr)
		rec.Fingerprint = FingerprintError
	} else {
		rec.Fingerprint = digest
	}

	rec.Entropy = score
	rec.EntropyBand = entropy.Classify(score)
	rec.LikelyEncrypted = entropy.LikelyEncrypted(score)

	if matched {
		rec.Type = sig.Type
		rec.Category = sig.Category
		rec.Description = sig.Description
		if len(sig.Extensions) > 0 && rec.ActualExtension != "" && !sig.HasExtension(rec.ActualExtension) {
			rec.ExtensionMismatch = true
			rec.DetectedExtension = sig.Extensions[0]
		}
		return nil
	}

	if fb, ok := signature.Fallback(rec.ActualExtension); ok {
		rec.Type = fb.Type
		rec.Category = fb.Category
		rec.Description = fb.Description
	}
	return nil
}
