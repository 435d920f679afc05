package service

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/nmdp-bioinformatics/gl-smartsort/internal/application/common"
	"github.com/nmdp-bioinformatics/gl-smartsort/internal/application/common/slogger"
	"github.com/nmdp-bioinformatics/gl-smartsort/internal/application/dto"
	"github.com/nmdp-bioinformatics/gl-smartsort/internal/config"
	"github.com/nmdp-bioinformatics/gl-smartsort/internal/domain/glstring"
	"github.com/nmdp-bioinformatics/gl-smartsort/internal/port/inbound"
	"github.com/nmdp-bioinformatics/gl-smartsort/internal/port/outbound"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const instrumentationName = "github.com/nmdp-bioinformatics/gl-smartsort/batch"

var _ inbound.CanonicalizationService = (*BatchCanonicalizer)(nil)

// BatchCanonicalizer canonicalizes many GL strings, optionally in parallel.
type BatchCanonicalizer struct {
	workers   int
	chunkSize int
	tracer    trace.Tracer

	// Metrics
	linesCounter   metric.Int64Counter
	changedCounter metric.Int64Counter
	chunkDuration  metric.Float64Histogram
}

// NewBatchCanonicalizer creates a batch canonicalizer that reports to the
// global OpenTelemetry providers.
func NewBatchCanonicalizer(cfg config.BatchConfig) *BatchCanonicalizer {
	return NewBatchCanonicalizerWithProviders(cfg, otel.GetMeterProvider(), otel.GetTracerProvider())
}

// NewBatchCanonicalizerWithProviders creates a batch canonicalizer with explicit
// metric and trace providers.
func NewBatchCanonicalizerWithProviders(
	cfg config.BatchConfig,
	meterProvider metric.MeterProvider,
	tracerProvider trace.TracerProvider,
) *BatchCanonicalizer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	chunkSize := cfg.ChunkSize
	if chunkSize < 1 {
		chunkSize = 1
	}

	meter := meterProvider.Meter(instrumentationName)

	linesCounter, _ := meter.Int64Counter(
		"glstring_lines_total",
		metric.WithDescription("Total number of GL strings canonicalized"),
	)

	changedCounter, _ := meter.Int64Counter(
		"glstring_changed_total",
		metric.WithDescription("Number of GL strings whose canonical form differs from the input"),
	)

	chunkDuration, _ := meter.Float64Histogram(
		"glstring_batch_duration_ms",
		metric.WithDescription("Time spent canonicalizing one batch of GL strings"),
		metric.WithUnit("ms"),
	)

	return &BatchCanonicalizer{
		workers:        workers,
		chunkSize:      chunkSize,
		tracer:         tracerProvider.Tracer(instrumentationName),
		linesCounter:   linesCounter,
		changedCounter: changedCounter,
		chunkDuration:  chunkDuration,
	}
}

// NewResult canonicalizes a single GL string.
func NewResult(input string) dto.CanonicalResult {
	canonical := glstring.Canonicalize(input)
	return dto.CanonicalResult{
		Input:     input,
		Canonical: canonical,
		Changed:   canonical != input,
	}
}

// Canonicalize canonicalizes every line independently. Results are in input
// order whatever the number of workers.
func (b *BatchCanonicalizer) Canonicalize(ctx context.Context, lines []string) ([]dto.CanonicalResult, error) {
	ctx, span := b.tracer.Start(ctx, "BatchCanonicalizer.Canonicalize")
	defer span.End()

	span.SetAttributes(
		attribute.Int("lines", len(lines)),
		attribute.Int("workers", b.workers),
	)

	start := time.Now()
	results := make([]dto.CanonicalResult, len(lines))

	var err error
	if b.workers == 1 || len(lines) < 2 {
		err = canonicalizeSequential(ctx, lines, results)
	} else {
		err = b.canonicalizeConcurrent(ctx, lines, results)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "canonicalization interrupted")
		return nil, common.WrapServiceError(common.OpCanonicalizeBatch, err)
	}

	changed := 0
	for i := range results {
		if results[i].Changed {
			changed++
		}
	}

	b.linesCounter.Add(ctx, int64(len(lines)))
	b.changedCounter.Add(ctx, int64(changed))
	b.chunkDuration.Record(ctx, float64(time.Since(start).Microseconds())/1000)
	span.SetAttributes(attribute.Int("changed", changed))

	return results, nil
}

func canonicalizeSequential(ctx context.Context, lines []string, results []dto.CanonicalResult) error {
	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return err
		}
		results[i] = NewResult(line)
	}
	return nil
}

// canonicalizeConcurrent fans lines out over a bounded errgroup. Each
// goroutine owns exactly one slot of results.
func (b *BatchCanonicalizer) canonicalizeConcurrent(
	ctx context.Context,
	lines []string,
	results []dto.CanonicalResult,
) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, line := range lines {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = NewResult(line)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	// A cancellation seen only by the loop guard leaves no goroutine error.
	return ctx.Err()
}

// Stream reads newline-separated GL strings from r and writes one result per
// input line to w. Only the trailing "\n" of each line is removed, blank lines
// yield blank results, and a final line without newline is still processed.
// w is flushed on failure too, so results written before it are kept.
func (b *BatchCanonicalizer) Stream(ctx context.Context, r io.Reader, w outbound.ResultWriter) (dto.StreamStats, error) {
	var stats dto.StreamStats
	start := time.Now()

	reader := bufio.NewReader(r)
	chunk := make([]string, 0, b.chunkSize)

	flush := func() error {
		results, err := b.Canonicalize(ctx, chunk)
		if err != nil {
			return err
		}
		for _, result := range results {
			if err := w.Write(result); err != nil {
				return common.WrapServiceError(common.OpWriteResult, err)
			}
			if result.Changed {
				stats.Changed++
			}
		}
		stats.Lines += len(results)
		stats.Chunks++
		chunk = chunk[:0]
		return nil
	}

	for {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return stats, flushAfterError(w, common.WrapServiceError(common.OpReadInput, readErr))
		}
		if line != "" {
			chunk = append(chunk, strings.TrimSuffix(line, "\n"))
		}

		atEOF := readErr != nil
		if len(chunk) == b.chunkSize || (atEOF && len(chunk) > 0) {
			if err := flush(); err != nil {
				return stats, flushAfterError(w, err)
			}
		}
		if atEOF {
			break
		}
	}

	if err := w.Flush(); err != nil {
		return stats, common.WrapServiceError(common.OpFlushOutput, err)
	}

	stats.Duration = time.Since(start)
	slogger.LogPerformance(ctx, "stream", stats.Duration, slogger.Fields{
		"lines":   stats.Lines,
		"changed": stats.Changed,
		"chunks":  stats.Chunks,
		"workers": b.workers,
	})

	return stats, nil
}

// flushAfterError flushes results written before err so they are not lost,
// and returns err joined with any flush failure.
func flushAfterError(w outbound.ResultWriter, err error) error {
	if flushErr := w.Flush(); flushErr != nil {
		return errors.Join(err, common.WrapServiceError(common.OpFlushOutput, flushErr))
	}
	return err
}
