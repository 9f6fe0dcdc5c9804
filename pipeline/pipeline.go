// Package pipeline orchestrates the per-page work of a run: rasterize each
// laid-out page, push it through the degradation stages, and store the
// result. Pages are independent, so the runner fans them out over a bounded
// worker pool; for a fixed seed the output is identical regardless of worker
// count.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wudi/photocopy/book"
	"github.com/wudi/photocopy/effect"
	"github.com/wudi/photocopy/observability"
	"github.com/wudi/photocopy/ocr"
	"github.com/wudi/photocopy/render"
	"github.com/wudi/photocopy/scripting"
)

// Hook supplies per-page configuration overrides. *scripting.ConfigHook
// satisfies it.
type Hook interface {
	For(ctx context.Context, pageNumber int) (scripting.Overrides, error)
}

// Runner drives a document through rasterization, degradation, and storage.
// Zero-value fields take sensible defaults in Run.
type Runner struct {
	Rasterizer render.Rasterizer
	Replacer   render.Replacer

	// Config is the base degradation configuration; Hook may override parts
	// of it per page.
	Config effect.Config
	Hook   Hook

	// Seed fixes the document seed for reproducible runs. Zero means a
	// random seed.
	Seed int64

	// Scale is the rasterization upscale factor. Zero means
	// render.DefaultScale.
	Scale float64

	// Workers bounds the number of pages processed concurrently. Zero means
	// GOMAXPROCS.
	Workers int

	// OCR, when set, recognizes each degraded page and scores it against the
	// text that was laid out on it.
	OCR ocr.Engine

	Logger observability.Logger
	Tracer observability.Tracer
}

// Stats summarizes a completed run.
type Stats struct {
	Pages   int
	Skipped int
	Elapsed time.Duration

	// Verified is the number of pages scored by OCR; MeanLegibility is the
	// average fraction of laid-out words that survived degradation.
	Verified       int
	MeanLegibility float64
}

// Run processes every page of the document. On the first error the remaining
// pages are abandoned and the error, naming the page it came from, is
// returned.
func (r *Runner) Run(ctx context.Context, doc *book.Document) (Stats, error) {
	if doc == nil || len(doc.Pages) == 0 {
		return Stats{}, fmt.Errorf("pipeline: document has no pages")
	}
	if r.Rasterizer == nil || r.Replacer == nil {
		return Stats{}, fmt.Errorf("pipeline: rasterizer and replacer are required")
	}
	log := r.Logger
	if log == nil {
		log = observability.NopLogger{}
	}
	tracer := r.Tracer
	if tracer == nil {
		tracer = observability.NopTracer()
	}
	scale := r.Scale
	if scale <= 0 {
		scale = render.DefaultScale
	}
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	effectOpts := []effect.Option{
		effect.WithLogger(log),
		effect.WithTracer(tracer),
	}
	if r.Seed != 0 {
		effectOpts = append(effectOpts, effect.WithSeed(r.Seed))
	}
	base, err := effect.New(r.Config, effectOpts...)
	if err != nil {
		return Stats{}, fmt.Errorf("pipeline: %w", err)
	}

	start := time.Now()
	log.Info("processing document",
		observability.Int(observability.MetricPageCount, len(doc.Pages)),
		observability.Int("workers", workers))

	var (
		mu    sync.Mutex
		stats Stats
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, page := range doc.Pages {
		page := page
		g.Go(func() error {
			skipped, legibility, verified, err := r.processPage(ctx, base, page, scale, log, tracer)
			if err != nil {
				return err
			}
			mu.Lock()
			stats.Pages++
			if skipped {
				stats.Skipped++
			}
			if verified {
				stats.Verified++
				stats.MeanLegibility += legibility
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	if stats.Verified > 0 {
		stats.MeanLegibility /= float64(stats.Verified)
	}
	stats.Elapsed = time.Since(start)
	log.Info("document done",
		observability.Int("pages", stats.Pages),
		observability.Int("skipped", stats.Skipped),
		observability.Int64("elapsed_ms", stats.Elapsed.Milliseconds()))
	return stats, nil
}

func (r *Runner) processPage(ctx context.Context, base *effect.Pipeline, page *book.Page, scale float64, log observability.Logger, tracer observability.Tracer) (skipped bool, legibility float64, verified bool, err error) {
	pipe := base
	if r.Hook != nil {
		overrides, err := r.Hook.For(ctx, page.Number)
		if err != nil {
			return false, 0, false, fmt.Errorf("page %d: %w", page.Number, err)
		}
		cfg := applyOverrides(base.Config(), overrides)
		opts := []effect.Option{effect.WithLogger(log), effect.WithTracer(tracer)}
		if r.Seed != 0 {
			opts = append(opts, effect.WithSeed(r.Seed))
		}
		pipe, err = effect.New(cfg, opts...)
		if err != nil {
			return false, 0, false, fmt.Errorf("page %d: %w", page.Number, err)
		}
	}

	renderCtx, span := tracer.StartSpan(ctx, observability.MetricRenderTime)
	img, err := r.Rasterizer.Render(renderCtx, page, scale)
	span.Finish()
	if err != nil {
		return false, 0, false, fmt.Errorf("page %d: render: %w", page.Number, err)
	}

	degraded, err := pipe.Degrade(ctx, img, page.Number)
	if err != nil {
		return false, 0, false, err
	}

	_, span = tracer.StartSpan(ctx, observability.MetricEncodeTime)
	data, err := degraded.PNGBytes()
	span.Finish()
	if err != nil {
		return false, 0, false, fmt.Errorf("page %d: encode: %w", page.Number, err)
	}
	if err := r.Replacer.ReplacePageImage(ctx, page.Number, data); err != nil {
		return false, 0, false, fmt.Errorf("page %d: %w", page.Number, err)
	}

	if r.OCR != nil {
		in, err := ocr.InputFromPage(page, degraded)
		if err != nil {
			return false, 0, false, err
		}
		res, err := r.OCR.Recognize(ctx, in)
		if err != nil {
			return false, 0, false, fmt.Errorf("page %d: ocr: %w", page.Number, err)
		}
		legibility = ocr.LegibilityRatio(ocr.PageText(page), res.PlainText)
		verified = true
		log.Debug("page legibility",
			observability.Int("page", page.Number),
			observability.Float64(observability.MetricLegibility, legibility))
	}
	return pipe.Config().Skip, legibility, verified, nil
}

// applyOverrides merges non-nil override fields onto the base configuration.
func applyOverrides(cfg effect.Config, o scripting.Overrides) effect.Config {
	if o.SmudgeProbability != nil {
		cfg.SmudgeProbability = *o.SmudgeProbability
	}
	if o.ScanlineProbability != nil {
		cfg.ScanlineProbability = *o.ScanlineProbability
	}
	if o.CurlVertical != nil {
		cfg.CurlVertical = *o.CurlVertical
	}
	if o.CurlHorizontal != nil {
		cfg.CurlHorizontal = *o.CurlHorizontal
	}
	if o.NoiseSigma != nil {
		cfg.NoiseSigma = *o.NoiseSigma
	}
	if o.MaxRotationDeg != nil {
		cfg.MaxRotationDeg = *o.MaxRotationDeg
	}
	if o.Skip != nil {
		cfg.Skip = *o.Skip
	}
	return cfg
}
