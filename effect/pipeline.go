package effect

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/wudi/photocopy/bitmap"
	"github.com/wudi/photocopy/observability"
)

// Pipeline runs the degradation stages over single pages. It is stateless
// apart from its configuration; pages may be processed concurrently as long
// as each call receives its own RNG stream.
type Pipeline struct {
	cfg    Config
	seed   int64
	log    observability.Logger
	tracer observability.Tracer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the stage logger. The default discards everything.
func WithLogger(l observability.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithTracer sets the tracer used to time stages.
func WithTracer(t observability.Tracer) Option {
	return func(p *Pipeline) { p.tracer = t }
}

// WithSeed fixes the document seed. Each page derives its own stream from
// this seed and its page number, so parallel output matches sequential
// output. Without a seed, runs are not reproducible.
func WithSeed(seed int64) Option {
	return func(p *Pipeline) { p.seed = seed }
}

// New creates a Pipeline for the given configuration.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("effect config: %w", err)
	}
	p := &Pipeline{
		cfg:    cfg,
		seed:   rand.Int63(),
		log:    observability.NopLogger{},
		tracer: observability.NopTracer(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Config returns the pipeline's configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// pageSeed derives an independent per-page stream from the document seed.
// SplitMix64's golden-ratio increment spreads consecutive page numbers far
// apart in seed space.
func pageSeed(seed int64, pageNumber int) int64 {
	return seed ^ (int64(pageNumber) * -0x61c8864680b583eb)
}

// Degrade runs the full stage sequence over one page using the page's
// derived RNG stream. pageNumber is 1-based; odd pages bind left.
func (p *Pipeline) Degrade(ctx context.Context, img *bitmap.PageImage, pageNumber int) (*bitmap.PageImage, error) {
	rng := rand.New(rand.NewSource(pageSeed(p.seed, pageNumber)))
	return p.DegradeWithRand(ctx, img, pageNumber, rng)
}

// DegradeWithRand is Degrade with an explicit RNG stream, for callers that
// need deterministic stage draws.
func (p *Pipeline) DegradeWithRand(ctx context.Context, img *bitmap.PageImage, pageNumber int, rng *rand.Rand) (*bitmap.PageImage, error) {
	if img == nil || img.Width() <= 0 || img.Height() <= 0 {
		return nil, fmt.Errorf("page %d: zero-area input image", pageNumber)
	}
	if pageNumber < 1 {
		return nil, fmt.Errorf("page number %d is not positive", pageNumber)
	}
	if p.cfg.Skip {
		return img.Clone(), nil
	}

	ctx, span := p.tracer.StartSpan(ctx, observability.MetricDegradeTime)
	defer span.Finish()

	binding := BindingFor(pageNumber)
	// Later stages crop back to the dimensions captured here.
	width, height := img.Width(), img.Height()
	out := img.Convert(p.cfg.Mode)

	p.log.Debug("degrading page",
		observability.Int("page", pageNumber),
		observability.String("binding", binding.String()),
		observability.Int("width", width),
		observability.Int("height", height))

	type stage struct {
		name string
		run  func(*bitmap.PageImage) *bitmap.PageImage
	}
	// Smudges run before the warp so they bend with the page; rotation and
	// crop act on the final silhouette; noise and brightness act on the
	// post-geometry image.
	stages := []stage{
		{"smudge", func(im *bitmap.PageImage) *bitmap.PageImage { return applySmudge(im, rng, p.cfg) }},
		{"warp", func(im *bitmap.PageImage) *bitmap.PageImage { return applyCurl(im, binding, p.cfg) }},
		{"shadow", func(im *bitmap.PageImage) *bitmap.PageImage { return applyShadows(im, binding, rng) }},
		{"rotate", func(im *bitmap.PageImage) *bitmap.PageImage { return applyRotateCrop(im, rng, p.cfg, width, height) }},
		{"noise", func(im *bitmap.PageImage) *bitmap.PageImage { return applyNoise(im, rng, p.cfg) }},
		{"scanline", func(im *bitmap.PageImage) *bitmap.PageImage { return applyScanlines(im, rng, p.cfg) }},
		{"brightness", func(im *bitmap.PageImage) *bitmap.PageImage { return applyBrightness(im) }},
	}
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("page %d: stage %s: %w", pageNumber, s.name, err)
		}
		_, stageSpan := p.tracer.StartSpan(ctx, "stage."+s.name+".duration")
		out = s.run(out)
		stageSpan.Finish()
	}
	return out, nil
}

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// randRange returns a uniform int in [lo, hi), or lo when the range is empty.
func randRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo)
}
