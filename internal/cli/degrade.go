package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wudi/photocopy/bitmap"
	"github.com/wudi/photocopy/effect"
)

type degradeOptions struct {
	inputs     []string
	outDir     string
	configPath string
	colorMode  string
	seed       int64
	firstPage  int
}

func newDegradeCmd() *cobra.Command {
	var opts degradeOptions
	cmd := &cobra.Command{
		Use:   "degrade <image>...",
		Short: "Apply the photocopy effect to existing page images",
		Long: `Degrade runs already-rendered page images through the degradation
pipeline. Images are treated as consecutive pages starting at --first-page,
which determines the binding side of each page.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.inputs = args
			return runDegrade(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.outDir, "out", "o", "degraded", "output directory")
	f.StringVar(&opts.configPath, "config", "", "TOML run configuration file")
	f.StringVar(&opts.colorMode, "color-mode", "", "mono or color (default mono)")
	f.Int64Var(&opts.seed, "seed", 0, "random seed for reproducible degradation")
	f.IntVar(&opts.firstPage, "first-page", 1, "page number of the first input")
	return cmd
}

func runDegrade(ctx context.Context, opts degradeOptions) error {
	log := loggerFromContext(ctx)

	if opts.firstPage < 1 {
		return fmt.Errorf("first page %d is not positive", opts.firstPage)
	}
	cfg := effect.DefaultConfig()
	if opts.configPath != "" {
		file, err := loadRunConfig(opts.configPath)
		if err != nil {
			return err
		}
		cfg, err = file.Effect.apply(cfg)
		if err != nil {
			return err
		}
	}
	if opts.colorMode != "" {
		mode, err := bitmap.ParseColorMode(opts.colorMode)
		if err != nil {
			return err
		}
		cfg.Mode = mode
	}

	effectOpts := []effect.Option{effect.WithLogger(adaptLogger(log))}
	if opts.seed != 0 {
		effectOpts = append(effectOpts, effect.WithSeed(opts.seed))
	}
	pipe, err := effect.New(cfg, effectOpts...)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for i, path := range opts.inputs {
		pageNumber := opts.firstPage + i
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("page %d: %w", pageNumber, err)
		}
		img, err := bitmap.DecodeImage(f, cfg.Mode)
		f.Close()
		if err != nil {
			return fmt.Errorf("page %d: %s: %w", pageNumber, path, err)
		}

		out, err := pipe.Degrade(ctx, img, pageNumber)
		if err != nil {
			return err
		}
		data, err := out.PNGBytes()
		if err != nil {
			return fmt.Errorf("page %d: %w", pageNumber, err)
		}

		name := filepath.Base(path)
		name = name[:len(name)-len(filepath.Ext(name))] + ".png"
		dst := filepath.Join(opts.outDir, name)
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return fmt.Errorf("page %d: %w", pageNumber, err)
		}
		log.Debug("degraded page", "page", pageNumber, "in", path, "out", dst)
	}
	log.Info("degraded pages", "count", len(opts.inputs), "dir", opts.outDir)
	return nil
}
