package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wudi/photocopy/bitmap"
	"github.com/wudi/photocopy/book"
	"github.com/wudi/photocopy/effect"
	"github.com/wudi/photocopy/fonts"
	"github.com/wudi/photocopy/ocr"
	"github.com/wudi/photocopy/pipeline"
	"github.com/wudi/photocopy/render"
	"github.com/wudi/photocopy/scripting"
)

type compileOptions struct {
	chaptersDir string
	outDir      string
	configPath  string
	scriptPath  string

	title      string
	author     string
	font       string
	blankCover bool

	chapters  string
	testPages int
	colorMode string
	seed      int64
	workers   int
	noEffect  bool
	verify    bool
}

func newCompileCmd() *cobra.Command {
	var opts compileOptions
	cmd := &cobra.Command{
		Use:   "compile <chapters-dir>",
		Short: "Lay out chapter files into book pages and degrade them",
		Long: `Compile discovers chapter files named NN_title.md (or .html, .txt) in the
given directory, lays them out as an A4 book with cover and table of
contents, and writes each page as a PNG that looks like a worn photocopy.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.chaptersDir = args[0]
			return runCompile(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.outDir, "out", "o", "pages", "output directory for page PNGs")
	f.StringVar(&opts.configPath, "config", "", "TOML run configuration file")
	f.StringVar(&opts.scriptPath, "script", "", "JavaScript hook defining configFor(page)")
	f.StringVar(&opts.title, "title", "", "book title for cover, headers, and contents")
	f.StringVar(&opts.author, "author", "", "author name on the cover")
	f.StringVar(&opts.font, "font", "", "font family name (default: first installed)")
	f.BoolVar(&opts.blankCover, "blank-cover", false, "leave the cover page empty")
	f.StringVar(&opts.chapters, "chapters", "", "chapter selection, e.g. \"1,3-5\" (default all)")
	f.IntVar(&opts.testPages, "test", 0, "limit the body to the first N pages")
	f.Lookup("test").NoOptDefVal = "10"
	f.StringVar(&opts.colorMode, "color-mode", "", "mono or color (default mono)")
	f.Int64Var(&opts.seed, "seed", 0, "random seed for reproducible degradation")
	f.IntVar(&opts.workers, "workers", 0, "concurrent page workers (default GOMAXPROCS)")
	f.BoolVar(&opts.noEffect, "no-effect", false, "render clean pages without degradation")
	f.BoolVar(&opts.verify, "verify", false, "OCR each degraded page and report legibility")
	return cmd
}

func runCompile(ctx context.Context, opts compileOptions) error {
	log := loggerFromContext(ctx)

	cfg := effect.DefaultConfig()
	bookCfg := bookConfig{}
	if opts.configPath != "" {
		file, err := loadRunConfig(opts.configPath)
		if err != nil {
			return err
		}
		bookCfg = file.Book
		cfg, err = file.Effect.apply(cfg)
		if err != nil {
			return err
		}
	}
	if opts.title != "" {
		bookCfg.Title = opts.title
	}
	if opts.author != "" {
		bookCfg.Author = opts.author
	}
	if opts.font != "" {
		bookCfg.Font = opts.font
	}
	if opts.blankCover {
		bookCfg.BlankCover = true
	}
	if opts.colorMode != "" {
		mode, err := bitmap.ParseColorMode(opts.colorMode)
		if err != nil {
			return err
		}
		cfg.Mode = mode
	}
	cfg.Skip = opts.noEffect

	chapters, err := book.DiscoverChapters(opts.chaptersDir)
	if err != nil {
		return err
	}
	if opts.chapters != "" {
		selected, err := book.ParseChapterRanges(opts.chapters)
		if err != nil {
			return err
		}
		chapters = book.FilterChapters(chapters, selected)
	}
	log.Debug("discovered chapters", "count", len(chapters))

	compiler := book.Compiler{
		Title:      bookCfg.Title,
		Author:     bookCfg.Author,
		BlankCover: bookCfg.BlankCover,
		TestPages:  opts.testPages,
	}
	doc, err := compiler.Compile(chapters)
	if err != nil {
		return err
	}
	log.Info("book laid out", "chapters", len(chapters), "pages", len(doc.Pages))

	cascade, err := buildCascade(bookCfg.Font)
	if err != nil {
		return err
	}

	var hook pipeline.Hook
	if opts.scriptPath != "" {
		script, err := os.ReadFile(opts.scriptPath)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		h, err := scripting.NewConfigHook(ctx, string(script))
		if err != nil {
			return err
		}
		hook = h
	}

	// Remember whether the output directory is ours to remove on failure.
	_, statErr := os.Stat(opts.outDir)
	created := os.IsNotExist(statErr)
	writer, err := render.NewDirWriter(opts.outDir)
	if err != nil {
		return err
	}

	runner := &pipeline.Runner{
		Rasterizer: render.NewSoftware(cascade, cfg.Mode),
		Replacer:   writer,
		Config:     cfg,
		Hook:       hook,
		Seed:       opts.seed,
		Workers:    opts.workers,
		Logger:     adaptLogger(log),
	}
	if opts.verify {
		runner.OCR = ocr.DefaultEngine()
	}

	stats, err := runner.Run(ctx, doc)
	if err == nil {
		err = writeManifest(writer, doc, opts.seed, cfg.Mode.String())
	}
	if err != nil {
		if created {
			os.RemoveAll(opts.outDir)
		}
		return err
	}
	log.Info("wrote pages", "dir", writer.Dir(), "pages", stats.Pages, "elapsed", stats.Elapsed)
	if stats.Verified > 0 {
		log.Info("legibility", "pages", stats.Verified, "mean", fmt.Sprintf("%.3f", stats.MeanLegibility))
	}
	return nil
}

// buildCascade resolves the requested family, or every installed default
// family in priority order when none is named.
func buildCascade(family string) (*fonts.Cascade, error) {
	if family != "" {
		src, ok := fonts.ByName(family)
		if !ok {
			return nil, fmt.Errorf("unknown font family %q", family)
		}
		return fonts.NewCascade([]fonts.Source{src}), nil
	}
	sources := fonts.Discover()
	if len(sources) == 0 {
		return nil, fmt.Errorf("no usable serif fonts installed")
	}
	return fonts.NewCascade(sources), nil
}
