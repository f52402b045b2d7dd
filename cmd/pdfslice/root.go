package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/pdfslice/internal/config"
	"github.com/kpauljoseph/pdfslice/internal/pdf"
	"github.com/kpauljoseph/pdfslice/internal/preview"
	"github.com/kpauljoseph/pdfslice/internal/scanner"
	"github.com/kpauljoseph/pdfslice/pkg/logger"
	"github.com/kpauljoseph/pdfslice/pkg/version"
)

const defaultConfigPath = "pdfslice.yaml"

var errBatchFailures = errors.New("some files could not be split")

type cliOptions struct {
	input      string
	output     string
	pages      int
	configPath string
	dir        string
	previewDir string
	noCropBox  bool
	verbose    bool
	debug      bool
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "pdfslice [input.pdf]",
		Short: "Split a single long PDF page into multiple equal-sized pages",
		Long: `pdfslice slices the single page of a long PDF (an exported chat log or web page)
into equal-height pages. Every output page shows one horizontal band of the original
and shares its content, so nothing is re-rendered.`,
		Example: `  pdfslice input.pdf -p 5
  pdfslice input.pdf -o output.pdf -p 3
  pdfslice -i input.pdf --pages 4
  pdfslice --dir ./exports --pages 6`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if opts.input != "" && opts.input != args[0] {
					return fmt.Errorf("conflicting input files %q and %q", args[0], opts.input)
				}
				opts.input = args[0]
			}
			return runSplit(cmd, opts, stdout)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stdout)
	cmd.SetVersionTemplate(version.GetDetailedVersionInfo())

	flags := cmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", "", "input PDF file")
	flags.StringVarP(&opts.output, "output", "o", "", "output PDF file (default <input>_split.pdf)")
	flags.IntVarP(&opts.pages, "pages", "p", config.DefaultPages, "number of pages to split into")
	flags.StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "path to config file")
	flags.StringVar(&opts.dir, "dir", "", "split every single-page PDF found under this directory")
	flags.StringVar(&opts.previewDir, "preview-dir", "", "render PNG previews of the output pages into this directory")
	flags.BoolVar(&opts.noCropBox, "no-crop-box", false, "only set the media box on output pages")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug mode with trace logging")

	return cmd
}

func run(args []string, stdout io.Writer) int {
	cmd := newRootCmd(stdout)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runSplit(cmd *cobra.Command, opts *cliOptions, stdout io.Writer) error {
	log := logger.New(logger.WithOutput(stdout))
	log.SetVerbose(opts.verbose)
	if opts.debug {
		log.SetLevel(logger.LevelTrace)
	}
	log.Debug("%s", version.GetVersionInfo())

	cfg, err := loadConfig(cmd, opts.configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("pages") {
		cfg.Pages = opts.pages
	}
	if flags.Changed("no-crop-box") {
		enabled := !opts.noCropBox
		cfg.CropBox = &enabled
	}
	if flags.Changed("preview-dir") {
		cfg.Preview.Dir = opts.previewDir
	}

	switch {
	case opts.dir != "" && (opts.input != "" || opts.output != ""):
		return errors.New("--dir cannot be combined with an input or output file")
	case opts.dir == "" && opts.input == "":
		return errors.New("please provide an input PDF file")
	}

	options := pdf.OptionsFromConfig(cfg)
	if err := options.Validate(); err != nil {
		return err
	}

	var renderer pdf.PreviewRenderer
	if cfg.Preview.Dir != "" {
		r, err := preview.NewRenderer(cfg.Preview.Dir, cfg.Preview.DPI, log)
		if err != nil {
			return err
		}
		renderer = r
	}

	processor := pdf.NewProcessor(pdf.NewSplitter(log), options, renderer, log)
	ctx := context.Background()

	if opts.dir != "" {
		return runBatch(ctx, processor, opts.dir, cfg.OutputSuffix, log)
	}

	start := time.Now()
	if _, err := processor.WithOutputPath(opts.output).ProcessPDF(ctx, opts.input); err != nil {
		return err
	}
	log.Info("Total processing time: %.2f seconds", time.Since(start).Seconds())

	return nil
}

func runBatch(ctx context.Context, processor pdf.PDFProcessor, dir, suffix string, log *logger.Logger) error {
	report := &pdf.ProcessingReport{StartTime: time.Now()}

	log.Info("Scanning directory: %s", dir)
	pdfs, err := scanner.New(log, suffix).FindPDFs(ctx, dir)
	if err != nil {
		return err
	}
	log.Info("Found %d PDFs to process", len(pdfs))

	for _, path := range pdfs {
		stats, err := processor.ProcessPDF(ctx, path)
		if err != nil {
			log.Error("processing %s: %v", path, err)
			report.AddFailure()
			continue
		}
		report.Add(stats)
	}

	report.EndTime = time.Now()
	report.Print(log)

	if report.FailedPDFs > 0 {
		return fmt.Errorf("%w: %d of %d failed", errBatchFailures, report.FailedPDFs, report.ProcessedPDFs)
	}
	return nil
}

func loadConfig(cmd *cobra.Command, path string) (*config.Config, error) {
	if cmd.Flags().Changed("config") {
		return config.Load(path)
	}
	return config.LoadOrDefault(path)
}
