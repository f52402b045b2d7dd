package pdf

import (
	"context"
	"fmt"
	"time"

	"github.com/kpauljoseph/pdfslice/internal/config"
	"github.com/kpauljoseph/pdfslice/pkg/logger"
	"github.com/kpauljoseph/pdfslice/pkg/models"
	"github.com/kpauljoseph/pdfslice/pkg/utils"
)

type Options struct {
	Pages                int
	OutputPath           string
	OutputSuffix         string
	SetCropBox           bool
	PageWarningThreshold int
	MaxPages             int
}

func DefaultOptions() Options {
	return Options{
		Pages:                config.DefaultPages,
		OutputSuffix:         utils.DefaultOutputSuffix,
		SetCropBox:           true,
		PageWarningThreshold: config.DefaultPageWarningThreshold,
		MaxPages:             config.DefaultMaxPages,
	}
}

// OptionsFromConfig maps cfg onto Options. OutputPath is left empty.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Pages:                cfg.Pages,
		OutputSuffix:         cfg.OutputSuffix,
		SetCropBox:           cfg.SetCropBox(),
		PageWarningThreshold: cfg.PageWarningThreshold,
		MaxPages:             cfg.MaxPages,
	}
}

func (o Options) Validate() error {
	if o.Pages < 1 {
		return fmt.Errorf("%w: number of pages must be at least 1, got %d", ErrInvalidPageCount, o.Pages)
	}
	if o.MaxPages > 0 && o.Pages > o.MaxPages {
		return fmt.Errorf("%w: %d pages exceeds the maximum of %d", ErrInvalidPageCount, o.Pages, o.MaxPages)
	}
	return nil
}

type Result struct {
	InputPath    string
	OutputPath   string
	Source       models.Box
	Bands        []models.Band
	Outcomes     []PageOutcome
	PagesWritten int
	Elapsed      time.Duration
}

// Skipped returns the outcomes of bands that could not be assembled.
func (r *Result) Skipped() []PageOutcome {
	var skipped []PageOutcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			skipped = append(skipped, o)
		}
	}
	return skipped
}

type Splitter struct {
	logger *logger.Logger

	// newSink builds the page sink for a source; tests swap it to inject failures.
	newSink func(src *Source, setCropBox bool) (committingSink, error)
}

type committingSink interface {
	PageSink
	Commit() error
}

func NewSplitter(log *logger.Logger) *Splitter {
	if log == nil {
		log = logger.Discard()
	}
	return &Splitter{
		logger: log,
		newSink: func(src *Source, setCropBox bool) (committingSink, error) {
			return newPageTreeBuilder(src, setCropBox)
		},
	}
}

// Split slices the single page of inputPath into opts.Pages bands and writes them as
// a new document. Bands that fail to assemble are skipped and reported in the result.
func (s *Splitter) Split(ctx context.Context, inputPath string, opts Options) (*Result, error) {
	start := time.Now()

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		suffix := opts.OutputSuffix
		if suffix == "" {
			suffix = utils.DefaultOutputSuffix
		}
		outputPath = utils.SplitOutputPath(inputPath, suffix)
	}

	if opts.PageWarningThreshold > 0 && opts.Pages > opts.PageWarningThreshold {
		s.logger.Warn("splitting into %d pages, more than the usual limit of %d", opts.Pages, opts.PageWarningThreshold)
	}

	s.logger.Info("Starting PDF processing for: %s", inputPath)

	src, err := OpenSource(inputPath, nil)
	if err != nil {
		return nil, err
	}

	dims := src.Dimensions()
	s.logger.Info("Original page dimensions: %.0fx%.0f points", dims.Width, dims.Height)
	s.logger.Debug("Original media box: %s", src.MediaBox)

	bands, err := ComputeBands(src.MediaBox, opts.Pages)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Each new page will be %.0fx%.0f points", dims.Width, dims.Height/float64(opts.Pages))

	sink, err := s.newSink(src, opts.SetCropBox)
	if err != nil {
		return nil, err
	}

	outcomes, err := Assemble(ctx, sink, bands, s.logger)
	if err != nil {
		return nil, err
	}

	if err := sink.Commit(); err != nil {
		return nil, fmt.Errorf("failed to assemble %s: %w", inputPath, err)
	}

	s.logger.Info("Writing output to: %s", outputPath)
	if err := writeOutput(src.ctx, outputPath); err != nil {
		return nil, err
	}

	result := &Result{
		InputPath:    inputPath,
		OutputPath:   outputPath,
		Source:       src.MediaBox,
		Bands:        bands,
		Outcomes:     outcomes,
		PagesWritten: countSucceeded(outcomes),
		Elapsed:      time.Since(start),
	}

	if skipped := result.Skipped(); len(skipped) > 0 {
		s.logger.Warn("%d of %d sections were skipped", len(skipped), len(bands))
	}
	s.logger.Info("Successfully split into %d pages", result.PagesWritten)
	s.logger.Info("Output saved to: %s", outputPath)

	return result, nil
}
