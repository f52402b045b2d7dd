package pdf

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/kpauljoseph/pdfslice/pkg/logger"
	"github.com/kpauljoseph/pdfslice/pkg/models"
)

type ProcessingStats struct {
	OutputPath      string
	PagesWritten    int
	SkippedSections int
	Previews        []models.PreviewPage
}

// PreviewRenderer renders the pages of a written document to images.
type PreviewRenderer interface {
	RenderFile(ctx context.Context, pdfPath, baseName string) ([]models.PreviewPage, error)
}

// Processor runs a split for one file at a time with fixed options and, when a
// preview renderer is attached, renders the produced pages.
type Processor struct {
	splitter *Splitter
	options  Options
	preview  PreviewRenderer
	logger   *logger.Logger
}

func NewProcessor(splitter *Splitter, options Options, preview PreviewRenderer, logger *logger.Logger) *Processor {
	return &Processor{
		splitter: splitter,
		options:  options,
		preview:  preview,
		logger:   logger,
	}
}

func (p *Processor) ProcessPDF(ctx context.Context, pdfPath string) (ProcessingStats, error) {
	result, err := p.splitter.Split(ctx, pdfPath, p.options)
	if err != nil {
		return ProcessingStats{}, err
	}

	stats := ProcessingStats{
		OutputPath:      result.OutputPath,
		PagesWritten:    result.PagesWritten,
		SkippedSections: len(result.Skipped()),
	}

	if p.preview != nil {
		base := strings.TrimSuffix(filepath.Base(result.OutputPath), filepath.Ext(result.OutputPath))
		previews, err := p.preview.RenderFile(ctx, result.OutputPath, base)
		if err != nil {
			p.logger.Warn("couldn't render previews for %s: %v", result.OutputPath, err)
		} else {
			stats.Previews = previews
			p.logger.Debug("Rendered %d preview images", len(previews))
		}
	}

	return stats, nil
}

// WithOutputPath returns a copy of p that writes to outputPath.
func (p *Processor) WithOutputPath(outputPath string) *Processor {
	clone := *p
	clone.options.OutputPath = outputPath
	return &clone
}
