package pdf

import (
	"time"

	"github.com/kpauljoseph/pdfslice/pkg/logger"
)

type ProcessingReport struct {
	StartTime       time.Time
	EndTime         time.Time
	ProcessedPDFs   int
	FailedPDFs      int
	PagesWritten    int
	SkippedSections int
}

func (r *ProcessingReport) Add(stats ProcessingStats) {
	r.ProcessedPDFs++
	r.PagesWritten += stats.PagesWritten
	r.SkippedSections += stats.SkippedSections
}

func (r *ProcessingReport) AddFailure() {
	r.ProcessedPDFs++
	r.FailedPDFs++
}

func (r *ProcessingReport) Print(log *logger.Logger) {
	log.Info("Processing complete:")
	log.Info("- PDFs processed: %d", r.ProcessedPDFs)
	log.Info("- PDFs failed: %d", r.FailedPDFs)
	log.Info("- Pages written: %d", r.PagesWritten)
	if r.SkippedSections > 0 {
		log.Info("- Sections skipped: %d", r.SkippedSections)
	}
	log.Info("Total processing time: %.2f seconds", r.EndTime.Sub(r.StartTime).Seconds())
}
