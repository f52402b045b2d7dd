package pdf

import (
	"context"

	"github.com/kpauljoseph/pdfslice/pkg/models"
)

type PDFProcessor interface {
	ProcessPDF(ctx context.Context, pdfPath string) (ProcessingStats, error)
}

// PageSink receives one output page per band.
type PageSink interface {
	AddBandPage(band models.Band) error
}
