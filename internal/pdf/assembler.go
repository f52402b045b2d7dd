package pdf

import (
	"context"

	"github.com/kpauljoseph/pdfslice/pkg/logger"
	"github.com/kpauljoseph/pdfslice/pkg/models"
)

// PageOutcome records what happened to one band during assembly.
type PageOutcome struct {
	Index int
	Band  models.Band
	Err   error
}

func (o PageOutcome) OK() bool {
	return o.Err == nil
}

// Assemble hands every band to sink in order. A failing band is logged and skipped;
// the remaining bands are still attempted. The returned slice has one entry per band
// unless ctx is cancelled, in which case it stops early and returns ctx.Err().
func Assemble(ctx context.Context, sink PageSink, bands []models.Band, log *logger.Logger) ([]PageOutcome, error) {
	outcomes := make([]PageOutcome, 0, len(bands))

	for _, band := range bands {
		select {
		case <-ctx.Done():
			return outcomes, ctx.Err()
		default:
		}

		log.Info("Processing section %d of %d...", band.Index+1, len(bands))
		log.Trace("Section %d box: %s", band.Index+1, band.Box)

		err := sink.AddBandPage(band)
		if err != nil {
			log.Error("processing section %d: %v", band.Index+1, err)
		}

		outcomes = append(outcomes, PageOutcome{
			Index: band.Index,
			Band:  band,
			Err:   err,
		})
	}

	return outcomes, nil
}

func countSucceeded(outcomes []PageOutcome) int {
	n := 0
	for _, o := range outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}
