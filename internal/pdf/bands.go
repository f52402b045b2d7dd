package pdf

import (
	"fmt"

	"github.com/kpauljoseph/pdfslice/pkg/models"
)

// ComputeBands divides box into n equal-height horizontal bands ordered top to bottom.
// Every band keeps the full width of box. Adjacent bands share the same boundary value
// and the last band ends exactly at the bottom of box.
func ComputeBands(box models.Box, n int) ([]models.Band, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: need at least 1 page, got %d", ErrInvalidPageCount, n)
	}
	if !(box.Width() > 0) || !(box.Height() > 0) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSourceBox, box)
	}

	height := box.Height()
	boundaries := make([]float64, n+1)
	for k := 0; k < n; k++ {
		boundaries[k] = box.URY - float64(k)*height/float64(n)
	}
	boundaries[n] = box.LLY

	bands := make([]models.Band, n)
	for i := range bands {
		bands[i] = models.Band{
			Index: i,
			Box: models.Box{
				LLX: box.LLX,
				LLY: boundaries[i+1],
				URX: box.URX,
				URY: boundaries[i],
			},
		}
	}

	return bands, nil
}
