package pdf

import (
	"fmt"

	"github.com/kpauljoseph/pdfslice/pkg/models"
)

// InspectFile returns the media box and crop box of every page in path. A page
// without a crop box reports its media box as crop box.
func InspectFile(path string) ([]models.PageBoxes, error) {
	ctx, err := readContext(path, nil)
	if err != nil {
		return nil, err
	}

	pages := make([]models.PageBoxes, 0, ctx.PageCount)
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		_, _, inh, err := ctx.PageDict(pageNr, false)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d: %w", pageNr, err)
		}
		if inh == nil || inh.MediaBox == nil {
			return nil, fmt.Errorf("%w: page %d has no media box", ErrInvalidPDF, pageNr)
		}

		boxes := models.PageBoxes{
			PageNum:  pageNr,
			MediaBox: boxFromRect(inh.MediaBox),
		}
		boxes.CropBox = boxes.MediaBox
		if inh.CropBox != nil {
			boxes.CropBox = boxFromRect(inh.CropBox)
		}

		pages = append(pages, boxes)
	}

	return pages, nil
}
