package acceptance

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
	lpdf "github.com/ledongthuc/pdf"

	"github.com/kpauljoseph/pdfslice/pkg/models"
	"github.com/kpauljoseph/pdfslice/pkg/utils"
)

// ReadMediaBoxes reads the media box of every page with a reader independent of the
// one used to write the file.
func ReadMediaBoxes(path string) ([]models.Box, error) {
	f, r, err := lpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	boxes := make([]models.Box, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		mediaBox := r.Page(i).V.Key("MediaBox")
		if mediaBox.Len() != 4 {
			return nil, fmt.Errorf("page %d: media box has %d entries", i, mediaBox.Len())
		}
		boxes = append(boxes, models.Box{
			LLX: mediaBox.Index(0).Float64(),
			LLY: mediaBox.Index(1).Float64(),
			URX: mediaBox.Index(2).Float64(),
			URY: mediaBox.Index(3).Float64(),
		})
	}

	return boxes, nil
}

// RenderPages renders every page of path at 72 DPI.
func RenderPages(path string) ([]*image.RGBA, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer doc.Close()

	images := make([]*image.RGBA, 0, doc.NumPage())
	for pageNum := 0; pageNum < doc.NumPage(); pageNum++ {
		img, err := doc.ImageDPI(pageNum, 72)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", pageNum+1, err)
		}
		images = append(images, img)
	}

	return images, nil
}

func PageHashes(images []*image.RGBA) ([]string, error) {
	hashes := make([]string, 0, len(images))
	for _, img := range images {
		hash, err := utils.GenerateImageHash(img)
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, hash)
	}
	return hashes, nil
}

// DiffRatio returns the share of pixels that differ between a and the region of b
// starting at offset. Both regions have the size of a.
func DiffRatio(a image.Image, b image.Image, offset image.Point) float64 {
	bounds := a.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 0
	}

	diff := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			bx := x - bounds.Min.X + b.Bounds().Min.X + offset.X
			by := y - bounds.Min.Y + b.Bounds().Min.Y + offset.Y
			r1, g1, b1, _ := a.At(x, y).RGBA()
			r2, g2, b2, _ := b.At(bx, by).RGBA()
			if absDiff(r1, r2) > 0x1000 || absDiff(g1, g2) > 0x1000 || absDiff(b1, b2) > 0x1000 {
				diff++
			}
		}
	}

	return float64(diff) / float64(total)
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
