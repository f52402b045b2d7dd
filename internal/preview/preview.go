// Package preview renders PDF pages to PNG files so a split can be checked by eye.
package preview

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"

	"github.com/kpauljoseph/pdfslice/internal/config"
	"github.com/kpauljoseph/pdfslice/pkg/logger"
	"github.com/kpauljoseph/pdfslice/pkg/models"
	"github.com/kpauljoseph/pdfslice/pkg/utils"
)

type Renderer struct {
	outputDir string
	dpi       float64
	logger    *logger.Logger
}

func NewRenderer(outputDir string, dpi float64, logger *logger.Logger) (*Renderer, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create preview directory: %w", err)
	}
	if dpi <= 0 {
		dpi = config.DefaultPreviewDPI
	}
	return &Renderer{
		outputDir: outputDir,
		dpi:       dpi,
		logger:    logger,
	}, nil
}

// RenderFile writes <baseName>_page<N>.png for every page of pdfPath, N starting at 1.
func (r *Renderer) RenderFile(ctx context.Context, pdfPath, baseName string) ([]models.PreviewPage, error) {
	r.logger.Debug("Rendering previews for: %s", pdfPath)

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var pages []models.PreviewPage

	//Page numbers are zero indexed in the fitz package.
	for pageNum := 0; pageNum < doc.NumPage(); pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.ImageDPI(pageNum, r.dpi)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", pageNum+1, err)
		}

		hash, err := utils.GenerateImageHash(img)
		if err != nil {
			return nil, fmt.Errorf("failed to hash page %d: %w", pageNum+1, err)
		}

		imagePath := filepath.Join(r.outputDir, fmt.Sprintf("%s_page%d.png", baseName, pageNum+1))
		if err := saveImage(img, imagePath); err != nil {
			return nil, fmt.Errorf("failed to save preview for page %d: %w", pageNum+1, err)
		}

		r.logger.Trace("Preview page %d: %dx%d px -> %s", pageNum+1, img.Bounds().Dx(), img.Bounds().Dy(), imagePath)

		pages = append(pages, models.PreviewPage{
			PageNum:   pageNum + 1,
			ImagePath: imagePath,
			Hash:      hash,
		})
	}

	return pages, nil
}

func saveImage(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}
