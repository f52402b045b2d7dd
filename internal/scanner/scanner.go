package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/kpauljoseph/pdfslice/pkg/logger"
	"github.com/kpauljoseph/pdfslice/pkg/utils"
)

type DirectoryScanner struct {
	logger     *logger.Logger
	skipSuffix string
}

// New returns a scanner that skips files produced by an earlier split, i.e. names
// ending in skipSuffix + ".pdf". An empty skipSuffix keeps every PDF.
func New(logger *logger.Logger, skipSuffix string) *DirectoryScanner {
	return &DirectoryScanner{
		logger:     logger,
		skipSuffix: skipSuffix,
	}
}

// FindPDFs walks dir and returns the paths of all PDF files below it in lexical order.
func (s *DirectoryScanner) FindPDFs(ctx context.Context, dir string) ([]string, error) {
	var pdfs []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if d.IsDir() {
			s.logger.Debug("Scanning directory: %s", path)
			return nil
		}

		if !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil
		}

		if utils.IsSplitOutput(path, s.skipSuffix) {
			s.logger.Debug("Skipping earlier output: %s", path)
			return nil
		}

		pdfs = append(pdfs, path)
		return nil
	})

	if err != nil {
		return nil, err
	}

	if len(pdfs) == 0 {
		return nil, fmt.Errorf("no PDF files found in %s or its subdirectories", dir)
	}

	return pdfs, nil
}
