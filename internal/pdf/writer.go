package pdf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// writeOutput serializes ctx next to outputPath and renames it into place, so outputPath
// is either fully replaced or left untouched.
func writeOutput(ctx *model.Context, outputPath string) (err error) {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return outputError(outputPath, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(outputPath)+".*.tmp")
	if err != nil {
		return outputError(outputPath, err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if tmp != nil {
			tmp.Close()
		}
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if err := api.WriteContext(ctx, tmp); err != nil {
		return outputError(outputPath, err)
	}
	if err := tmp.Sync(); err != nil {
		return outputError(outputPath, err)
	}

	closeErr := tmp.Close()
	tmp = nil
	if closeErr != nil {
		return outputError(outputPath, closeErr)
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		return outputError(outputPath, err)
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		return outputError(outputPath, err)
	}

	return nil
}

func outputError(outputPath string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: unable to write to %s, check file permissions: %v", ErrOutputPermission, outputPath, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrOutputWrite, outputPath, err)
}
