package pdf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/kpauljoseph/pdfslice/pkg/models"
)

// Source is a parsed single-page document. Its context is modified in place when
// output pages are assembled, so a Source is good for one split.
type Source struct {
	Path      string
	MediaBox  models.Box
	ctx       *model.Context
	pageDict  types.Dict
	pageRef   *types.IndirectRef
	inherited *model.InheritedPageAttrs
}

// OpenSource reads and validates path and checks that it holds exactly one page.
func OpenSource(path string, conf *model.Configuration) (*Source, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("failed to access input %s: %w", path, err)
	}

	ctx, err := readContext(path, conf)
	if err != nil {
		return nil, err
	}

	if ctx.PageCount != 1 {
		return nil, &PageCountError{Path: path, Count: ctx.PageCount}
	}

	pageDict, pageRef, inh, err := ctx.PageDict(1, false)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read page 1 of %s: %v", ErrInvalidPDF, path, err)
	}
	if pageDict == nil || pageRef == nil || inh == nil || inh.MediaBox == nil {
		return nil, fmt.Errorf("%w: page 1 of %s has no media box", ErrInvalidPDF, path)
	}

	return &Source{
		Path:      path,
		MediaBox:  boxFromRect(inh.MediaBox),
		ctx:       ctx,
		pageDict:  pageDict,
		pageRef:   pageRef,
		inherited: inh,
	}, nil
}

func (s *Source) Dimensions() models.PageDimensions {
	return s.MediaBox.Dimensions()
}

func readContext(path string, conf *model.Configuration) (*model.Context, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if conf == nil {
		conf = model.NewDefaultConfiguration()
	}

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrInvalidPDF, path, err)
	}

	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: failed to validate %s: %v", ErrInvalidPDF, path, err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("%w: failed to count pages of %s: %v", ErrInvalidPDF, path, err)
	}

	return ctx, nil
}

func boxFromRect(r *types.Rectangle) models.Box {
	return models.Box{LLX: r.LL.X, LLY: r.LL.Y, URX: r.UR.X, URY: r.UR.Y}
}

func rectFromBox(b models.Box) *types.Rectangle {
	return types.NewRectangle(b.LLX, b.LLY, b.URX, b.URY)
}
