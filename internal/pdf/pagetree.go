package pdf

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/kpauljoseph/pdfslice/pkg/models"
)

// Keys that describe the full source page and must not carry over to a band page.
var droppedPageKeys = []string{"Parent", "MediaBox", "CropBox", "BleedBox", "TrimBox", "ArtBox", "Thumb"}

// pageTreeBuilder turns the source page into band pages inside the source context.
// Every band page is a shallow clone of the source page dict, so the content stream
// and resources are shared by indirect reference. Nothing in the page tree changes
// until Commit.
type pageTreeBuilder struct {
	src        *Source
	pagesRef   types.IndirectRef
	pagesDict  types.Dict
	setCropBox bool
	kids       types.Array
}

func newPageTreeBuilder(src *Source, setCropBox bool) (*pageTreeBuilder, error) {
	pagesRef, err := src.ctx.Pages()
	if err != nil {
		return nil, fmt.Errorf("failed to locate page tree: %w", err)
	}
	if pagesRef == nil {
		return nil, fmt.Errorf("%w: missing page tree root", ErrInvalidPDF)
	}

	pagesDict, err := src.ctx.DereferenceDict(*pagesRef)
	if err != nil {
		return nil, fmt.Errorf("failed to read page tree root: %w", err)
	}
	if pagesDict == nil {
		return nil, fmt.Errorf("%w: empty page tree root", ErrInvalidPDF)
	}

	return &pageTreeBuilder{
		src:        src,
		pagesRef:   *pagesRef,
		pagesDict:  pagesDict,
		setCropBox: setCropBox,
	}, nil
}

func (b *pageTreeBuilder) AddBandPage(band models.Band) error {
	if !(band.Box.Height() > 0) || !(band.Box.Width() > 0) {
		return fmt.Errorf("degenerate band %s", band.Box)
	}

	clone, ok := b.src.pageDict.Clone().(types.Dict)
	if !ok {
		return fmt.Errorf("failed to clone source page")
	}

	for _, key := range droppedPageKeys {
		clone.Delete(key)
	}

	// The band page hangs directly off the root node, so anything the source page
	// inherited from an intermediate node has to be spelled out.
	if _, found := clone.Find("Resources"); !found && b.src.inherited.Resources != nil {
		clone["Resources"] = b.src.inherited.Resources
	}
	if _, found := clone.Find("Rotate"); !found && b.src.inherited.Rotate != 0 {
		clone["Rotate"] = types.Integer(b.src.inherited.Rotate)
	}

	rect := rectFromBox(band.Box)
	clone["Parent"] = b.pagesRef
	clone["MediaBox"] = rect.Array()
	if b.setCropBox {
		clone["CropBox"] = rect.Array()
	}

	indRef, err := b.pageObject(clone)
	if err != nil {
		return err
	}

	b.kids = append(b.kids, *indRef)
	return nil
}

// pageObject stores page as a new object, except for the first band page, which takes
// over the source page's object so outlines and destinations pointing at the source
// page land on it.
func (b *pageTreeBuilder) pageObject(page types.Dict) (*types.IndirectRef, error) {
	if len(b.kids) == 0 {
		entry, found := b.src.ctx.FindTableEntryForIndRef(b.src.pageRef)
		if found && entry != nil {
			entry.Object = page
			ref := *b.src.pageRef
			return &ref, nil
		}
	}

	indRef, err := b.src.ctx.IndRefForNewObject(page)
	if err != nil {
		return nil, fmt.Errorf("failed to add page object: %w", err)
	}
	return indRef, nil
}

// Commit replaces the page tree's kids with the band pages added so far.
func (b *pageTreeBuilder) Commit() error {
	if len(b.kids) == 0 {
		return ErrNoPagesAssembled
	}

	b.pagesDict["Kids"] = b.kids
	b.pagesDict["Count"] = types.Integer(len(b.kids))
	b.src.ctx.PageCount = len(b.kids)

	return nil
}
