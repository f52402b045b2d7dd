// Package testutil generates PDF fixtures for tests.
package testutil

import (
	"fmt"
	"os"

	"codeberg.org/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

var stripeColors = [][3]int{
	{220, 40, 40},
	{40, 160, 60},
	{40, 80, 220},
	{230, 180, 30},
	{20, 20, 20},
	{250, 250, 250},
	{150, 40, 170},
	{40, 200, 200},
}

// WriteTallPDF writes a document with pages pages of width x height points. Each page
// is covered by horizontal colored stripes labelled with their order from the top,
// so every band of a split renders differently.
func WriteTallPDF(path string, width, height float64, pages int) error {
	doc := newTallDoc(width, height, pages)
	return saveDoc(doc, path)
}

// WriteBookmarkedPDF writes a single tall page with one outline entry pointing at it.
func WriteBookmarkedPDF(path string, width, height float64) error {
	doc := newTallDoc(width, height, 0)
	doc.AddPage()
	doc.Bookmark("Conversation", 0, 0)
	drawStripes(doc, width, height, 1)
	return saveDoc(doc, path)
}

// WriteNestedTreePDF writes a single tall page that sits below an intermediate page
// tree node. The page has no MediaBox or Resources of its own; it inherits them from
// the intermediate node, and Rotate 90 from the root node.
func WriteNestedTreePDF(path string, width, height float64) error {
	flat := path + ".flat"
	if err := WriteTallPDF(flat, width, height, 1); err != nil {
		return err
	}
	defer os.Remove(flat)

	ctx, err := api.ReadContextFile(flat)
	if err != nil {
		return fmt.Errorf("failed to read fixture %s: %w", flat, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return err
	}

	pageDict, pageRef, _, err := ctx.PageDict(1, false)
	if err != nil {
		return err
	}
	rootRef, err := ctx.Pages()
	if err != nil {
		return err
	}
	root, err := ctx.DereferenceDict(*rootRef)
	if err != nil {
		return err
	}

	resources, found := pageDict.Find("Resources")
	if !found {
		resources, found = root.Find("Resources")
	}
	if !found {
		return fmt.Errorf("fixture %s has no resources", flat)
	}
	for _, key := range []string{"MediaBox", "Resources"} {
		pageDict.Delete(key)
		root.Delete(key)
	}

	mid := types.Dict{
		"Type":      types.Name("Pages"),
		"Parent":    *rootRef,
		"Kids":      types.Array{*pageRef},
		"Count":     types.Integer(1),
		"MediaBox":  types.NewRectangle(0, 0, width, height).Array(),
		"Resources": resources,
	}
	midRef, err := ctx.IndRefForNewObject(mid)
	if err != nil {
		return err
	}

	pageDict["Parent"] = *midRef
	root["Kids"] = types.Array{*midRef}
	root["Rotate"] = types.Integer(90)

	if err := api.WriteContextFile(ctx, path); err != nil {
		return fmt.Errorf("failed to write fixture %s: %w", path, err)
	}
	return nil
}

func newTallDoc(width, height float64, pages int) *fpdf.Fpdf {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, 0, 0)
	doc.SetFont("Helvetica", "", 10)

	for p := 0; p < pages; p++ {
		doc.AddPage()
		drawStripes(doc, width, height, p+1)
	}
	return doc
}

func drawStripes(doc *fpdf.Fpdf, width, height float64, pageNum int) {
	stripes := len(stripeColors)
	stripeHeight := height / float64(stripes)

	for i := 0; i < stripes; i++ {
		c := stripeColors[i]
		doc.SetFillColor(c[0], c[1], c[2])
		y := float64(i) * stripeHeight
		doc.Rect(0, y, width, stripeHeight, "F")
		doc.Text(4, y+stripeHeight/2, fmt.Sprintf("page %d stripe %d", pageNum, i+1))
	}
}

func saveDoc(doc *fpdf.Fpdf, path string) error {
	if err := doc.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write fixture %s: %w", path, err)
	}
	return nil
}
