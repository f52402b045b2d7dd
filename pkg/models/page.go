package models

import (
	"fmt"
)

type PageDimensions struct {
	Width  float64
	Height float64
}

// Box is a rectangle in PDF user space, lower-left origin, in points.
type Box struct {
	LLX float64
	LLY float64
	URX float64
	URY float64
}

func (b Box) Width() float64 {
	return b.URX - b.LLX
}

func (b Box) Height() float64 {
	return b.URY - b.LLY
}

func (b Box) Dimensions() PageDimensions {
	return PageDimensions{Width: b.Width(), Height: b.Height()}
}

func (b Box) String() string {
	return fmt.Sprintf("[%.2f %.2f %.2f %.2f]", b.LLX, b.LLY, b.URX, b.URY)
}

// Band is one horizontal slice of a source page. Index 0 is the topmost band.
type Band struct {
	Index int
	Box   Box
}

type PageBoxes struct {
	PageNum  int
	MediaBox Box
	CropBox  Box
}

type PreviewPage struct {
	PageNum   int
	ImagePath string
	Hash      string
}
