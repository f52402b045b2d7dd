package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kpauljoseph/pdfslice/internal/pdf"
)

func main() {
	pdfPath := flag.String("file", "", "Path to PDF file")
	flag.Parse()

	if *pdfPath == "" {
		fmt.Println("Please provide a PDF file path using -file flag")
		os.Exit(1)
	}

	fmt.Printf("Analyzing PDF: %s\n", *pdfPath)

	pages, err := pdf.InspectFile(*pdfPath)
	if err != nil {
		fmt.Printf("Error reading page boxes: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Pages: %d\n", len(pages))
	for _, page := range pages {
		dims := page.MediaBox.Dimensions()
		fmt.Printf("\nPage %d:\n", page.PageNum)
		fmt.Printf("Dimensions (Width x Height): %.3f x %.3f points\n", dims.Width, dims.Height)
		fmt.Printf("MediaBox: %s\n", page.MediaBox)
		if page.CropBox != page.MediaBox {
			fmt.Printf("CropBox:  %s\n", page.CropBox)
		}
	}
}
