package pdf_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/kpauljoseph/pdfslice/internal/pdf"
	"github.com/kpauljoseph/pdfslice/internal/testutil"
	"github.com/kpauljoseph/pdfslice/pkg/logger"
	"github.com/kpauljoseph/pdfslice/pkg/models"
)

const boxTolerance = 0.01

func expectBoxesMatch(actual, expected models.Box) {
	ExpectWithOffset(1, actual.LLX).To(BeNumerically("~", expected.LLX, boxTolerance))
	ExpectWithOffset(1, actual.LLY).To(BeNumerically("~", expected.LLY, boxTolerance))
	ExpectWithOffset(1, actual.URX).To(BeNumerically("~", expected.URX, boxTolerance))
	ExpectWithOffset(1, actual.URY).To(BeNumerically("~", expected.URY, boxTolerance))
}

var _ = Describe("PDF Splitter", func() {
	var (
		splitter   *pdf.Splitter
		testDir    string
		inputPath  string
		ctx        context.Context
		testLogger *logger.Logger
	)

	BeforeEach(func() {
		var err error
		testDir, err = os.MkdirTemp("", "pdfslice-splitter-*")
		Expect(err).NotTo(HaveOccurred())

		testLogger = pdfTestLogger("[splitter-test] ")
		testLogger.Debug("Test directory: %s", testDir)

		inputPath = filepath.Join(testDir, "chat.pdf")
		Expect(testutil.WriteTallPDF(inputPath, 300, 900, 1)).To(Succeed())

		splitter = pdf.NewSplitter(testLogger)
		ctx = context.Background()
	})

	AfterEach(func() {
		testLogger.Debug("Cleaning up test environment")
		os.RemoveAll(testDir)
	})

	optionsWithPages := func(n int) pdf.Options {
		opts := pdf.DefaultOptions()
		opts.Pages = n
		return opts
	}

	Context("when splitting a single long page", func() {
		It("should write one page per band, top band first", func() {
			result, err := splitter.Split(ctx, inputPath, optionsWithPages(3))
			Expect(err).NotTo(HaveOccurred())

			Expect(result.OutputPath).To(Equal(filepath.Join(testDir, "chat_split.pdf")))
			Expect(result.OutputPath).To(BeAnExistingFile())
			Expect(result.PagesWritten).To(Equal(3))
			Expect(result.Skipped()).To(BeEmpty())
			expectBoxesMatch(result.Source, models.Box{URX: 300, URY: 900})

			pages, err := pdf.InspectFile(result.OutputPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(pages).To(HaveLen(3))

			expected := []models.Box{
				{LLX: 0, LLY: 600, URX: 300, URY: 900},
				{LLX: 0, LLY: 300, URX: 300, URY: 600},
				{LLX: 0, LLY: 0, URX: 300, URY: 300},
			}
			for i, page := range pages {
				Expect(page.PageNum).To(Equal(i + 1))
				expectBoxesMatch(page.MediaBox, expected[i])
				expectBoxesMatch(page.CropBox, expected[i])
			}
		})

		It("should share one content stream between all output pages", func() {
			result, err := splitter.Split(ctx, inputPath, optionsWithPages(4))
			Expect(err).NotTo(HaveOccurred())

			pdfCtx, err := api.ReadContextFile(result.OutputPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(pdfCtx.EnsurePageCount()).To(Succeed())
			Expect(pdfCtx.PageCount).To(Equal(4))

			var contents []int
			for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
				pageDict, _, _, err := pdfCtx.PageDict(pageNr, false)
				Expect(err).NotTo(HaveOccurred())
				ref := pageDict.IndirectRefEntry("Contents")
				Expect(ref).NotTo(BeNil())
				contents = append(contents, ref.ObjectNumber.Value())
			}
			Expect(contents).To(HaveEach(contents[0]))
		})

		It("should reproduce the source box when splitting into one page", func() {
			result, err := splitter.Split(ctx, inputPath, optionsWithPages(1))
			Expect(err).NotTo(HaveOccurred())

			pages, err := pdf.InspectFile(result.OutputPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(pages).To(HaveLen(1))
			expectBoxesMatch(pages[0].MediaBox, models.Box{URX: 300, URY: 900})
		})

		It("should handle fractional band heights", func() {
			fractional := filepath.Join(testDir, "short.pdf")
			Expect(testutil.WriteTallPDF(fractional, 50, 90, 1)).To(Succeed())

			result, err := splitter.Split(ctx, fractional, optionsWithPages(4))
			Expect(err).NotTo(HaveOccurred())

			pages, err := pdf.InspectFile(result.OutputPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(pages).To(HaveLen(4))
			for i, page := range pages {
				Expect(page.MediaBox.Height()).To(BeNumerically("~", 22.5, boxTolerance))
				Expect(page.MediaBox.URY).To(BeNumerically("~", 90-22.5*float64(i), boxTolerance))
			}
		})

		It("should leave the crop box unset when disabled", func() {
			opts := optionsWithPages(2)
			opts.SetCropBox = false

			result, err := splitter.Split(ctx, inputPath, opts)
			Expect(err).NotTo(HaveOccurred())

			pdfCtx, err := api.ReadContextFile(result.OutputPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(pdfCtx.EnsurePageCount()).To(Succeed())

			pageDict, _, _, err := pdfCtx.PageDict(1, false)
			Expect(err).NotTo(HaveOccurred())
			_, found := pageDict.Find("CropBox")
			Expect(found).To(BeFalse())
		})

		It("should spell out attributes inherited from intermediate page tree nodes", func() {
			nested := filepath.Join(testDir, "nested.pdf")
			Expect(testutil.WriteNestedTreePDF(nested, 100, 400)).To(Succeed())

			result, err := splitter.Split(ctx, nested, optionsWithPages(4))
			Expect(err).NotTo(HaveOccurred())
			expectBoxesMatch(result.Source, models.Box{URX: 100, URY: 400})

			pdfCtx, err := api.ReadContextFile(result.OutputPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(pdfCtx.EnsurePageCount()).To(Succeed())
			Expect(pdfCtx.PageCount).To(Equal(4))

			for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
				pageDict, _, _, err := pdfCtx.PageDict(pageNr, false)
				Expect(err).NotTo(HaveOccurred())

				_, found := pageDict.Find("Resources")
				Expect(found).To(BeTrue(), "page %d has no resources", pageNr)

				rotate := pageDict.IntEntry("Rotate")
				Expect(rotate).NotTo(BeNil(), "page %d has no rotation", pageNr)
				Expect(*rotate).To(Equal(90))
			}

			pages, err := pdf.InspectFile(result.OutputPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(pages).To(HaveLen(4))
			for i, page := range pages {
				top := 400 - 100*float64(i)
				expectBoxesMatch(page.MediaBox, models.Box{LLY: top - 100, URX: 100, URY: top})
			}
		})

		It("should point outline entries for the source page at the first output page", func() {
			bookmarked := filepath.Join(testDir, "bookmarked.pdf")
			Expect(testutil.WriteBookmarkedPDF(bookmarked, 300, 900)).To(Succeed())

			result, err := splitter.Split(ctx, bookmarked, optionsWithPages(3))
			Expect(err).NotTo(HaveOccurred())

			pdfCtx, err := api.ReadContextFile(result.OutputPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(pdfCtx.EnsurePageCount()).To(Succeed())

			_, firstPageRef, _, err := pdfCtx.PageDict(1, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(firstPageRef).NotTo(BeNil())

			catalog, err := pdfCtx.Catalog()
			Expect(err).NotTo(HaveOccurred())
			outlinesRef := catalog.IndirectRefEntry("Outlines")
			Expect(outlinesRef).NotTo(BeNil())
			outlines, err := pdfCtx.DereferenceDict(*outlinesRef)
			Expect(err).NotTo(HaveOccurred())

			itemRef := outlines.IndirectRefEntry("First")
			Expect(itemRef).NotTo(BeNil())
			item, err := pdfCtx.DereferenceDict(*itemRef)
			Expect(err).NotTo(HaveOccurred())

			dest, err := pdfCtx.DereferenceArray(item["Dest"])
			Expect(err).NotTo(HaveOccurred())
			Expect(dest).NotTo(BeEmpty())
			destRef, ok := dest[0].(types.IndirectRef)
			Expect(ok).To(BeTrue())
			Expect(destRef.ObjectNumber).To(Equal(firstPageRef.ObjectNumber))
		})
	})

	Context("when choosing the output path", func() {
		It("should write to an explicit path, creating missing directories", func() {
			opts := optionsWithPages(2)
			opts.OutputPath = filepath.Join(testDir, "nested", "out", "pages.pdf")

			result, err := splitter.Split(ctx, inputPath, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.OutputPath).To(Equal(opts.OutputPath))
			Expect(opts.OutputPath).To(BeAnExistingFile())
		})

		It("should honour a custom suffix", func() {
			opts := optionsWithPages(2)
			opts.OutputSuffix = "_pages"

			result, err := splitter.Split(ctx, inputPath, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Base(result.OutputPath)).To(Equal("chat_pages.pdf"))
		})

		It("should overwrite an existing output file and leave no temporary files", func() {
			outputPath := filepath.Join(testDir, "chat_split.pdf")
			Expect(os.WriteFile(outputPath, []byte("stale"), 0644)).To(Succeed())

			_, err := splitter.Split(ctx, inputPath, optionsWithPages(2))
			Expect(err).NotTo(HaveOccurred())

			pages, err := pdf.InspectFile(outputPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(pages).To(HaveLen(2))

			entries, err := os.ReadDir(testDir)
			Expect(err).NotTo(HaveOccurred())
			var names []string
			for _, e := range entries {
				names = append(names, e.Name())
			}
			Expect(names).To(ConsistOf("chat.pdf", "chat_split.pdf"))
		})

		It("should report a write failure and clean up when the output path is a directory", func() {
			outputPath := filepath.Join(testDir, "outdir")
			Expect(os.Mkdir(outputPath, 0755)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(outputPath, "keep.txt"), []byte("keep"), 0644)).To(Succeed())

			opts := optionsWithPages(2)
			opts.OutputPath = outputPath

			_, err := splitter.Split(ctx, inputPath, opts)
			Expect(err).To(MatchError(pdf.ErrOutputWrite))
			Expect(err).NotTo(MatchError(pdf.ErrOutputPermission))
			Expect(outputPath).To(BeADirectory())
			Expect(filepath.Join(outputPath, "keep.txt")).To(BeAnExistingFile())

			leftovers, err := filepath.Glob(filepath.Join(testDir, ".*.tmp"))
			Expect(err).NotTo(HaveOccurred())
			Expect(leftovers).To(BeEmpty())
		})

		It("should report a permission error for a read-only directory", func() {
			if os.Geteuid() == 0 {
				Skip("permission checks do not apply to root")
			}

			readOnly := filepath.Join(testDir, "readonly")
			Expect(os.Mkdir(readOnly, 0555)).To(Succeed())
			DeferCleanup(os.Chmod, readOnly, os.FileMode(0755))

			opts := optionsWithPages(2)
			opts.OutputPath = filepath.Join(readOnly, "out.pdf")

			_, err := splitter.Split(ctx, inputPath, opts)
			Expect(err).To(MatchError(pdf.ErrOutputPermission))
			Expect(err.Error()).To(ContainSubstring("check file permissions"))
			Expect(opts.OutputPath).NotTo(BeAnExistingFile())
		})
	})

	Context("when some sections fail", func() {
		It("should skip the failing sections and keep the rest", func() {
			pdf.InjectSectionFailures(splitter, func(band models.Band) error {
				if band.Index == 1 {
					return errors.New("malformed section")
				}
				return nil
			})

			result, err := splitter.Split(ctx, inputPath, optionsWithPages(3))
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Outcomes).To(HaveLen(3))
			Expect(result.Outcomes[1].Err).To(MatchError("malformed section"))
			Expect(result.Skipped()).To(HaveLen(1))
			Expect(result.PagesWritten).To(Equal(2))

			pages, err := pdf.InspectFile(result.OutputPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(pages).To(HaveLen(2))
			expectBoxesMatch(pages[0].MediaBox, models.Box{LLY: 600, URX: 300, URY: 900})
			expectBoxesMatch(pages[1].MediaBox, models.Box{LLY: 0, URX: 300, URY: 300})
		})

		It("should fail without writing when every section fails", func() {
			pdf.InjectSectionFailures(splitter, func(band models.Band) error {
				return fmt.Errorf("section %d unavailable", band.Index)
			})

			_, err := splitter.Split(ctx, inputPath, optionsWithPages(2))
			Expect(err).To(MatchError(pdf.ErrNoPagesAssembled))
			Expect(filepath.Join(testDir, "chat_split.pdf")).NotTo(BeAnExistingFile())
		})
	})

	Context("when the input is rejected", func() {
		It("should report a missing input file", func() {
			missing := filepath.Join(testDir, "missing.pdf")
			_, err := splitter.Split(ctx, missing, optionsWithPages(2))
			Expect(err).To(MatchError(pdf.ErrInputNotFound))
			Expect(err.Error()).To(ContainSubstring(missing))
		})

		It("should reject a document with more than one page", func() {
			twoPages := filepath.Join(testDir, "two.pdf")
			Expect(testutil.WriteTallPDF(twoPages, 300, 900, 2)).To(Succeed())

			_, err := splitter.Split(ctx, twoPages, optionsWithPages(2))
			Expect(err).To(MatchError(pdf.ErrUnsupportedPageCount))

			var countErr *pdf.PageCountError
			Expect(errors.As(err, &countErr)).To(BeTrue())
			Expect(countErr.Count).To(Equal(2))
			Expect(err.Error()).To(ContainSubstring("has 2 pages"))

			Expect(filepath.Join(testDir, "two_split.pdf")).NotTo(BeAnExistingFile())
		})

		It("should reject a file that is not a PDF", func() {
			garbage := filepath.Join(testDir, "garbage.pdf")
			Expect(os.WriteFile(garbage, []byte("not a pdf at all"), 0644)).To(Succeed())

			_, err := splitter.Split(ctx, garbage, optionsWithPages(2))
			Expect(err).To(MatchError(pdf.ErrInvalidPDF))
		})

		DescribeTable("invalid page counts",
			func(pages, maxPages int) {
				opts := optionsWithPages(pages)
				opts.MaxPages = maxPages

				_, err := splitter.Split(ctx, inputPath, opts)
				Expect(err).To(MatchError(pdf.ErrInvalidPageCount))
				Expect(filepath.Join(testDir, "chat_split.pdf")).NotTo(BeAnExistingFile())
			},
			Entry("zero", 0, 100),
			Entry("negative", -2, 100),
			Entry("above the maximum", 101, 100),
		)
	})
})
