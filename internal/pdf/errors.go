package pdf

import (
	"errors"
	"fmt"
)

var (
	ErrInputNotFound        = errors.New("input file not found")
	ErrInvalidPDF           = errors.New("invalid PDF")
	ErrUnsupportedPageCount = errors.New("unsupported page count")
	ErrInvalidPageCount     = errors.New("invalid page count")
	ErrInvalidSourceBox     = errors.New("invalid source page box")
	ErrNoPagesAssembled     = errors.New("no output pages could be assembled")
	ErrOutputPermission     = errors.New("output permission denied")
	ErrOutputWrite          = errors.New("error writing output file")
)

// PageCountError reports a source document that does not have exactly one page.
type PageCountError struct {
	Path  string
	Count int
}

func (e *PageCountError) Error() string {
	return fmt.Sprintf("this tool is designed for PDFs with a single long page. %s has %d pages", e.Path, e.Count)
}

func (e *PageCountError) Is(target error) bool {
	return target == ErrUnsupportedPageCount
}
