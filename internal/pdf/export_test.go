package pdf

import (
	"github.com/kpauljoseph/pdfslice/pkg/models"
)

// InjectSectionFailures makes s fail every band for which fail returns an error,
// before the band reaches the real page tree.
func InjectSectionFailures(s *Splitter, fail func(band models.Band) error) {
	base := s.newSink
	s.newSink = func(src *Source, setCropBox bool) (committingSink, error) {
		sink, err := base(src, setCropBox)
		if err != nil {
			return nil, err
		}
		return &faultySink{committingSink: sink, fail: fail}, nil
	}
}

type faultySink struct {
	committingSink
	fail func(band models.Band) error
}

func (f *faultySink) AddBandPage(band models.Band) error {
	if err := f.fail(band); err != nil {
		return err
	}
	return f.committingSink.AddBandPage(band)
}
