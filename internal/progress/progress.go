package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Indicator is advanced by the number of bytes of every received chunk.
type Indicator interface {
	Add(n int) error
	Close() error
}

// Factory creates an Indicator for a download of total bytes.
type Factory func(total int64, label string) Indicator

// NewBarFactory returns a Factory drawing byte progress bars on w.
func NewBarFactory(w io.Writer) Factory {
	return func(total int64, label string) Indicator {
		if total <= 0 {
			total = -1
		}
		return progressbar.NewOptions64(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(label),
			progressbar.OptionShowBytes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprint(w, "\n")
			}),
		)
	}
}

// Discard returns a Factory whose indicators do nothing.
func Discard() Factory {
	return func(int64, string) Indicator {
		return nopIndicator{}
	}
}

type nopIndicator struct{}

func (nopIndicator) Add(int) error { return nil }
func (nopIndicator) Close() error  { return nil }
