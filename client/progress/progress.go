// Package progress tracks byte-level transfer progress for uploads and
// downloads.
package progress

import (
	"io"
	"math"
)

// Event is a single progress tick.
type Event struct {
	Percent int
	Loaded  int64
	Total   int64
}

// Func receives progress ticks. It runs on the goroutine performing the
// transfer and must not block.
type Func func(Event)

// Percent returns round(loaded/total*100) clamped to [0,100], and false
// when total is not computable.
func Percent(loaded, total int64) (int, bool) {
	if total <= 0 {
		return 0, false
	}

	p := int(math.Round(float64(loaded) / float64(total) * 100))
	switch {
	case p < 0:
		p = 0
	case p > 100:
		p = 100
	}

	return p, true
}

// tracker accumulates transferred bytes and emits an Event per tick.
type tracker struct {
	fn     Func
	loaded int64
	total  int64
}

func (t *tracker) add(n int) {
	if n <= 0 {
		return
	}
	t.loaded += int64(n)

	if t.fn == nil {
		return
	}
	if p, ok := Percent(t.loaded, t.total); ok {
		t.fn(Event{Percent: p, Loaded: t.loaded, Total: t.total})
	}
}

// Reader counts bytes read from r. A non-positive total disables events.
type Reader struct {
	r io.Reader
	tracker
}

// NewReader wraps r, reporting to fn against total.
func NewReader(r io.Reader, total int64, fn Func) *Reader {
	return &Reader{r: r, tracker: tracker{fn: fn, total: total}}
}

func (pr *Reader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	pr.add(n)

	return n, err
}

// Loaded returns the number of bytes read so far.
func (pr *Reader) Loaded() int64 { return pr.loaded }

// Writer counts bytes written through to w. A non-positive total
// disables events.
type Writer struct {
	w io.Writer
	tracker
}

// NewWriter wraps w, reporting to fn against total.
func NewWriter(w io.Writer, total int64, fn Func) *Writer {
	return &Writer{w: w, tracker: tracker{fn: fn, total: total}}
}

func (pw *Writer) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	pw.add(n)

	return n, err
}

// Loaded returns the number of bytes written so far.
func (pw *Writer) Loaded() int64 { return pw.loaded }
