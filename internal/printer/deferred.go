package printer

import (
	"io"
	"sync"
)

// Deferred holds printer output while a full-screen program owns the
// terminal. Flush replays it to the real streams in the order it was
// written. Safe for concurrent use.
type Deferred struct {
	mu      sync.Mutex
	entries []entry
}

type entry struct {
	toErr bool
	data  []byte
}

type deferredStream struct {
	d     *Deferred
	toErr bool
}

func (s deferredStream) Write(p []byte) (int, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	s.d.entries = append(s.d.entries, entry{toErr: s.toErr, data: append([]byte(nil), p...)})
	return len(p), nil
}

// Printer returns a Printer whose output is held until Flush.
func (d *Deferred) Printer() *Printer {
	return New(deferredStream{d: d}, deferredStream{d: d, toErr: true})
}

// Flush writes held output to out and err and clears it.
func (d *Deferred) Flush(out, err io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	entries := d.entries
	d.entries = nil

	for _, e := range entries {
		w := out
		if e.toErr {
			w = err
		}
		if _, werr := w.Write(e.data); werr != nil {
			return werr
		}
	}
	return nil
}
