package progress

import (
	"fmt"
	"io"
	"sync"
)

// Reporter receives progress messages
type Reporter interface {
	Report(msg string)
}

// Func adapts a plain function to Reporter.
type Func func(msg string)

func (f Func) Report(msg string) {
	f(msg)
}

// Discard drops every message.
var Discard Reporter = Func(func(string) {})

// WriterReporter prints each message on its own line
type WriterReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a reporter that writes to w.
func NewWriter(w io.Writer) *WriterReporter {
	return &WriterReporter{w: w}
}

func (r *WriterReporter) Report(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, msg)
}

// Recorder keeps every message in memory
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *Recorder) Report(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}

// Multi fans a message out to several reporters in order.
func Multi(reporters ...Reporter) Reporter {
	return Func(func(msg string) {
		for _, r := range reporters {
			if r != nil {
				r.Report(msg)
			}
		}
	})
}
