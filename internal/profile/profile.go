// Package profile times glue operations and host round trips.
//
// A Profiler is started and stopped with a key per operation
// ("host.GetProperty", "Plugin::Call(greet)", ...). The Recorder keeps a
// per-key call count and total duration and, when given a histogram,
// reports every measurement to Prometheus.
package profile

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Profiler receives start/stop events keyed by operation name
type Profiler interface {
	Start(key string)
	Stop(key string)
	Reset()
	String() string
}

// Nop discards everything
type Nop struct{}

func (Nop) Start(string)   {}
func (Nop) Stop(string)    {}
func (Nop) Reset()         {}
func (Nop) String() string { return "" }

// Stat is the accumulated timing for one key
type Stat struct {
	Key   string
	Calls int
	Total time.Duration
}

// Recorder accumulates timings per key
type Recorder struct {
	mu    sync.Mutex
	open  map[string][]time.Time
	stats map[string]*Stat
	hist  *prometheus.HistogramVec
	now   func() time.Time
}

// NewRecorder creates a recorder. hist may be nil; when set it must have
// a single "key" label.
func NewRecorder(hist *prometheus.HistogramVec) *Recorder {
	return &Recorder{
		open:  make(map[string][]time.Time),
		stats: make(map[string]*Stat),
		hist:  hist,
		now:   time.Now,
	}
}

// Start opens a measurement for key. Nested starts of the same key are
// matched last-in first-out.
func (r *Recorder) Start(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.open[key] = append(r.open[key], r.now())
}

// Stop closes the most recent measurement for key. A stop without a
// matching start is ignored.
func (r *Recorder) Stop(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	starts := r.open[key]
	if len(starts) == 0 {
		return
	}
	began := starts[len(starts)-1]
	if len(starts) == 1 {
		delete(r.open, key)
	} else {
		r.open[key] = starts[:len(starts)-1]
	}

	elapsed := r.now().Sub(began)
	st, ok := r.stats[key]
	if !ok {
		st = &Stat{Key: key}
		r.stats[key] = st
	}
	st.Calls++
	st.Total += elapsed

	if r.hist != nil {
		r.hist.WithLabelValues(key).Observe(elapsed.Seconds())
	}
}

// Reset forgets every measurement
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.open = make(map[string][]time.Time)
	r.stats = make(map[string]*Stat)
}

// Stats returns a snapshot sorted by key
func (r *Recorder) Stats() []Stat {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Stat, 0, len(r.stats))
	for _, st := range r.stats {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// String renders one line per key: "key: calls total"
func (r *Recorder) String() string {
	var sb strings.Builder
	for _, st := range r.Stats() {
		fmt.Fprintf(&sb, "%s: %d %s\n", st.Key, st.Calls, st.Total)
	}
	return sb.String()
}

// Scoped is a measurement that stops once, either explicitly or when the
// enclosing function returns.
type Scoped struct {
	p       Profiler
	key     string
	stopped bool
}

// Scope starts key on p and returns the handle that stops it
func Scope(p Profiler, key string) *Scoped {
	p.Start(key)
	return &Scoped{p: p, key: key}
}

// Stop ends the measurement; later calls do nothing
func (s *Scoped) Stop() {
	if s.stopped {
		return
	}
	s.stopped = true
	s.p.Stop(s.key)
}
