// Package stats tracks wall-clock timing for the named phases of a run,
// plus a few counters and memory figures captured when the run finishes.
package stats

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Phase is the timing of one named step.
type Phase struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Duration returns the time spent in the phase, or 0 if it has not ended.
func (p Phase) Duration() time.Duration {
	if p.End.IsZero() {
		return 0
	}
	return p.End.Sub(p.Start)
}

// Stats holds performance metrics for a single run.
type Stats struct {
	phases []Phase

	// Counts
	FilesScanned int
	FilesCopied  int
	BytesCopied  int64
	LinksFound   int
	Ignored      int

	// Memory stats (captured by Finish)
	HeapAlloc    uint64
	TotalAlloc   uint64
	NumGC        uint32
	NumGoroutine int

	now func() time.Time
}

// New creates a new Stats instance.
func New() *Stats {
	return &Stats{now: time.Now}
}

// Start marks the beginning of a phase. Starting a phase that already
// exists restarts it.
func (s *Stats) Start(name string) {
	if i := s.index(name); i >= 0 {
		s.phases[i] = Phase{Name: name, Start: s.now()}
		return
	}
	s.phases = append(s.phases, Phase{Name: name, Start: s.now()})
}

// End marks the end of a phase. Ending an unknown phase is a no-op.
func (s *Stats) End(name string) {
	if i := s.index(name); i >= 0 {
		s.phases[i].End = s.now()
	}
}

// Track runs fn as the named phase.
func (s *Stats) Track(name string, fn func() error) error {
	s.Start(name)
	defer s.End(name)
	return fn()
}

// Finish captures memory statistics from the runtime.
func (s *Stats) Finish() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	s.HeapAlloc = m.HeapAlloc
	s.TotalAlloc = m.TotalAlloc
	s.NumGC = m.NumGC
	s.NumGoroutine = runtime.NumGoroutine()
}

// Phases returns the recorded phases in start order.
func (s *Stats) Phases() []Phase {
	out := make([]Phase, len(s.phases))
	copy(out, s.phases)
	return out
}

// Phase returns the named phase.
func (s *Stats) Phase(name string) (Phase, bool) {
	if i := s.index(name); i >= 0 {
		return s.phases[i], true
	}
	return Phase{}, false
}

// TotalDuration spans from the first phase start to the last phase end.
func (s *Stats) TotalDuration() time.Duration {
	if len(s.phases) == 0 {
		return 0
	}
	first := s.phases[0].Start
	var last time.Time
	for _, p := range s.phases {
		if p.End.After(last) {
			last = p.End
		}
	}
	if last.IsZero() {
		return 0
	}
	return last.Sub(first)
}

func (s *Stats) index(name string) int {
	for i, p := range s.phases {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%.1fs", int(d.Minutes()), d.Seconds()-float64(int(d.Minutes())*60))
}

// FormatBytes formats bytes for human-readable display.
func FormatBytes(bytes uint64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)

	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/gb)
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/mb)
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/kb)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// String renders one "[phase] cost 0.000123s" line per phase followed by
// a "[total]" line and the non-zero counters.
func (s *Stats) String() string {
	var b strings.Builder

	for _, p := range s.phases {
		fmt.Fprintf(&b, "[%s] cost %fs\n", p.Name, p.Duration().Seconds())
	}
	fmt.Fprintf(&b, "[total] cost %fs\n", s.TotalDuration().Seconds())

	if s.FilesScanned > 0 {
		fmt.Fprintf(&b, "  files scanned: %d\n", s.FilesScanned)
	}
	if s.FilesCopied > 0 {
		fmt.Fprintf(&b, "  files copied:  %d (%s)\n", s.FilesCopied, FormatBytes(uint64(s.BytesCopied)))
	}
	if s.LinksFound > 0 {
		fmt.Fprintf(&b, "  links found:   %d\n", s.LinksFound)
	}
	if s.Ignored > 0 {
		fmt.Fprintf(&b, "  ignored:       %d\n", s.Ignored)
	}
	if s.HeapAlloc > 0 {
		fmt.Fprintf(&b, "  heap in use:   %s\n", FormatBytes(s.HeapAlloc))
	}

	return b.String()
}
