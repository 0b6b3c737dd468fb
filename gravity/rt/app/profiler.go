package app

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// Profiler accumulates per-scope CPU time over a window of frames.
type Profiler struct {
	totals map[string]time.Duration
	starts map[string]time.Time
	counts map[string]int
	order  []string
	frames int
}

func NewProfiler() *Profiler {
	return &Profiler{
		totals: make(map[string]time.Duration),
		starts: make(map[string]time.Time),
		counts: make(map[string]int),
	}
}

func (p *Profiler) BeginScope(name string) {
	p.starts[name] = time.Now()
	if !slices.Contains(p.order, name) {
		p.order = append(p.order, name)
	}
}

func (p *Profiler) EndScope(name string) {
	if start, ok := p.starts[name]; ok {
		p.totals[name] += time.Since(start)
		delete(p.starts, name)
	}
}

func (p *Profiler) SetCount(name string, count int) {
	p.counts[name] = count
}

func (p *Profiler) EndFrame() {
	p.frames++
}

func (p *Profiler) Frames() int { return p.frames }

// Average is the mean time per frame spent in a scope.
func (p *Profiler) Average(name string) time.Duration {
	if p.frames == 0 {
		return 0
	}
	return p.totals[name] / time.Duration(p.frames)
}

// Reset starts a new window; scope order and counters are kept.
func (p *Profiler) Reset() {
	clear(p.totals)
	p.frames = 0
}

// Summary renders the window as one log line.
func (p *Profiler) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "frames=%d", p.frames)
	for _, name := range p.order {
		fmt.Fprintf(&sb, " %s=%.3fms", name, float64(p.Average(name).Microseconds())/1000.0)
	}

	keys := make([]string, 0, len(p.counts))
	for k := range p.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%d", k, p.counts[k])
	}
	return sb.String()
}
