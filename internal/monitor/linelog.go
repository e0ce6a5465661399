package monitor

import (
	"strings"
	"sync"
)

const (
	// lineLogMax caps the retained diagnostic lines; lineLogEvict is how many
	// of the oldest lines are dropped in one go when the cap is exceeded, so
	// eviction happens in batches instead of on every append.
	lineLogMax   = 500
	lineLogEvict = 100
)

// lineLogKeywords selects which raw lines are worth keeping in the diagnostic
// feed. Everything else on the wire is spam at ~2 Hz.
var lineLogKeywords = []string{
	"Presence:", "GATES_", "Version:", "Max gate:", "Motion:", "Stationary:",
}

// LineLog is the filtered raw-line diagnostic feed backing the log panel.
// Safe for concurrent use.
type LineLog struct {
	mu    sync.Mutex
	lines []string
}

// NewLineLog creates an empty diagnostic feed.
func NewLineLog() *LineLog {
	return &LineLog{}
}

// Admitted reports whether the line passes the diagnostic filter.
func Admitted(line string) bool {
	for _, k := range lineLogKeywords {
		if strings.Contains(line, k) {
			return true
		}
	}
	return false
}

// Observe appends the line if it passes the filter and reports whether it was
// kept. When the feed exceeds its cap the oldest batch of lines is evicted.
func (l *LineLog) Observe(line string) bool {
	if !Admitted(line) {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line)
	if len(l.lines) > lineLogMax {
		l.lines = append(l.lines[:0], l.lines[lineLogEvict:]...)
	}
	return true
}

// Lines returns the retained lines oldest-first.
func (l *LineLog) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Clear empties the feed.
func (l *LineLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = nil
}
