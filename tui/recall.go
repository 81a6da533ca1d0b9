// Package tui provides a Bubble Tea terminal UI for the WarCore engine.
package tui

// recall is a bounded input-history buffer with cursor navigation for
// the up/down keys.
type recall struct {
	lines  []string
	limit  int
	cursor int // len(lines) means not navigating
}

func newRecall(limit int) *recall {
	return &recall{limit: limit, cursor: 0}
}

// push appends an input line, dropping the oldest beyond the limit.
// Consecutive duplicates are skipped.
func (r *recall) push(line string) {
	if n := len(r.lines); n > 0 && r.lines[n-1] == line {
		r.reset()
		return
	}
	r.lines = append(r.lines, line)
	if len(r.lines) > r.limit {
		r.lines = r.lines[1:]
	}
	r.reset()
}

// older steps the cursor toward the oldest line.
func (r *recall) older() (string, bool) {
	if len(r.lines) == 0 {
		return "", false
	}
	if r.cursor > 0 {
		r.cursor--
	}
	return r.lines[r.cursor], true
}

// newer steps the cursor back toward fresh input; the second return is
// false once the cursor leaves history.
func (r *recall) newer() (string, bool) {
	if r.cursor >= len(r.lines) {
		return "", false
	}
	r.cursor++
	if r.cursor == len(r.lines) {
		return "", false
	}
	return r.lines[r.cursor], true
}

// reset parks the cursor at the fresh-input position.
func (r *recall) reset() {
	r.cursor = len(r.lines)
}
