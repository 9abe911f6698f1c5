package tui

// inputHistory recalls previously entered actions for Up/Down
// navigation. A bounded slice, newest last; old entries fall off the
// front.
type inputHistory struct {
	lines  []string
	limit  int
	cursor int // -1 when not recalling, otherwise an index into lines
}

func newInputHistory(limit int) *inputHistory {
	return &inputHistory{
		lines:  make([]string, 0, limit),
		limit:  limit,
		cursor: -1,
	}
}

// Remember records one entered line. Immediate repeats are skipped.
func (h *inputHistory) Remember(line string) {
	if len(h.lines) > 0 && h.lines[len(h.lines)-1] == line {
		return
	}
	h.lines = append(h.lines, line)
	if len(h.lines) > h.limit {
		h.lines = h.lines[1:]
	}
}

// Older steps the cursor toward the oldest line and returns the recalled
// entry, or ("", false) when nothing has been entered yet.
func (h *inputHistory) Older() (string, bool) {
	if len(h.lines) == 0 {
		return "", false
	}
	if h.cursor == -1 {
		h.cursor = len(h.lines) - 1
	} else if h.cursor > 0 {
		h.cursor--
	}
	return h.lines[h.cursor], true
}

// Newer steps the cursor toward the newest line; stepping past it
// returns ("", false) and leaves recall mode for fresh input.
func (h *inputHistory) Newer() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.lines) {
		h.cursor = -1
		return "", false
	}
	return h.lines[h.cursor], true
}

// Reset leaves recall mode without touching the recorded lines.
func (h *inputHistory) Reset() {
	h.cursor = -1
}
