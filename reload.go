package main

import "strings"

// scrollTarget picks the line the viewport should jump to after a
// reload: the first index where old and new content diverge. When the
// shared prefix is identical, an appended or truncated tail scrolls to
// the new end and unchanged content keeps the current offset. firstLoad
// means no previous content exists; a render that produced nothing
// counts the same as never having rendered, and the next content starts
// at the top.
func scrollTarget(oldLines, newLines []string, offset int, firstLoad bool) int {
	n := min(len(oldLines), len(newLines))
	for i := 0; i < n; i++ {
		if oldLines[i] != newLines[i] {
			return i
		}
	}

	switch {
	case firstLoad:
		return 0
	case len(oldLines) != len(newLines):
		return len(newLines)
	default:
		return offset
	}
}

// clampOffset keeps y inside the scrollable range: never negative, zero
// when the whole buffer fits in the viewport, and at most one full page
// above the end otherwise.
func clampOffset(y, nlines, height int) int {
	if y < 0 || height <= 0 || nlines <= height {
		return 0
	}
	if y > nlines-height {
		return nlines - height
	}
	return y
}

// displayContent strips line terminators for the viewport. The raw
// lines, terminators included, remain the units the diff compares.
func displayContent(lines []string) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = strings.TrimRight(line, "\r\n")
	}
	return strings.Join(out, "\n")
}

// reload re-renders the watched file and repositions the viewport on
// the first changed line. RenderErrors propagate to the caller; the
// buffer and offset are left untouched in that case.
func (m *Model) reload() error {
	newLines, err := runRender(m.renderCmd)
	if err != nil {
		return err
	}

	target := scrollTarget(m.lines, newLines, m.vp.YOffset, len(m.lines) == 0)
	m.lines = newLines
	m.vp.SetContent(displayContent(newLines))
	m.setOffset(target)
	return nil
}

// setOffset applies the clamping rule and moves the viewport.
func (m *Model) setOffset(y int) {
	m.vp.SetYOffset(clampOffset(y, len(m.lines), m.vp.Height))
}
