package scheduler

import "github.com/sandeepkv93/streakd/internal/model"

// QuietActive reports whether minute falls inside the quiet window. The start
// bound is inclusive and the end bound exclusive; windows with end < start
// wrap across midnight.
func QuietActive(w *model.QuietWindow, minute int) bool {
	start, end, ok := w.Bounds()
	if !ok {
		return false
	}
	if start < end {
		return minute >= start && minute < end
	}
	return minute >= start || minute < end
}
