// Package streak derives consecutive-day completion runs from the sparse
// completion log. Nothing is cached; callers recompute on every render.
package streak

import (
	"time"

	"github.com/sandeepkv93/streakd/internal/clock"
	"github.com/sandeepkv93/streakd/internal/model"
)

// Count returns the current streak for id as of today (YYYY-MM-DD). Today
// counts when already completed; the run then extends back from yesterday
// until the first day without a completion. An unfinished today does not
// break a streak that ran through yesterday.
func Count(log model.Log, id int64, today string) int {
	day, err := time.Parse(clock.DateLayout, today)
	if err != nil {
		return 0
	}
	n := 0
	if log.Get(today, id).Truthy() {
		n++
	}
	for d := day.AddDate(0, 0, -1); log.Get(d.Format(clock.DateLayout), id).Truthy(); d = d.AddDate(0, 0, -1) {
		n++
	}
	return n
}

// Longest returns the longest run of consecutive completed days for id.
func Longest(log model.Log, id int64) int {
	best, run := 0, 0
	var prev time.Time
	for _, key := range log.Dates() {
		if !log.Get(key, id).Truthy() {
			continue
		}
		d, err := time.Parse(clock.DateLayout, key)
		if err != nil {
			continue
		}
		if run > 0 && prev.AddDate(0, 0, 1).Equal(d) {
			run++
		} else {
			run = 1
		}
		prev = d
		if run > best {
			best = run
		}
	}
	return best
}
