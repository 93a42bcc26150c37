package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const MinutesPerDay = 24 * 60

var (
	ErrInvalidClockTime = errors.New("model: invalid clock time")
	ErrInvalidInterval  = errors.New("model: invalid reminder interval")
)

// ParseClockTime converts "HH:MM" into a minute of the day.
func ParseClockTime(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, raw)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, raw)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, raw)
	}
	return h*60 + m, nil
}

func FormatClockTime(minute int) string {
	minute = ((minute % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// Schedule is the reminder configuration shared by habits and tasks. Either
// field may be empty; with both empty the item never triggers.
type Schedule struct {
	ReminderTime string
	Interval     int
}

// ReminderMinute reports the fixed daily reminder as a minute of the day.
func (s Schedule) ReminderMinute() (int, bool) {
	if strings.TrimSpace(s.ReminderTime) == "" {
		return 0, false
	}
	m, err := ParseClockTime(s.ReminderTime)
	if err != nil {
		return 0, false
	}
	return m, true
}

func (s Schedule) HasInterval() bool {
	return s.Interval > 0
}

func (s Schedule) IsInert() bool {
	_, fixed := s.ReminderMinute()
	return !fixed && !s.HasInterval()
}

func (s Schedule) Validate() error {
	if strings.TrimSpace(s.ReminderTime) != "" {
		if _, err := ParseClockTime(s.ReminderTime); err != nil {
			return err
		}
	}
	if s.Interval < 0 || s.Interval > MinutesPerDay {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, s.Interval)
	}
	return nil
}

// QuietWindow silences reminders between Start and End. A window whose end
// is before its start wraps across midnight.
type QuietWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Bounds returns the window as minutes of the day. ok is false when the
// window is unset, incomplete, unparsable or empty (start == end).
func (w *QuietWindow) Bounds() (start, end int, ok bool) {
	if w == nil || strings.TrimSpace(w.Start) == "" || strings.TrimSpace(w.End) == "" {
		return 0, 0, false
	}
	s, err := ParseClockTime(w.Start)
	if err != nil {
		return 0, 0, false
	}
	e, err := ParseClockTime(w.End)
	if err != nil {
		return 0, 0, false
	}
	if s == e {
		return 0, 0, false
	}
	return s, e, true
}

func (w *QuietWindow) Validate() error {
	if w == nil {
		return nil
	}
	if _, err := ParseClockTime(w.Start); err != nil {
		return fmt.Errorf("quiet window start: %w", err)
	}
	if _, err := ParseClockTime(w.End); err != nil {
		return fmt.Errorf("quiet window end: %w", err)
	}
	return nil
}
