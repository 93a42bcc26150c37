// Package clock samples local wall-clock time at minute granularity and
// produces the date keys used by the completion log.
package clock

import "time"

// DateLayout is the completion log key format.
const DateLayout = "2006-01-02"

type Clock interface {
	Now() time.Time
}

type System struct{}

func (System) Now() time.Time { return time.Now() }

// Func adapts a plain function into a Clock. Tests use it to pin time.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// MinuteOfDay returns hour*60+minute of t in its own location.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// PreviousDate returns the calendar day before key.
func PreviousDate(key string) (string, error) {
	d, err := time.Parse(DateLayout, key)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, -1).Format(DateLayout), nil
}

type Sampler struct {
	clock Clock
}

func NewSampler(c Clock) Sampler {
	if c == nil {
		c = System{}
	}
	return Sampler{clock: c}
}

func (s Sampler) Now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

// Sample returns the current local minute of the day in [0,1439].
func (s Sampler) Sample() int {
	return MinuteOfDay(s.Now())
}

func (s Sampler) Today() string {
	return DateKey(s.Now())
}

func (s Sampler) Yesterday() string {
	return DateKey(s.Now().AddDate(0, 0, -1))
}
