package update

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/streakd/internal/model"
)

func scheduleLabel(s model.Schedule) string {
	var parts []string
	if m, ok := s.ReminderMinute(); ok {
		parts = append(parts, model.FormatClockTime(m))
	}
	if s.HasInterval() {
		parts = append(parts, fmt.Sprintf("/%dm", s.Interval))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func todayLabel(it model.Item, today model.DayLog) string {
	switch v := it.(type) {
	case model.Habit:
		if v.IsNumeric() {
			return fmt.Sprintf("%d/%d", today.Get(v.ID).Count(), v.EffectiveTarget())
		}
		if today.Get(v.ID).Truthy() {
			return "done"
		}
		return "open"
	case model.Task:
		if v.Done {
			return "done"
		}
		return "open"
	default:
		return "?"
	}
}

func categoryName(categories []model.Category, id string) string {
	for _, c := range categories {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}
