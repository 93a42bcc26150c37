package leveling

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sandeepkv93/streakd/internal/model"
)

func TestApplyDeltaCarriesOverflow(t *testing.T) {
	got := ApplyDelta(model.Progress{XP: 0, Level: 1}, 250)
	assert.Equal(t, model.Progress{XP: 150, Level: 2}, got)

	got = ApplyDelta(model.Progress{XP: 0, Level: 1}, 300)
	assert.Equal(t, model.Progress{XP: 0, Level: 3}, got)

	got = ApplyDelta(model.Progress{XP: 90, Level: 1}, 10)
	assert.Equal(t, model.Progress{XP: 0, Level: 2}, got)
}

func TestApplyDeltaClampsWithoutLevelLoss(t *testing.T) {
	got := ApplyDelta(model.Progress{XP: 30, Level: 2}, -50)
	assert.Equal(t, model.Progress{XP: 0, Level: 2}, got)

	got = ApplyDelta(model.Progress{XP: 30, Level: 2}, -20)
	assert.Equal(t, model.Progress{XP: 10, Level: 2}, got)
}

func TestApplyDeltaKeepsInvariant(t *testing.T) {
	p := model.NewProgress()
	for _, d := range []int{5, 95, -400, 1000, 3, -1, 250, 0} {
		p = ApplyDelta(p, d)
		assert.GreaterOrEqual(t, p.Level, 1)
		assert.GreaterOrEqual(t, p.XP, 0)
		assert.Less(t, p.XP, Threshold(p.Level))
	}
}

func TestNumericIncrementsApplyOncePerAction(t *testing.T) {
	h := model.Habit{ID: 1, Kind: model.CompletionNumeric, Target: 10, XP: 2}
	p := model.NewProgress()
	p = ApplyDelta(p, h.XP*6)
	p = ApplyDelta(p, h.XP*5)
	assert.Equal(t, model.Progress{XP: 22, Level: 1}, p)
}

func TestNormalizeRepairsBrokenProgress(t *testing.T) {
	assert.Equal(t, model.Progress{XP: 0, Level: 1}, Normalize(model.Progress{XP: -5, Level: 0}))
	assert.Equal(t, model.Progress{XP: 50, Level: 2}, Normalize(model.Progress{XP: 150, Level: 1}))
}

func TestRecalculateReplaysLog(t *testing.T) {
	habits := []model.Habit{
		{ID: 1, Kind: model.CompletionBoolean, XP: 10},
		{ID: 2, Kind: model.CompletionNumeric, Target: 8, XP: 3, Deleted: true},
	}
	tasks := []model.Task{
		{ID: 3, Done: true, XP: 40},
		{ID: 4, Done: false, XP: 500},
	}
	log := model.Log{}
	log.Set("2024-01-01", 1, model.BoolValue(true))
	log.Set("2024-01-02", 1, model.BoolValue(false))
	log.Set("2024-01-02", 2, model.CountValue(5))
	log.Set("2024-01-03", 1, model.BoolValue(true))
	log.Set("2024-01-03", 99, model.BoolValue(true))

	// 10 + 15 + 10 + 40 = 75
	assert.Equal(t, model.Progress{XP: 75, Level: 1}, Recalculate(habits, tasks, log))

	habits[0].XP = 100
	// 100 + 15 + 100 + 40 = 255 -> level 2 with 155
	assert.Equal(t, model.Progress{XP: 155, Level: 2}, Recalculate(habits, tasks, log))
}

func TestAddXPSaturates(t *testing.T) {
	assert.Equal(t, math.MaxInt, addXP(math.MaxInt-1, 5))
	assert.Equal(t, 7, addXP(2, 5))
	assert.Equal(t, -3, addXP(2, -5))
}
