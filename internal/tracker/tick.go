package tracker

import (
	"errors"
	"fmt"

	"github.com/sandeepkv93/streakd/internal/model"
	"github.com/sandeepkv93/streakd/internal/notify"
	"github.com/sandeepkv93/streakd/internal/scheduler"
)

// Tick runs one reminder pass for the current minute. It is safe to call on
// every heartbeat; passes within the same minute do nothing.
func (t *Tracker) Tick() (scheduler.Result, bool) {
	now := t.sampler.Sample()

	t.mu.Lock()
	snap := scheduler.Snapshot{
		Items: t.doc.Items(),
		Today: t.doc.Log.Day(t.sampler.Today()),
		Quiet: t.doc.Settings.QuietWindow,
	}
	res, ok := t.evaluator.Tick(now, snap)
	if !ok || len(res.Triggers) == 0 {
		t.mu.Unlock()
		return res, ok
	}
	if res.Quiet {
		t.mu.Unlock()
		for _, tr := range res.Triggers {
			t.logger.Debug("reminder suppressed by quiet window",
				"item_id", tr.Ref.ID, "kind", tr.Ref.Kind, "trigger", tr.Kind, "minute", tr.Minute)
		}
		return res, ok
	}

	for _, tr := range res.Triggers {
		if tr.IsAlarm() {
			t.alarm = &Alarm{TriggerID: tr.ID, Ref: tr.Ref, Name: tr.Name, Minute: tr.Minute}
		} else {
			t.setToast("Reminder: " + tr.Name)
		}
	}
	sound := t.doc.Settings.Sound
	t.mu.Unlock()

	if sound {
		if cue, _ := res.Cue(); cue == scheduler.TriggerAlarm {
			t.player.PlayAlarm()
		} else {
			t.player.PlayChime()
		}
	}
	for _, tr := range res.Triggers {
		t.logger.Info("reminder fired",
			"item_id", tr.Ref.ID, "kind", tr.Ref.Kind, "trigger", tr.Kind, "minute", tr.Minute)
		t.deliver(tr)
	}
	return res, ok
}

func (t *Tracker) deliver(tr scheduler.Trigger) {
	req := notify.Request{
		TriggerID: tr.ID,
		Title:     notificationTitle(tr),
		Body:      fmt.Sprintf("%s (%s)", tr.Name, model.FormatClockTime(tr.Minute)),
		IsAlarm:   tr.IsAlarm(),
		Ref:       tr.Ref,
	}
	ctx := t.ctx
	t.dispatch(func() {
		t.deliveryResult(tr, t.notifier.Notify(ctx, req))
	})
}

func (t *Tracker) deliveryResult(tr scheduler.Trigger, err error) {
	switch {
	case err == nil:
	case errors.Is(err, notify.ErrUnsupported):
		t.logger.Debug("desktop notifications unsupported", "item_id", tr.Ref.ID)
	case errors.Is(err, notify.ErrPermissionDenied):
		t.mu.Lock()
		if !t.deniedReported {
			t.deniedReported = true
			t.setToast(permissionToast)
		}
		t.mu.Unlock()
		t.logger.Warn("notification permission denied", "item_id", tr.Ref.ID, "error", err)
	default:
		t.logger.Warn("notification delivery failed", "item_id", tr.Ref.ID, "kind", tr.Ref.Kind, "error", err)
	}
}

func notificationTitle(tr scheduler.Trigger) string {
	if tr.IsAlarm() {
		return "Alarm"
	}
	return "Reminder"
}
