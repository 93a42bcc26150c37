package views

import (
	"strings"
	"testing"
)

func TestRenderAppIncludesBanner(t *testing.T) {
	out := RenderApp(AppData{
		Header:     "streakd",
		Banner:     RenderAlarmBanner("Stretch", "09:00"),
		LeftPane:   "left",
		RightPane:  "right",
		StatusLine: "status: ok",
	})
	for _, want := range []string{"streakd", "ALARM 09:00", "Stretch", "status: ok"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}
	if RenderAlarmBanner(" ", "09:00") != "" {
		t.Fatal("expected no banner without a name")
	}
}

func TestRenderProgressPanel(t *testing.T) {
	out := RenderProgressPanel(ProgressPanelData{
		Level:       2,
		XP:          50,
		Threshold:   200,
		Quiet:       "23:00-07:00",
		QuietActive: true,
		TopStreaks:  []StreakLine{{Name: "Read", Current: 3, Longest: 5}},
	})
	for _, want := range []string{"level 2  50/200 xp", "quiet hours: 23:00-07:00 (active)", "sound: off", "- Read: 3 (best 5)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}
}

func TestRenderItemDetail(t *testing.T) {
	if got := RenderItemDetail(ItemDetailData{}); !strings.Contains(got, "no selection") {
		t.Fatalf("unexpected empty detail: %q", got)
	}
	out := RenderItemDetail(ItemDetailData{Label: "Call", Kind: "task", Schedule: "10:00", Today: "open", Reward: 5})
	if strings.Contains(out, "streak") {
		t.Fatalf("tasks have no streak line: %q", out)
	}
}

func TestRenderReminderLogAndPalette(t *testing.T) {
	if RenderReminderLog(nil) != "" || RenderCommandPalette(false, "x") != "" {
		t.Fatal("expected empty renders")
	}
	out := RenderReminderLog([]ReminderLine{{At: "09:00", Kind: "alarm", Name: "Stretch"}})
	if !strings.Contains(out, "09:00 [ALARM] Stretch") {
		t.Fatalf("unexpected log: %q", out)
	}
	if RenderCommandPalette(true, "done 3") != "command: /done 3" {
		t.Fatal("unexpected palette render")
	}
}
