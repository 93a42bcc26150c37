package model

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestValueJSON(t *testing.T) {
	var day DayLog
	if err := json.Unmarshal([]byte(`{"1": true, "2": 7, "3": false}`), &day); err != nil {
		t.Fatalf("unmarshal day: %v", err)
	}
	if !day.Get(1).Truthy() || day.Get(1).IsNumeric() {
		t.Fatalf("unexpected boolean value: %v", day.Get(1))
	}
	if day.Get(2).Count() != 7 || !day.Get(2).IsNumeric() {
		t.Fatalf("unexpected numeric value: %v", day.Get(2))
	}
	if day.Get(3).Truthy() || day.Get(99).Truthy() {
		t.Fatal("false and missing entries must not be truthy")
	}

	var v Value
	if err := json.Unmarshal([]byte(`-2`), &v); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for negative count, got %v", err)
	}
	if err := json.Unmarshal([]byte(`"yes"`), &v); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for string, got %v", err)
	}
}

func TestIsCompleteToday(t *testing.T) {
	today := DayLog{1: BoolValue(true), 2: CountValue(9), 3: CountValue(10)}
	cases := []struct {
		name string
		item Item
		want bool
	}{
		{"boolean done", Habit{ID: 1, Kind: CompletionBoolean}, true},
		{"numeric below target", Habit{ID: 2, Kind: CompletionNumeric, Target: 10}, false},
		{"numeric at target", Habit{ID: 3, Kind: CompletionNumeric, Target: 10}, true},
		{"boolean missing", Habit{ID: 4, Kind: CompletionBoolean}, false},
		{"task open", Task{ID: 5}, false},
		{"task done", Task{ID: 6, Done: true}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsCompleteToday(tc.item, today); got != tc.want {
				t.Fatalf("IsCompleteToday = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDecodeDocumentMigratesLegacyFields(t *testing.T) {
	raw := []byte(`{
		"progress": {"xp": 40, "level": 2},
		"habits": [{"id": 11, "name": "Read", "category": "mind", "xp": 10}],
		"log": {"2024-01-10": {"11": true}}
	}`)
	doc, err := DecodeDocument(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Categories) != len(DefaultCategories()) {
		t.Fatalf("expected default categories, got %+v", doc.Categories)
	}
	h := doc.Habits[0]
	if h.CategoryID != "mind" || h.LegacyCategory != "" {
		t.Fatalf("legacy category not migrated: %+v", h)
	}
	if h.Kind != CompletionBoolean {
		t.Fatalf("expected boolean kind default, got %q", h.Kind)
	}
	if doc.Tasks == nil || len(doc.Tasks) != 0 {
		t.Fatalf("expected empty task list, got %#v", doc.Tasks)
	}
	if !doc.Log.Get("2024-01-10", 11).Truthy() {
		t.Fatal("log entry lost during decode")
	}
}

func TestDecodeDocumentRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":         `{"progress":`,
		"missing progress": `{"habits": []}`,
		"missing habits":   `{"progress": {"xp": 0, "level": 1}}`,
		"habits not list":  `{"progress": {"xp": 0, "level": 1}, "habits": {}}`,
		"bad level":        `{"progress": {"xp": 0, "level": 0}, "habits": []}`,
		"duplicate ids":    `{"progress": {"xp": 0, "level": 1}, "habits": [{"id": 1, "name": "a"}], "tasks": [{"id": 1, "name": "b"}]}`,
		"bad reminder":     `{"progress": {"xp": 0, "level": 1}, "habits": [{"id": 1, "name": "a", "reminderTime": "25:00"}]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeDocument([]byte(raw)); !errors.Is(err, ErrMalformedDocument) {
				t.Fatalf("expected ErrMalformedDocument, got %v", err)
			}
		})
	}
}

func TestDocumentExportImportRoundTrip(t *testing.T) {
	doc := NewDocument()
	doc.Progress = Progress{XP: 55, Level: 3}
	doc.Habits = append(doc.Habits,
		Habit{ID: 1700000000001, Name: "Stretch", Kind: CompletionBoolean, CategoryID: "health", ReminderTime: "07:30", XP: 10},
		Habit{ID: 1700000000002, Name: "Water", Kind: CompletionNumeric, Target: 8, Interval: 60, XP: 2, Deleted: true},
	)
	doc.Tasks = append(doc.Tasks, Task{ID: 1700000000003, Name: "File taxes", Done: true, CompletedOn: "2024-01-09", XP: 50})
	doc.Log.Set("2024-01-09", 1700000000001, BoolValue(true))
	doc.Log.Set("2024-01-09", 1700000000002, CountValue(5))
	doc.Settings.QuietWindow = &QuietWindow{Start: "23:00", End: "07:00"}
	doc.LastID = 1700000000003

	payload, err := EncodeDocument(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := DecodeDocument(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(doc, back) {
		t.Fatalf("round trip mismatch:\nwant %#v\ngot  %#v", doc, back)
	}
}

func TestDocumentNextIDAndLookup(t *testing.T) {
	doc := NewDocument()
	doc.Habits = append(doc.Habits, Habit{ID: 4, Name: "a", Kind: CompletionBoolean})
	doc.Tasks = append(doc.Tasks, Task{ID: 9, Name: "b"})
	if got := doc.NextID(); got != 10 {
		t.Fatalf("NextID = %d, want 10", got)
	}
	doc.LastID = 12
	if got := doc.NextID(); got != 13 {
		t.Fatalf("NextID after deletes = %d, want 13", got)
	}
	doc.LastID = 0
	if _, ok := doc.Item(Ref{Kind: ItemTask, ID: 4}); ok {
		t.Fatal("lookup must respect item kind")
	}
	it, ok := doc.Item(Ref{Kind: ItemHabit, ID: 4})
	if !ok || it.Label() != "a" {
		t.Fatalf("unexpected lookup result: %v %v", it, ok)
	}

	clone := doc.Clone()
	clone.Log.Set("2024-01-01", 4, BoolValue(true))
	clone.Habits[0].Name = "changed"
	if doc.Log.Get("2024-01-01", 4).Truthy() || doc.Habits[0].Name != "a" {
		t.Fatal("clone must not share state with the original")
	}
}

func TestDecodeDocumentRaisesLastID(t *testing.T) {
	doc, err := DecodeDocument([]byte(`{"progress":{"xp":0,"level":1},"habits":[{"id":7,"name":"a"}],"tasks":[{"id":3,"name":"b"}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.LastID != 7 {
		t.Fatalf("LastID = %d, want 7", doc.LastID)
	}

	doc, err = DecodeDocument([]byte(`{"progress":{"xp":0,"level":1},"habits":[],"lastId":40}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := doc.NextID(); got != 41 {
		t.Fatalf("NextID = %d, want 41", got)
	}
}

func TestValueJSONRejectsOversizeCount(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`2147483647`), &v); err != nil || v.Count() != MaxAmount {
		t.Fatalf("expected max count to decode, got %v %v", v, err)
	}
	if err := json.Unmarshal([]byte(`2147483648`), &v); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue above max, got %v", err)
	}
	h := Habit{ID: 1, Name: "a", Kind: CompletionNumeric, XP: MaxAmount + 1}
	if err := h.Validate(); !errors.Is(err, ErrInvalidReward) {
		t.Fatalf("expected ErrInvalidReward, got %v", err)
	}
}
