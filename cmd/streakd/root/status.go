package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/streakd/internal/leveling"
	"github.com/sandeepkv93/streakd/internal/model"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show level, streaks and today's progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd.Context(), runtimeOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			w := cmd.OutOrStdout()
			doc := a.tracker.Snapshot()
			today := doc.Log.Day(a.tracker.Today())
			p := doc.Progress

			fmt.Fprintln(w, h2.Render("Progress"))
			fmt.Fprintf(w, "- level %d, %d/%d xp\n", p.Level, p.XP, leveling.Threshold(p.Level))
			if qw := doc.Settings.QuietWindow; qw != nil {
				if start, end, ok := qw.Bounds(); ok {
					fmt.Fprintf(w, "- quiet hours %s-%s\n", model.FormatClockTime(start), model.FormatClockTime(end))
				}
			}
			fmt.Fprintln(w, "")

			fmt.Fprintln(w, h2.Render("Habits"))
			shown := 0
			for _, h := range doc.Habits {
				if h.Deleted {
					continue
				}
				shown++
				mark := muted.Render("[ ]")
				if h.IsComplete(today.Get(h.ID)) {
					mark = good.Render("[x]")
				}
				fmt.Fprintf(w, "%s #%d %s %s\n", mark, h.ID, h.Name,
					muted.Render(fmt.Sprintf("(streak %d, best %d)", a.tracker.Streak(h.ID), a.tracker.LongestStreak(h.ID))))
			}
			if shown == 0 {
				fmt.Fprintln(w, muted.Render("(none)"))
			}
			fmt.Fprintln(w, "")

			fmt.Fprintln(w, h2.Render("Tasks"))
			if len(doc.Tasks) == 0 {
				fmt.Fprintln(w, muted.Render("(none)"))
			}
			for _, t := range doc.Tasks {
				mark := muted.Render("[ ]")
				if t.Done {
					mark = good.Render("[x]")
				}
				fmt.Fprintf(w, "%s #%d %s %s\n", mark, t.ID, t.Name, muted.Render(fmt.Sprintf("(%d xp)", t.XP)))
			}
			return nil
		},
	}
	return cmd
}
