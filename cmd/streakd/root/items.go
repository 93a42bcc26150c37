package root

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/streakd/internal/commands"
)

func newDoneCmd() *cobra.Command {
	return newTargetCmd(commands.TypeDone, "done [habit|task] <id>", "Complete a habit or task for today")
}

func newUndoCmd() *cobra.Command {
	return newTargetCmd(commands.TypeUndo, "undo [habit|task] <id>", "Undo today's completion of a habit or task")
}

// newTargetCmd reuses the palette grammar so "done 3", "done habit 3" and
// "done task:3" behave the same on the command line as in the UI.
func newTargetCmd(t commands.Type, use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := commands.Parse(string(t) + " " + strings.Join(args, " "))
			if err != nil {
				return err
			}
			a, cleanup, err := openApp(cmd.Context(), runtimeOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			ref, err := a.tracker.Resolve(parsed.Target.Kind, parsed.Target.ID)
			if err != nil {
				return err
			}
			before := a.tracker.Progress()
			if t == commands.TypeUndo {
				err = a.tracker.Undo(cmd.Context(), ref)
			} else {
				err = a.tracker.Complete(cmd.Context(), ref)
			}
			if err != nil {
				return err
			}
			after := a.tracker.Progress()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", good.Render(string(t)), ref,
				muted.Render(fmt.Sprintf("(level %d → %d, %d xp)", before.Level, after.Level, after.XP)))
			return nil
		},
	}
	return cmd
}
