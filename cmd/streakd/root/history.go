package root

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var errNoHistory = errors.New("revision history needs store: sqlite")

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved revisions (sqlite store only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd.Context(), runtimeOptions{})
			if err != nil {
				return err
			}
			defer cleanup()
			if a.sqlite == nil {
				return errNoHistory
			}

			revs, err := a.sqlite.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(revs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), muted.Render("(no revisions)"))
				return nil
			}
			for _, r := range revs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", h2.Render(fmt.Sprintf("#%d", r.Number)),
					r.SavedAt.Local().Format("2006-01-02 15:04:05"), muted.Render(fmt.Sprintf("(%d bytes)", len(r.Body))))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of revisions to show, 0 for all")
	return cmd
}

func newRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <revision>",
		Short: "Make a saved revision current again (sqlite store only)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("revision is required")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return errors.New("revision must be an integer")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd.Context(), runtimeOptions{})
			if err != nil {
				return err
			}
			defer cleanup()
			if a.sqlite == nil {
				return errNoHistory
			}

			number, _ := strconv.ParseInt(args[0], 10, 64)
			doc, err := a.sqlite.Restore(cmd.Context(), number)
			if err != nil {
				return fmt.Errorf("restore revision %d: %w", number, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s revision %d %s\n", good.Render("restored"), number,
				muted.Render(fmt.Sprintf("(level %d, %d habits, %d tasks)", doc.Progress.Level, len(doc.Habits), len(doc.Tasks))))
			return nil
		},
	}
	return cmd
}
