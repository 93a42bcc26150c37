package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write all data to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd.Context(), runtimeOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			data, err := a.tracker.Export()
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", good.Render("exported"), args[0])
			return nil
		},
	}
	return cmd
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with the contents of a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			a, cleanup, err := openApp(cmd.Context(), runtimeOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.tracker.Import(cmd.Context(), data); err != nil {
				return err
			}
			doc := a.tracker.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", good.Render("imported"), args[0],
				muted.Render(fmt.Sprintf("(%d habits, %d tasks)", len(doc.Habits), len(doc.Tasks))))
			return nil
		},
	}
	return cmd
}

func newRecalcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Rebuild level and xp from the completion log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd.Context(), runtimeOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			before := a.tracker.Progress()
			p, err := a.tracker.Recalculate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "level %d (%d xp) → level %d (%d xp)\n", before.Level, before.XP, p.Level, p.XP)
			return nil
		},
	}
	return cmd
}
