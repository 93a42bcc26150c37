package root

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var (
	good  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	bad   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	muted = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	h2    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "streakd",
	Short:         "Habit and task tracker with reminders, streaks and levels",
	Long:          "streakd tracks daily habits and one-off tasks, fires reminders and alarms on schedule, and rewards completions with experience points.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file")

	rootCmd.AddCommand(
		newDaemonCmd(),
		newStatusCmd(),
		newDoneCmd(),
		newUndoCmd(),
		newExportCmd(),
		newImportCmd(),
		newRecalcCmd(),
		newHistoryCmd(),
		newRestoreCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, bad.Render("error: "+err.Error()))
		os.Exit(1)
	}
}
