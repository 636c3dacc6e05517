package main

import (
	"fmt"

	"github.com/grouptodo/gtd/api"
	"github.com/grouptodo/gtd/internal/ui"
	"github.com/grouptodo/gtd/todo"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your todo statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var (
	statsWeek   bool
	statsReport bool
	statsJSON   bool
)

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().BoolVar(&statsWeek, "week", false, "Show the weekly overview")
	statsCmd.Flags().BoolVar(&statsReport, "report", false, "Show the periodic report")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
	statsCmd.MarkFlagsMutuallyExclusive("week", "report")
}

func runStats(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	switch {
	case statsWeek:
		days, err := client.WeeklyStats(cmd.Context())
		if err != nil {
			return err
		}
		if statsJSON {
			return encodeJSONToStdout(days)
		}
		printWeek(days)
		return nil

	case statsReport:
		report, err := client.ActivityReport(cmd.Context())
		if err != nil {
			return err
		}
		if statsJSON {
			return encodeJSONToStdout(report)
		}
		printReport(report)
		return nil

	default:
		stats, err := client.Stats(cmd.Context())
		if err != nil {
			return err
		}
		if statsJSON {
			return encodeJSONToStdout(stats)
		}
		printStats(stats)
		return nil
	}
}

func printStats(stats api.UserStats) {
	fmt.Printf("Todos:      %d\n", stats.TotalTodos)
	fmt.Printf("Completed:  %d\n", stats.CompletedTodos)
	fmt.Printf("Failed:     %d\n", stats.FailedTodos)
	fmt.Printf("Completion: %.0f%%\n", stats.CompletionRate)
	fmt.Printf("Streak:     %d days\n", stats.StreakDays)
}

func printWeek(days []api.WeekDay) {
	if len(days) == 0 {
		fmt.Println("No todos found.")
		return
	}

	for i, day := range days {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(ui.Bold(string(day.Date)))
		if len(day.Todos) == 0 {
			fmt.Println("  (nothing scheduled)")
			continue
		}
		overrides := todo.NewCompletionOverrides(day.Todos)
		for _, t := range day.Todos {
			status := todo.DeriveStatus(t, day.Date, overrides.For(t.ID))
			fmt.Printf("  %s  %s\n", ui.StatusBadge(status), t.Content)
		}
	}
}

func printReport(report api.Report) {
	if report.Period != "" {
		fmt.Printf("Period:     %s\n", report.Period)
	}
	fmt.Printf("Todos:      %d\n", report.TotalTodos)
	fmt.Printf("Completed:  %d\n", report.CompletedTodos)
	fmt.Printf("Failed:     %d\n", report.FailedTodos)
	fmt.Printf("Completion: %.0f%%\n", report.CompletionRate)
	if report.BestGroupName != "" {
		fmt.Printf("Best group: %s\n", report.BestGroupName)
	}
}
