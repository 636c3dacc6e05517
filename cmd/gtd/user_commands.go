package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/grouptodo/gtd/internal/ui"
	"github.com/spf13/cobra"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show your recent activity",
	Args:  cobra.NoArgs,
	RunE:  runActivity,
}

var activityJSON bool

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "Show your badges and progress",
	Args:  cobra.NoArgs,
	RunE:  runAchievements,
}

var achievementsJSON bool

func init() {
	rootCmd.AddCommand(activityCmd, achievementsCmd)

	activityCmd.Flags().BoolVar(&activityJSON, "json", false, "Output as JSON")
	achievementsCmd.Flags().BoolVar(&achievementsJSON, "json", false, "Output as JSON")
}

func runActivity(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	activities, err := client.RecentActivities(cmd.Context())
	if err != nil {
		return err
	}

	if activityJSON {
		return encodeJSONToStdout(activities)
	}

	if len(activities) == 0 {
		fmt.Println("No recent activity.")
		return nil
	}
	now := time.Now()
	for _, activity := range activities {
		fmt.Printf("%s  %s\n", ui.Muted(formatActivityAge(activity.CreatedAt, now)), activity.Message)
	}
	return nil
}

// formatActivityAge renders a feed timestamp as an age; timestamps the
// backend sends in an unexpected shape pass through raw.
func formatActivityAge(createdAt string, now time.Time) string {
	then, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return createdAt
	}
	return ui.FormatTimeAgo(then, now)
}

func runAchievements(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	achievements, err := client.Achievements(cmd.Context())
	if err != nil {
		return err
	}

	if achievementsJSON {
		return encodeJSONToStdout(achievements)
	}

	if len(achievements) == 0 {
		fmt.Println("No achievements yet.")
		return nil
	}

	builder := ui.NewTableBuilder([]string{"NAME", "PROGRESS", "EARNED"}, len(achievements))
	for _, a := range achievements {
		earned := ""
		if a.Achieved {
			earned = "yes"
		}
		progress := strconv.Itoa(a.Progress)
		if a.Goal > 0 {
			progress = fmt.Sprintf("%d/%d", a.Progress, a.Goal)
		}
		builder.AddRow([]string{ui.TruncateTableCell(a.Name), progress, earned})
	}
	fmt.Print(builder.String())
	return nil
}
