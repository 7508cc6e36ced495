package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/lantern/internal/models"
)

var updateStatusCmd = &cobra.Command{
	Use:   "update-status <asset> <id> <status>",
	Short: "Change a finding's workflow status",
	Long: `Change the status of one finding, identified by its asset and
identifier (for example 0x001). Valid statuses are Open, In Progress,
Resolved, and False Positive.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, err := models.ParseIdentifier(args[1])
		if err != nil {
			return err
		}
		status, err := models.ParseStatus(args[2])
		if err != nil {
			return err
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		finding, err := s.query().UpdateStatus(cmd.Context(), args[0], seq, status)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s %s is now %s\n",
			successStyle.Render("✓"), finding.Seq, finding.Title, finding.Status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateStatusCmd)
}
