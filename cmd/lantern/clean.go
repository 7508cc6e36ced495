package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagYes bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all findings and assets for the active client",
	Long: `Remove every finding and asset for the active client, from both
the database and the findings tree. The client itself survives.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !flagYes {
			return fmt.Errorf("clean removes all data for the client; re-run with --yes to confirm")
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		if err := s.query().Wipe(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("%s cleaned client %s\n", successStyle.Render("✓"), s.client)
		return nil
	},
}

func init() {
	cleanCmd.Flags().BoolVar(&flagYes, "yes", false, "Confirm the wipe")
	rootCmd.AddCommand(cleanCmd)
}
