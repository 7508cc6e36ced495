package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/lantern/internal/database"
)

var (
	flagExportAsset string
	flagExportFrom  string
	flagExportTo    string
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export findings as CSV",
	Long: `Export the active client's findings as CSV, oldest first. Pass "-"
to write to stdout. Date bounds use YYYY/MM/DD; when a bound is set,
undated findings are left out.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		filter := database.RangeFilter{
			Asset: flagExportAsset,
			From:  flagExportFrom,
			To:    flagExportTo,
		}

		out := os.Stdout
		if args[0] != "-" {
			f, createErr := os.Create(args[0])
			if createErr != nil {
				return fmt.Errorf("creating %s: %w", args[0], createErr)
			}
			defer func() { _ = f.Close() }()
			out = f
		}

		if err := s.query().ExportCSV(cmd.Context(), out, filter); err != nil {
			return err
		}

		counts, err := s.query().SeverityCounts(cmd.Context(), filter)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%s exported %s\n", successStyle.Render("✓"), renderTally(counts))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&flagExportAsset, "asset", "", "Only findings for this asset")
	exportCmd.Flags().StringVar(&flagExportFrom, "from", "", "Earliest date to include (YYYY/MM/DD)")
	exportCmd.Flags().StringVar(&flagExportTo, "to", "", "Latest date to include (YYYY/MM/DD)")
	rootCmd.AddCommand(exportCmd)
}
