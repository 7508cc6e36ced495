package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/lantern/internal/database"
	"github.com/joshsymonds/lantern/internal/report"
)

var (
	flagReportAsset string
	flagReportFrom  string
	flagReportTo    string
)

var reportDataCmd = &cobra.Command{
	Use:   "report-data",
	Short: "Emit findings as report-generator JSON",
	Long: `Emit the active client's findings as a JSON array for a report
generator: markdown stripped from descriptions, asset slugs expanded to
display names, findings in chronological order.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		findings, err := s.query().FindingsInRange(cmd.Context(), database.RangeFilter{
			Asset: flagReportAsset,
			From:  flagReportFrom,
			To:    flagReportTo,
		})
		if err != nil {
			return err
		}

		return report.WriteJSON(os.Stdout, report.Build(findings))
	},
}

func init() {
	reportDataCmd.Flags().StringVar(&flagReportAsset, "asset", "", "Only findings for this asset")
	reportDataCmd.Flags().StringVar(&flagReportFrom, "from", "", "Earliest date to include (YYYY/MM/DD)")
	reportDataCmd.Flags().StringVar(&flagReportTo, "to", "", "Latest date to include (YYYY/MM/DD)")
	rootCmd.AddCommand(reportDataCmd)
}
