package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/lantern/internal/database"
	"github.com/joshsymonds/lantern/internal/models"
)

var (
	flagSearchSeverity string
	flagSearchAsset    string
	flagSearchStatus   string
)

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search findings",
	Long: `Search the active client's findings. The term matches titles,
bodies, and locations, case-insensitively. Filters combine with AND.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := database.SearchFilter{Asset: flagSearchAsset}
		if len(args) == 1 {
			filter.Text = args[0]
		}
		if flagSearchSeverity != "" {
			sev, err := models.ParseSeverity(flagSearchSeverity)
			if err != nil {
				return err
			}
			filter.Severity = &sev
		}
		if flagSearchStatus != "" {
			status, err := models.ParseStatus(flagSearchStatus)
			if err != nil {
				return err
			}
			filter.Status = &status
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		findings, err := s.query().Search(cmd.Context(), filter)
		if err != nil {
			return err
		}

		if len(findings) == 0 {
			fmt.Println(faintStyle.Render("no findings matched"))
			return nil
		}
		for _, f := range findings {
			date := f.Date
			if date == "" {
				date = "undated"
			}
			fmt.Printf("%s  %-10s %s  %s %s\n",
				f.Seq, renderSeverity(f.Severity), f.Title,
				faintStyle.Render(f.Asset), faintStyle.Render(date))
		}
		return nil
	},
}

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List assets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		assets, err := s.query().ListAssets(cmd.Context(), flagAssetsCriticality)
		if err != nil {
			return err
		}

		if len(assets) == 0 {
			fmt.Println(faintStyle.Render("no assets yet"))
			return nil
		}
		for _, a := range assets {
			fmt.Printf("%-24s %-10s %s\n", a.Name, a.Criticality, faintStyle.Render(a.Description))
		}
		return nil
	},
}

var flagAssetsCriticality string

func init() {
	searchCmd.Flags().StringVar(&flagSearchSeverity, "severity", "", "Only findings with this severity")
	searchCmd.Flags().StringVar(&flagSearchAsset, "asset", "", "Only findings for this asset")
	searchCmd.Flags().StringVar(&flagSearchStatus, "status", "", "Only findings with this status")
	assetsCmd.Flags().StringVar(&flagAssetsCriticality, "criticality", "", "Only assets with this criticality")
	rootCmd.AddCommand(searchCmd, assetsCmd)
}
