package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagSingle bool

var importFindingsCmd = &cobra.Command{
	Use:   "import-findings <dir>",
	Short: "Import finding source directories",
	Long: `Import findings into the active client. By default every
subdirectory of <dir> is one finding source: a single markdown document
plus any number of image files. With --single, <dir> itself is the
source.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		ctx := cmd.Context()
		coord := s.importer()

		if flagSingle {
			finding, err := coord.ImportFinding(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s imported %s %s (%s)\n",
				successStyle.Render("✓"), finding.Seq, finding.Title, renderSeverity(finding.Severity))
			return nil
		}

		result, err := coord.ImportFindings(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s imported %d finding(s) %s\n",
			successStyle.Render("✓"), result.Imported, faintStyle.Render("batch "+result.BatchID))
		for _, unit := range result.Errors {
			fmt.Printf("%s %s: %v\n", errorStyle.Render("✗"), unit.Path, unit.Err)
		}
		if result.Failed() {
			return fmt.Errorf("%d unit(s) failed", len(result.Errors))
		}
		return nil
	},
}

var importAssetsCmd = &cobra.Command{
	Use:   "import-assets <file>",
	Short: "Import an asset markdown file",
	Long: `Import assets from a markdown file. The file holds one or more
asset blocks separated by horizontal rules; each block is a "# name"
heading followed by labelled bullets.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		result, err := s.importer().ImportAssets(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s imported %d asset(s)\n", successStyle.Render("✓"), result.Imported)
		for _, unit := range result.Errors {
			fmt.Printf("%s %s: %v\n", errorStyle.Render("✗"), unit.Path, unit.Err)
		}
		if result.Failed() {
			return fmt.Errorf("%d block(s) failed", len(result.Errors))
		}
		return nil
	},
}

func init() {
	importFindingsCmd.Flags().BoolVar(&flagSingle, "single", false, "Treat <dir> itself as one finding source")
	rootCmd.AddCommand(importFindingsCmd)
	rootCmd.AddCommand(importAssetsCmd)
}
