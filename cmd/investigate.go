// -- cmd/investigate.go --
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shadowglass/inquest/api/schemas"
	"github.com/shadowglass/inquest/internal/investigate"
	"github.com/shadowglass/inquest/internal/observability"
	"github.com/shadowglass/inquest/internal/search"
)

// newInvestigateCmd creates and configures the `investigate` command.
func newInvestigateCmd() *cobra.Command {
	investigateCmd := &cobra.Command{
		Use:   "investigate [target]",
		Short: "Runs an OSINT investigation against the target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			focus, _ := cmd.Flags().GetString("focus")
			maxResults, _ := cmd.Flags().GetInt("max-results")
			withNews, _ := cmd.Flags().GetBool("news")
			withLeaks, _ := cmd.Flags().GetBool("leaks")
			output, _ := cmd.Flags().GetString("output")

			categories := []schemas.Category{schemas.CategoryWeb}
			if withNews {
				categories = append(categories, schemas.CategoryNews)
			}
			if withLeaks {
				categories = append(categories, schemas.CategoryLeaked)
			}

			components, err := initializeComponents(appCfg, logger)
			if err != nil {
				return err
			}
			defer components.Shutdown()

			report := components.Investigator.Investigate(ctx, investigate.Request{
				Target:     args[0],
				Focus:      focus,
				Categories: categories,
				MaxResults: maxResults,
			})
			if report.Failed() {
				return fmt.Errorf("%s", report.Err)
			}

			for _, notice := range report.Notices {
				fmt.Println(notice)
			}
			fmt.Printf("\n%s\n", report.Narrative)

			if len(report.Findings) > 0 {
				fmt.Println("\nIndicadores extraídos:")
				for kind, values := range report.Findings {
					fmt.Printf("  %s: %s\n", kind, strings.Join(values, ", "))
				}
			}

			if output != "" {
				if err := writeLinkTables(output, report); err != nil {
					return fmt.Errorf("failed to write link tables: %w", err)
				}
				logger.Info("Link tables written", zap.String("path", output))
			}
			return nil
		},
	}

	investigateCmd.Flags().StringP("focus", "f", "", "Narrow the analysis to a specific aspect of the target.")
	investigateCmd.Flags().IntP("max-results", "n", 0, "Results to request per category. (Overrides config)")
	investigateCmd.Flags().Bool("news", false, "Include the news category.")
	investigateCmd.Flags().Bool("leaks", false, "Include the leak-oriented category.")
	investigateCmd.Flags().StringP("output", "o", "", "Write the HTML link tables to this file.")

	return investigateCmd
}

// writeLinkTables dumps the per-category HTML tables to a file.
func writeLinkTables(path string, report schemas.Report) error {
	var sb strings.Builder
	for _, category := range schemas.AllCategories {
		table, ok := report.LinkTables[category]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "<h2>%s</h2>\n%s\n", search.CategoryLabel(category), table)
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}
