package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"goexplain/adapters/tabular"
	"goexplain/domain/dataset"
	"goexplain/internal/insight"
	"goexplain/internal/profile"
	"goexplain/internal/report"
	"goexplain/internal/testkit"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "goexplain-cli",
		Short: "GoExplain CLI for exploring tabular datasets from the terminal",
	}

	rootCmd.AddCommand(
		newOverviewCmd(),
		newInsightsCmd(),
		newCorrelateCmd(),
		newReportCmd(),
		newDemoCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview [file]",
		Short: "Print shape, null counts and per-column profiles",
		Long: `Load a CSV or Excel file and print its shape, column list,
null counts and describe-style statistics for every column.

Example: goexplain-cli overview sales.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOverview(cmd.Context(), args[0])
		},
	}
}

func newInsightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights [file]",
		Short: "Print plain-language insights for a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsights(cmd.Context(), args[0])
		},
	}
}

func newCorrelateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "correlate [file] [x] [y]",
		Short: "Classify the correlation between two numeric columns",
		Long: `Compute the Pearson correlation between two numeric columns and
classify its strength and direction.

Example: goexplain-cli correlate sales.csv units revenue`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCorrelate(cmd.Context(), args[0], args[1], args[2])
		},
	}
}

func newReportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Render the summary report for a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), args[0], out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the report to a file instead of stdout")

	return cmd
}

func newDemoCmd() *cobra.Command {
	var rows int
	var seed int64
	var out string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Generate a deterministic synthetic sales CSV",
		Long: `Generate the synthetic sales dataset the dashboard demo button uses.
The same seed always produces the same file.

Example: goexplain-cli demo --rows 500 --seed 7 -o sales.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(rows, seed, out)
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 120, "Number of data rows to generate")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic generation")
	cmd.Flags().StringVarP(&out, "out", "o", "demo_sales.csv", "Output file, - for stdout")

	return cmd
}

func runOverview(ctx context.Context, path string) error {
	ds, err := loadDataset(ctx, path)
	if err != nil {
		return err
	}

	profiles, err := profile.NewProfiler(0).ComputeProfiles(ctx, ds)
	if err != nil {
		return fmt.Errorf("failed to profile dataset: %w", err)
	}

	fmt.Printf("📊 DATASET OVERVIEW\n")
	fmt.Printf("File: %s\n", ds.Filename)
	fmt.Printf("Shape: %s\n", ds.Shape())
	fmt.Printf("Columns: %s\n", strings.Join(ds.ColumnNames(), ", "))

	fmt.Printf("\nNull values per column:\n")
	for _, entry := range ds.NullSummary() {
		fmt.Printf("  %s: %d\n", entry.Column, entry.Nulls)
	}

	fmt.Printf("\nColumn profiles:\n")
	fmt.Printf("%-20s %-12s %7s %7s %9s %-12s %10s %10s %10s\n",
		"COLUMN", "TYPE", "COUNT", "NULLS", "DISTINCT", "TOP", "MEAN", "MEDIAN", "STD")
	for _, p := range profiles {
		top := p.Top
		if top == "" {
			top = "-"
		}
		if p.Stats != nil {
			fmt.Printf("%-20s %-12s %7d %7d %9d %-12s %10.2f %10.2f %10.2f\n",
				p.Column, p.Type, p.Count, p.Nulls, p.Distinct, top,
				p.Stats.Mean, p.Stats.Median, p.Stats.StdDev)
		} else {
			fmt.Printf("%-20s %-12s %7d %7d %9d %-12s %10s %10s %10s\n",
				p.Column, p.Type, p.Count, p.Nulls, p.Distinct, top, "-", "-", "-")
		}
	}
	return nil
}

func runInsights(ctx context.Context, path string) error {
	ds, err := loadDataset(ctx, path)
	if err != nil {
		return err
	}

	insights := insight.NewEngine(insight.DefaultThresholds()).GenerateInsights(ds)

	fmt.Printf("💡 GENERATED INSIGHTS\n")
	if len(insights) == 0 {
		fmt.Println("No strong insights found. Try a bigger or more varied dataset.")
		return nil
	}
	for i, ins := range insights {
		fmt.Printf("%d. [%s] %s\n", i+1, ins.Severity, ins.Text)
	}
	return nil
}

func runCorrelate(ctx context.Context, path, x, y string) error {
	ds, err := loadDataset(ctx, path)
	if err != nil {
		return err
	}

	xCol, err := numericColumn(ds, x)
	if err != nil {
		return err
	}
	yCol, err := numericColumn(ds, y)
	if err != nil {
		return err
	}

	engine := insight.NewEngine(insight.DefaultThresholds())
	result, err := engine.ClassifyCorrelation(xCol.Series(), yCol.Series())
	if err != nil {
		return fmt.Errorf("correlation failed: %w", err)
	}

	fmt.Printf("🔗 CORRELATION\n")
	fmt.Println(engine.CaptionText(result, xCol.Name, yCol.Name))
	return nil
}

func runReport(ctx context.Context, path, out string) error {
	ds, err := loadDataset(ctx, path)
	if err != nil {
		return err
	}

	insights := insight.NewEngine(insight.DefaultThresholds()).GenerateInsights(ds)
	content := report.NewBuilder().Build(ds, insights)

	if out == "" {
		fmt.Println(content)
		return nil
	}
	if err := os.WriteFile(out, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Printf("Report written to %s\n", out)
	return nil
}

func runDemo(rows int, seed int64, out string) error {
	config := testkit.DefaultSalesConfig()
	config.Rows = rows
	config.Seed = seed

	csv := testkit.NewSalesDataGenerator(config).CSV()

	if out == "-" {
		fmt.Print(csv)
		return nil
	}
	if err := os.WriteFile(out, []byte(csv), 0644); err != nil {
		return fmt.Errorf("failed to write demo data: %w", err)
	}
	fmt.Printf("Wrote %d demo rows to %s\n", rows, out)
	return nil
}

func loadDataset(ctx context.Context, path string) (*dataset.Dataset, error) {
	ds, err := tabular.NewReader().ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return ds, nil
}

func numericColumn(ds *dataset.Dataset, name string) (dataset.Column, error) {
	col, ok := ds.Column(name)
	if !ok {
		return dataset.Column{}, fmt.Errorf("column %s not found; dataset has: %s",
			name, strings.Join(ds.ColumnNames(), ", "))
	}
	if !col.IsNumeric() {
		return dataset.Column{}, fmt.Errorf("column %s is not numeric; numeric columns: %s",
			name, strings.Join(ds.NumericColumnNames(), ", "))
	}
	return col, nil
}
