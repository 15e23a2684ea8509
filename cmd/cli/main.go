package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"cardiostat/app"
	"cardiostat/domain/core"
	domainstats "cardiostat/domain/stats"
	"cardiostat/internal"
	"cardiostat/internal/chart"
	"cardiostat/internal/config"
	"cardiostat/internal/errors"
	"cardiostat/internal/report"
	"cardiostat/internal/testkit"
	"cardiostat/internal/watch"

	"github.com/spf13/cobra"
)

// options are the persistent flags; set flags override the environment
type options struct {
	envFile    string
	dataFile   string
	sheet      string
	groupField string
	alpha      float64
	correction string
	workers    int
	sampleSize int
	seed       int64
	outputDir  string
	logLevel   string
}

func main() {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "cardiostat",
		Short: "Compare heart-disease groups with descriptive statistics and Welch t-tests",
		Long: `cardiostat loads a heart-disease table (CSV or XLSX), describes its numeric
fields and compares the two groups of a binary field with Welch's t-test.

Settings come from the environment (and an optional .env file):
DATA_FILE, DATA_SHEET, GROUP_FIELD, ALPHA, CORRECTION, WORKERS, SAMPLE_SIZE,
SEED, OUTPUT_DIR, CHARTS, TOP_PAIRS, LOG_LEVEL. Flags override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", ".env", "Environment file to load before reading settings")
	flags.StringVar(&opts.dataFile, "data", "", "CSV or XLSX file; synthetic data when empty")
	flags.StringVar(&opts.sheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	flags.StringVar(&opts.groupField, "group", "", "Binary grouping field")
	flags.Float64Var(&opts.alpha, "alpha", domainstats.DefaultAlpha, "Significance threshold")
	flags.StringVar(&opts.correction, "correction", "none", "Multiple-comparison correction: none|holm|bonferroni")
	flags.IntVar(&opts.workers, "workers", 0, "Concurrent field comparisons")
	flags.IntVar(&opts.sampleSize, "sample", 0, "Analyse a random sample of this many rows")
	flags.Int64Var(&opts.seed, "seed", 42, "Seed for sampling and synthetic data")
	flags.StringVar(&opts.outputDir, "out", "", "Output directory for charts and reports")
	flags.StringVar(&opts.logLevel, "log-level", "", "ERROR|WARN|INFO|DEBUG|TRACE")

	rootCmd.AddCommand(
		newDescribeCmd(opts),
		newCompareCmd(opts),
		newCorrelateCmd(opts),
		newChartsCmd(opts),
		newScatterCmd(opts),
		newReportCmd(opts),
		newWatchCmd(opts),
		newGenerateCmd(opts),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error [%s]: %v\n", errors.GetCode(err), err)
		os.Exit(errors.ExitCode(err))
	}
}

// service loads configuration, applies flag overrides and builds the analysis service
func (o *options) service(cmd *cobra.Command) (*app.AnalysisService, *config.Config, error) {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Data.File = o.dataFile
	}
	if flags.Changed("sheet") {
		cfg.Data.Sheet = o.sheet
	}
	if flags.Changed("group") {
		cfg.Data.GroupField = o.groupField
	}
	if flags.Changed("alpha") {
		cfg.Analysis.Alpha = o.alpha
	}
	if flags.Changed("correction") {
		c, ok := domainstats.ParseCorrection(strings.ToLower(o.correction))
		if !ok {
			return nil, nil, errors.ConfigInvalid("--correction must be one of none, holm, bonferroni")
		}
		cfg.Analysis.Correction = c
	}
	if flags.Changed("workers") {
		cfg.Analysis.Workers = o.workers
	}
	if flags.Changed("sample") {
		cfg.Data.SampleSize = o.sampleSize
	}
	if flags.Changed("seed") {
		cfg.Data.Seed = o.seed
	}
	if flags.Changed("out") {
		cfg.Output.Dir = o.outputDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := cfg.Logger()
	return app.NewAnalysisService(app.SourceFor(cfg, logger), cfg, logger), cfg, nil
}

func fieldArgs(args []string) ([]core.FieldKey, error) {
	keys, err := core.ParseFieldKeys(args)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	return keys, nil
}

func newDescribeCmd(opts *options) *cobra.Command {
	var shape bool

	cmd := &cobra.Command{
		Use:   "describe [fields...]",
		Short: "Descriptive statistics of numeric fields",
		Long: `Print count, mean, standard deviation, min, quartiles and max for the
given numeric fields, or for every numeric field. Missing values are excluded.

Example: cardiostat describe "Age" "CRP Level" --data heart_disease.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := opts.service(cmd)
			if err != nil {
				return err
			}
			fields, err := fieldArgs(args)
			if err != nil {
				return err
			}
			summaries, err := svc.Describe(fields)
			if err != nil {
				return err
			}
			report.PrintTable(cmd.OutOrStdout(), "Descriptive statistics", report.DescribeTable(summaries))
			if shape {
				shapes, err := svc.Shapes(fields)
				if err != nil {
					return err
				}
				report.PrintTable(cmd.OutOrStdout(), "Distribution shape", report.ShapeTable(shapes))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&shape, "shape", false, "Also print skewness, kurtosis, normality and outliers")
	return cmd
}

func newCompareCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "compare [fields...]",
		Short: "Welch t-test between the two groups of the grouping field",
		Long: `Compare the two groups of the grouping field (default "Heart Disease Status")
on the given numeric fields, or on every numeric field. Fields that cannot be
tested are reported as skipped; the others are still compared.

Example: cardiostat compare "CRP Level" "Homocysteine Level" --correction holm`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := opts.service(cmd)
			if err != nil {
				return err
			}
			fields, err := fieldArgs(args)
			if err != nil {
				return err
			}
			gr, err := svc.Compare(cmd.Context(), fields)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			title := fmt.Sprintf("%s: %s vs %s", gr.GroupField, gr.GroupALabel, gr.GroupBLabel)
			report.PrintTable(out, title, report.ComparisonTable(gr))
			fmt.Fprintln(out, report.MultipleComparisonNote(gr))
			return nil
		},
	}
}

func newCorrelateCmd(opts *options) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "correlate [fields...]",
		Short: "Strongest pairwise Pearson correlations",
		Long: `Correlate the given numeric fields, or every numeric field, using the rows
where both values of a pair are present.

Example: cardiostat correlate --top 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := opts.service(cmd)
			if err != nil {
				return err
			}
			fields, err := fieldArgs(args)
			if err != nil {
				return err
			}
			m, err := svc.Correlate(fields)
			if err != nil {
				return err
			}
			report.PrintTable(cmd.OutOrStdout(), "Strongest correlations", report.CorrelationTable(m.TopPairs(top)))
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", report.DefaultTopPairs, "Number of pairs to list (0 lists all)")
	return cmd
}

func newChartsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "charts",
		Short: "Render bar, box, QQ and heatmap charts as PNG files",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := opts.service(cmd)
			if err != nil {
				return err
			}
			charts, err := svc.Charts(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range charts {
				fmt.Fprintln(cmd.OutOrStdout(), c.Path)
			}
			return nil
		},
	}
}

func newScatterCmd(opts *options) *cobra.Command {
	var x, y, colorBy string

	cmd := &cobra.Command{
		Use:   "scatter",
		Short: "Render a scatter plot of two numeric fields",
		Long: `Render a scatter plot of two numeric fields, optionally coloured by a third.
Rows missing either axis are left out.

Example: cardiostat scatter --x BMI --y "CRP Level" --color "Heart Disease Status"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := opts.service(cmd)
			if err != nil {
				return err
			}
			c, err := svc.Scatter(chart.ScatterView{X: core.FieldKey(x), Y: core.FieldKey(y), ColorBy: core.FieldKey(colorBy)})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&x, "x", "", "Field on the X axis")
	cmd.Flags().StringVar(&y, "y", "", "Field on the Y axis")
	cmd.Flags().StringVar(&colorBy, "color", "", "Field whose labels colour the points")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")
	return cmd
}

func newReportCmd(opts *options) *cobra.Command {
	var noCharts bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the full markdown and HTML report",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cfg, err := opts.service(cmd)
			if err != nil {
				return err
			}
			if noCharts {
				cfg.Output.Charts = false
			}
			r, files, err := svc.Report(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			r.Print(out)
			fmt.Fprintf(out, "\nreport: %s\nhtml:   %s\n", files.Markdown, files.HTML)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCharts, "no-charts", false, "Skip chart rendering")
	return cmd
}

func newWatchCmd(opts *options) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rewrite the report whenever the data file changes",
		Long: `Write the report once, then watch the data file and write it again after
every change. Stop with Ctrl-C.

Example: cardiostat watch --data heart_disease.csv --out report`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cfg, err := opts.service(cmd)
			if err != nil {
				return err
			}
			if cfg.Data.File == "" {
				return errors.ConfigInvalid("watch needs a data file: set DATA_FILE or --data")
			}
			out := cmd.OutOrStdout()
			run := func(ctx context.Context) error {
				_, files, err := svc.Report(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "report: %s\n", files.HTML)
				return nil
			}
			if err := run(cmd.Context()); err != nil {
				return err
			}
			w := watch.New(cfg.Data.File, debounce, cfg.Logger())
			if err := w.Run(cmd.Context(), run); err != nil {
				return errors.Wrap(err, "failed to watch data file")
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before a rerun")
	return cmd
}

func newGenerateCmd(opts *options) *cobra.Command {
	gc := testkit.DefaultHeartConfig()
	var output string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic heart-disease CSV",
		Long: `Write a synthetic table with the columns of the heart-disease dataset. CRP Level
is shifted upwards in the "Yes" group so comparisons have an effect to find.

Example: cardiostat generate --rows 1000 --output heart_disease.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gc.Seed = opts.seed
			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return errors.Wrapf(err, "failed to create %s", output)
				}
				defer f.Close()
				w = f
			}
			if err := testkit.NewHeartDataGenerator(gc).WriteCSV(w); err != nil {
				return errors.Wrap(err, "failed to write rows")
			}
			if output != "" {
				internal.DefaultLogger.Info("wrote %d synthetic rows to %s", gc.Rows, output)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&gc.Rows, "rows", gc.Rows, "Number of rows")
	cmd.Flags().Float64Var(&gc.DiseaseRate, "disease-rate", gc.DiseaseRate, "Share of rows labelled Yes")
	cmd.Flags().Float64Var(&gc.MissingRate, "missing-rate", gc.MissingRate, "Chance of a blank cell")
	cmd.Flags().Float64Var(&gc.CRPShift, "crp-shift", gc.CRPShift, "CRP Level shift in the Yes group")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}
