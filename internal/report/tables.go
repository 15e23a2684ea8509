package report

import (
	"fmt"
	"math"
	"strconv"

	domainstats "cardiostat/domain/stats"
	"cardiostat/internal/analysis"
	"cardiostat/internal/profiling"

	"github.com/jedib0t/go-pretty/v6/table"
)

const notAvailable = "n/a"

// DescribeTable lays out one row per numeric field
func DescribeTable(summaries []analysis.FieldSummary) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Field", "Count", "Missing", "Mean", "Std", "Min", "25%", "50%", "75%", "Max"})
	for _, fs := range summaries {
		s := fs.Summary
		t.AppendRow(table.Row{
			fs.Field, s.Count, fs.Missing,
			formatOpt(s.Mean), formatOpt(s.Std), formatOpt(s.Min),
			formatOpt(s.P25), formatOpt(s.P50), formatOpt(s.P75), formatOpt(s.Max),
		})
	}
	return t
}

// ComparisonTable lays out one row per compared field. The adjusted p-value
// column only appears when a correction was applied.
func ComparisonTable(gr *domainstats.GroupReport) table.Writer {
	adjusted := gr.Correction != "" && gr.Correction != domainstats.CorrectionNone

	header := table.Row{
		"Field",
		"n " + gr.GroupALabel, "n " + gr.GroupBLabel,
		"Mean " + gr.GroupALabel, "Mean " + gr.GroupBLabel,
		"t", "df", "p",
	}
	if adjusted {
		header = append(header, "p adj. ("+string(gr.Correction)+")")
	}
	header = append(header, "Verdict")

	t := table.NewWriter()
	t.AppendHeader(header)
	for _, c := range gr.Comparisons {
		if c.Skipped() {
			row := table.Row{c.Field, c.NA, c.NB, formatOpt(c.MeanA), formatOpt(c.MeanB), notAvailable, notAvailable, notAvailable}
			if adjusted {
				row = append(row, notAvailable)
			}
			t.AppendRow(append(row, "skipped: "+c.Error))
			continue
		}
		row := table.Row{
			c.Field, c.NA, c.NB, formatOpt(c.MeanA), formatOpt(c.MeanB),
			formatFloat(c.TStatistic, 3), formatFloat(c.Test.DF, 1), formatP(c.PValue),
		}
		if adjusted {
			row = append(row, formatPOpt(c.AdjustedP))
		}
		t.AppendRow(append(row, verdict(c)))
	}
	return t
}

// CorrelationTable lists the strongest correlation pairs
func CorrelationTable(pairs []analysis.CorrelationPair) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Field", "Field", "r", "n"})
	for _, p := range pairs {
		t.AppendRow(table.Row{p.X, p.Y, formatFloat(p.R, 3), p.N})
	}
	return t
}

// MissingTable lists missing cell counts per field
func MissingTable(missing []MissingCount, rows int) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Field", "Kind", "Missing", "Share"})
	for _, m := range missing {
		share := 0.0
		if rows > 0 {
			share = 100 * float64(m.Count) / float64(rows)
		}
		t.AppendRow(table.Row{m.Field, m.Kind, m.Count, fmt.Sprintf("%.1f%%", share)})
	}
	return t
}

func verdict(c domainstats.Comparison) string {
	if c.Significant {
		return "significant"
	}
	return "not significant"
}

// ShapeTable lists skewness, kurtosis, normality and outliers per field
func ShapeTable(shapes []profiling.Shape) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Field", "n", "Skewness", "Kurtosis", "Jarque-Bera p", "Normal", "Outliers"})
	for _, s := range shapes {
		normal := "no"
		switch {
		case math.IsNaN(s.NormalP):
			normal = notAvailable
		case s.Normal:
			normal = "yes"
		}
		t.AppendRow(table.Row{
			s.Field, s.N, formatFloat(s.Skewness, 3), formatFloat(s.Kurtosis, 3),
			formatP(s.NormalP), normal, s.Outliers,
		})
	}
	return t
}

func formatOpt(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return formatFloat(*v, 3)
}

func formatFloat(v float64, decimals int) string {
	switch {
	case math.IsNaN(v):
		return notAvailable
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// formatP keeps four significant digits so tiny p-values stay readable
func formatP(p float64) string {
	if math.IsNaN(p) {
		return notAvailable
	}
	if p != 0 && p < 1e-4 {
		return strconv.FormatFloat(p, 'e', 2, 64)
	}
	return strconv.FormatFloat(p, 'f', 4, 64)
}

func formatPOpt(p *float64) string {
	if p == nil {
		return notAvailable
	}
	return formatP(*p)
}
