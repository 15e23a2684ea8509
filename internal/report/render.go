package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cardiostat/internal/chart"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Files are the paths written by Write
type Files struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

// Markdown renders the report. Chart links are made relative to dir when
// possible so the document can be moved together with its charts.
func (r *Report) Markdown(dir string) string {
	var b strings.Builder
	gr := r.Comparison

	fmt.Fprintf(&b, "# Heart disease group comparison\n\n")
	fmt.Fprintf(&b, "Run `%s`, created %s.\n\n", r.RunID, r.CreatedAt)

	fmt.Fprintf(&b, "## Dataset\n\n")
	fmt.Fprintf(&b, "Source **%s** with %d rows and %d columns", r.Source, r.Rows, r.Columns)
	if !r.Fingerprint.IsEmpty() {
		fmt.Fprintf(&b, " (sha256 `%s`)", r.Fingerprint.Short())
	}
	b.WriteString(". Missing values are excluded from every statistic, never imputed.\n\n")
	writeTable(&b, MissingTable(r.Missing, r.Rows))

	fmt.Fprintf(&b, "## Descriptive statistics\n\n")
	writeTable(&b, DescribeTable(r.Descriptive))

	if len(r.Shapes) > 0 {
		fmt.Fprintf(&b, "## Distribution shape\n\n")
		b.WriteString("Kurtosis is excess kurtosis. Normal means the Jarque-Bera test did not reject normality; ")
		b.WriteString("outliers lie more than 1.5 IQR beyond the quartiles.\n\n")
		writeTable(&b, ShapeTable(r.Shapes))
	}

	if gr != nil {
		fmt.Fprintf(&b, "## %s: %s vs %s\n\n", gr.GroupField, gr.GroupALabel, gr.GroupBLabel)
		fmt.Fprintf(&b, "Welch two-sample t-test per field.")
		if gr.Dropped > 0 {
			fmt.Fprintf(&b, " %d rows without a %s label were left out.", gr.Dropped, gr.GroupField)
		}
		b.WriteString("\n\n")
		writeTable(&b, ComparisonTable(gr))
		fmt.Fprintf(&b, "> %s\n\n", MultipleComparisonNote(gr))
	}

	if len(r.TopCorrelations) > 0 {
		fmt.Fprintf(&b, "## Strongest correlations\n\n")
		writeTable(&b, CorrelationTable(r.TopCorrelations))
	}

	if len(r.Charts) > 0 {
		fmt.Fprintf(&b, "## Charts\n\n")
		for _, c := range r.Charts {
			fmt.Fprintf(&b, "### %s\n\n![%s](%s)\n\n", c.Title, c.Title, chartLink(dir, c))
		}
	}
	return b.String()
}

// HTML renders the markdown document as a complete HTML page
func (r *Report) HTML(dir string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Heart disease group comparison",
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank,
	})
	return markdown.ToHTML([]byte(r.Markdown(dir)), p, renderer)
}

// Print writes the tables of the report to w for a terminal
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "Run %s: %s, %d rows, %d columns\n\n", r.RunID, r.Source, r.Rows, r.Columns)
	PrintTable(w, "Descriptive statistics", DescribeTable(r.Descriptive))
	if len(r.Shapes) > 0 {
		PrintTable(w, "Distribution shape", ShapeTable(r.Shapes))
	}
	if r.Comparison != nil {
		PrintTable(w, fmt.Sprintf("%s: %s vs %s", r.Comparison.GroupField, r.Comparison.GroupALabel, r.Comparison.GroupBLabel),
			ComparisonTable(r.Comparison))
		fmt.Fprintf(w, "%s\n\n", MultipleComparisonNote(r.Comparison))
	}
	if len(r.TopCorrelations) > 0 {
		PrintTable(w, "Strongest correlations", CorrelationTable(r.TopCorrelations))
	}
	for _, c := range r.Charts {
		fmt.Fprintf(w, "chart: %s\n", c.Path)
	}
}

// Write stores report.md and report.html in dir
func (r *Report) Write(dir string) (Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Files{}, fmt.Errorf("create report directory: %w", err)
	}
	files := Files{
		Markdown: filepath.Join(dir, "report.md"),
		HTML:     filepath.Join(dir, "report.html"),
	}
	if err := os.WriteFile(files.Markdown, []byte(r.Markdown(dir)), 0o644); err != nil {
		return Files{}, fmt.Errorf("write markdown: %w", err)
	}
	if err := os.WriteFile(files.HTML, r.HTML(dir), 0o644); err != nil {
		return Files{}, fmt.Errorf("write html: %w", err)
	}
	return files, nil
}

// PrintTable renders a single table to w with a title
func PrintTable(w io.Writer, title string, t table.Writer) {
	t.SetTitle(title)
	t.SetStyle(table.StyleLight)
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w)
}

func writeTable(b *strings.Builder, t table.Writer) {
	b.WriteString(t.RenderMarkdown())
	b.WriteString("\n\n")
}

func chartLink(dir string, c chart.Chart) string {
	if dir != "" {
		if rel, err := filepath.Rel(dir, c.Path); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(c.Path)
}
