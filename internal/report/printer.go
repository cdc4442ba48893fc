// Package report renders human-readable run output: the migration summary,
// verification counts, the execution plan and dry-run estimates.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/n8nmigrate/internal/migrator"
	"github.com/dbsmedya/n8nmigrate/internal/schema"
	"github.com/dbsmedya/n8nmigrate/internal/verifier"
)

const (
	ruleWidth  = 60
	tableWidth = 40
)

var (
	styleTitle = color.New(color.FgCyan, color.OpBold)
	styleOK    = color.New(color.FgGreen)
	styleWarn  = color.New(color.FgYellow)
	styleFail  = color.New(color.FgRed, color.OpBold)
	styleDim   = color.New(color.FgGray)
)

// Printer writes report blocks to w.
type Printer struct {
	w        io.Writer
	colorize bool
}

// NewPrinter creates a printer. With colorize false the output is plain text.
func NewPrinter(w io.Writer, colorize bool) *Printer {
	return &Printer{w: w, colorize: colorize}
}

func (p *Printer) paint(style color.Style, s string) string {
	if !p.colorize {
		return s
	}
	return style.Sprint(s)
}

func (p *Printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format, args...)
}

// Header prints a title framed by rules.
func (p *Printer) Header(format string, args ...interface{}) {
	rule := strings.Repeat("=", ruleWidth)
	p.printf("\n%s\n%s\n%s\n", rule, p.paint(styleTitle, fmt.Sprintf(format, args...)), rule)
}

// Section prints a bracketed sub-heading.
func (p *Printer) Section(title string) {
	p.printf("[%s]\n%s\n", title, strings.Repeat("-", runewidth.StringWidth(title)+2))
}

// Success prints a final success line.
func (p *Printer) Success(msg string) {
	p.printf("\n%s\n", p.paint(styleOK, "✅ "+msg))
}

// Failure prints a final failure line.
func (p *Printer) Failure(msg string) {
	p.printf("\n%s\n", p.paint(styleFail, "❌ "+msg))
}

// padName pads a table name to the summary column width. Longer names are
// kept whole.
func padName(name string) string {
	return runewidth.FillRight(name, tableWidth)
}

// SummaryLine formats one row of the summary table.
func SummaryLine(name string, s migrator.TableStats) string {
	line := fmt.Sprintf("%s | Inserted: %5d | Skipped: %5d", padName(name), s.Inserted, s.Skipped)
	if s.Existing > 0 {
		line += fmt.Sprintf(" | Existing: %5d", s.Existing)
	}
	if s.RolledBack > 0 {
		line += fmt.Sprintf(" | Rolled back: %5d", s.RolledBack)
	}
	return line
}

// Summary prints the tables that saw activity, a grand total and any
// table-level failures.
func (p *Printer) Summary(result *migrator.Result) {
	p.Header("Migration Summary")

	for _, s := range result.Summary.ActiveTables() {
		line := SummaryLine(s.Table, s)
		if s.Skipped > 0 || s.RolledBack > 0 {
			line = p.paint(styleWarn, line)
		}
		p.printf("%s\n", line)
	}

	totals := result.Summary.Totals()
	p.printf("\n%s\n", p.paint(styleOK, SummaryLine("Total", totals)))

	if failed := result.Summary.Failed(); len(failed) > 0 {
		p.printf("\n")
		p.Section("Failed Tables")
		for _, s := range failed {
			p.printf("  %s %s\n", p.paint(styleFail, padName(s.Table)), s.Err)
		}
	}

	p.printf("%s\n", strings.Repeat("=", ruleWidth))
	p.printf("%s\n", p.paint(styleDim, fmt.Sprintf("Tables: %d  Duration: %s", result.Summary.Len(), result.Duration.Round(time.Millisecond))))
	if result.Interrupted {
		p.printf("%s\n", p.paint(styleFail, "Run interrupted: the table in progress was rolled back"))
	}
}

// Verification prints the post-migration row counts.
func (p *Printer) Verification(r *verifier.Report) {
	if r == nil || r.Method == verifier.MethodSkip {
		return
	}
	p.Header("Verification")

	for _, res := range r.Results {
		label := fmt.Sprintf("%s in PostgreSQL:", res.Label)
		if res.Err != nil {
			p.printf("%s %s\n", label, p.paint(styleWarn, "unavailable ("+res.Err.Error()+")"))
			continue
		}

		line := fmt.Sprintf("%s %d", label, res.DestCount)
		switch {
		case res.SourceChecked && res.Match():
			line += fmt.Sprintf(" (source: %d)", res.SourceCount)
			p.printf("%s\n", p.paint(styleOK, line))
		case res.SourceChecked:
			line += fmt.Sprintf(" (source: %d, differs)", res.SourceCount)
			p.printf("%s\n", p.paint(styleWarn, line))
		case res.SourceErr != nil:
			line += fmt.Sprintf(" (source unavailable: %v)", res.SourceErr)
			p.printf("%s\n", p.paint(styleWarn, line))
		default:
			p.printf("%s\n", line)
		}
	}
}

// Plan prints the migration order with each table's dependencies, followed
// by the column rename maps of the tables in the order.
func (p *Printer) Plan(ordering string, order []string) {
	p.Header("Execution Plan (%s order)", ordering)

	p.printf("\n")
	p.Section("Migration Order (referenced tables first)")
	width := len(fmt.Sprintf("[%d]", len(order)))
	for i, table := range order {
		num := runewidth.FillRight(fmt.Sprintf("[%d]", i+1), width)
		deps := schema.Dependencies(table)
		if len(deps) == 0 {
			p.printf("  %s %s\n", num, table)
			continue
		}
		p.printf("  %s %s %s\n", num, padName(table), p.paint(styleDim, "<- "+strings.Join(deps, ", ")))
	}

	p.printf("\n")
	p.Section("Column Renames")
	renamed := 0
	for _, table := range order {
		renames, ok := schema.RenameMap(table)
		if !ok {
			continue
		}
		renamed++
		p.printf("  %s\n", table)

		keys := make([]string, 0, len(renames))
		for k := range renames {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			p.printf("    • %s → %s\n", k, renames[k])
		}
	}
	if renamed == 0 {
		p.printf("  (none)\n")
	}
}

// DryRun prints what a migration would do for every table.
func (p *Printer) DryRun(r *migrator.EstimateResult) {
	p.Header("Dry Run: schema %q", r.Schema)

	var copyCount int
	for i, t := range r.Tables {
		p.printf("\n[%d] %s\n", i+1, p.paint(styleTitle, t.Table))

		if t.Err != nil {
			p.printf("    %s\n", p.paint(styleFail, "error: "+t.Err.Error()))
			continue
		}
		if !t.DestinationExists {
			p.printf("    %s\n", p.paint(styleWarn, "destination table missing, will be skipped"))
			continue
		}
		if !t.SourceExists {
			p.printf("    source table missing, counts as 0 rows\n")
			continue
		}

		p.printf("    Source rows: %d\n", t.SourceRows)
		if len(t.Mapped) > 0 {
			cols := make([]string, 0, len(t.Mapped))
			for _, m := range t.Mapped {
				if m.Renamed {
					cols = append(cols, m.Source+"→"+m.Destination)
				} else {
					cols = append(cols, m.Destination)
				}
			}
			p.printf("    Columns:     %s\n", strings.Join(cols, ", "))
		} else {
			p.printf("    %s\n", p.paint(styleWarn, "no source column matches the destination, rows will be skipped"))
		}
		if len(t.Dropped) > 0 {
			p.printf("    Dropped:     %s\n", p.paint(styleWarn, strings.Join(t.Dropped, ", ")))
		}
		if len(t.UnfilledColumns) > 0 {
			p.printf("    Unfilled:    %s\n", p.paint(styleDim, strings.Join(t.UnfilledColumns, ", ")))
		}
		if t.WillCopy() {
			copyCount++
		}
	}

	p.printf("\n%s\n", strings.Repeat("=", ruleWidth))
	p.printf("Tables to copy: %d of %d\n", copyCount, len(r.Tables))
	p.printf("Rows to copy:   %d\n", r.TotalRows())
	p.printf("No data was written.\n")
}
