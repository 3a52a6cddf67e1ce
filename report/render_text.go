package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/avalonia-tools/avalint/constants/lipgloss"
	"github.com/avalonia-tools/avalint/scanner/models"
	"github.com/avalonia-tools/avalint/utils"
)

// textRenderer writes the human-readable grouped report: one section per
// category, findings already ordered by the aggregator.
type textRenderer struct {
	options RenderOptions
}

func (r *textRenderer) Render(w io.Writer, result *models.ScanResult) error {
	rep := result.Report

	header := fmt.Sprintf("avalint: %s", rep.Root)
	if rep.GitCommit != "" {
		header = fmt.Sprintf("%s @ %s", header, rep.GitCommit)
	}
	fmt.Fprintln(w, lipgloss.Info.Render(header))

	if rep.TotalFindings() == 0 {
		fmt.Fprintln(w, lipgloss.Green.Render("No issues found."))
	}

	for _, group := range rep.Groups {
		fmt.Fprintln(w)
		fmt.Fprintln(w, lipgloss.BlueSky.Render(fmt.Sprintf("%s (%d)", group.Category, len(group.Findings))))
		for _, f := range group.Findings {
			r.renderFinding(w, result, f)
		}
	}

	if len(rep.Suppressed) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, lipgloss.Gray.Render(fmt.Sprintf("%d finding(s) suppressed via %s", len(rep.Suppressed), SuppressionsFileName)))
	}

	if r.options.ShowOutline {
		r.renderOutlines(w, result)
	}
	return nil
}

func (r *textRenderer) renderFinding(w io.Writer, result *models.ScanResult, f models.Finding) {
	location := f.Path
	if f.Line > 0 {
		location = fmt.Sprintf("%s:%d", f.Path, f.Line)
	}
	fmt.Fprintf(w, "  %s %s %s  %s\n",
		renderSeverity(f.Severity),
		lipgloss.Gray.Render(f.RuleID),
		location,
		f.Message)

	if r.options.ShowSource && f.Line > 0 {
		if unit := result.UnitFor(f.Path); unit != nil {
			lines := unit.File.Lines()
			if f.Line-1 >= 0 && f.Line-1 < len(lines) {
				fmt.Fprint(w, "      ")
				utils.HighlightLine(w, strings.TrimRight(lines[f.Line-1], "\r"), utils.ChromaLanguageForPath(f.Path), r.options.Theme)
			}
		}
	}
	if f.Suggestion != "" {
		fmt.Fprintf(w, "      %s\n", lipgloss.Gray.Render("hint: "+f.Suggestion))
	}
}

// renderOutlines appends the extracted C# symbol outlines after the report
// body, one block per file that produced one.
func (r *textRenderer) renderOutlines(w io.Writer, result *models.ScanResult) {
	for _, unit := range result.Units {
		if unit == nil || len(unit.Outline) == 0 {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, lipgloss.Info.Render(unit.File.RelativePath))
		for _, line := range unit.Outline {
			fmt.Fprintf(w, "  %s\n", lipgloss.Gray.Render(line))
		}
	}
}

func renderSeverity(s models.Severity) string {
	switch s {
	case models.SeverityError:
		return lipgloss.Red.Render("✗ error  ")
	case models.SeverityWarning:
		return lipgloss.Yellow.Render("▲ warning")
	default:
		return lipgloss.BlueSky.Render("ℹ info   ")
	}
}
