package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/avalonia-tools/avalint/constants/lipgloss"
	"github.com/avalonia-tools/avalint/scanner/models"
	"github.com/avalonia-tools/avalint/utils"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// fixCmd: avalint fix [path]
var fixCmd = &cobra.Command{
	Use:   "fix [path]",
	Short: "Apply suggested whole-line fixes after interactive confirmation",
	Long: `The 'fix' subcommand runs a scan and collects every finding that carries a
whole-line replacement (currently the known markup typos). For each affected
file it shows a unified diff preview and applies the replacement only after
per-file confirmation.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd, args)
		if rootDependencies == nil {
			os.Exit(1)
		}
		handleFixCommand(rootDependencies)
	},
}

func init() {
	rootCmd.AddCommand(fixCmd)
}

func handleFixCommand(rootDependencies *RootDependencies) {
	// Create a context with cancel function
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootDependencies.GitOps.CheckGitRepo(); err != nil {
		fmt.Println(lipgloss.Yellow.Render("Warning: not a git repository; applied fixes cannot be reverted with git."))
	} else if dirty, err := rootDependencies.GitOps.HasUncommittedChanges(); err == nil && dirty {
		fmt.Println(lipgloss.Yellow.Render("Warning: working tree has uncommitted changes; fixes modify files in place."))
	}

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").WithDelay(100).WithRemoveWhenDone(true)

	spinnerScan, _ := spinner.Start("Scanning project...")

	result, err := rootDependencies.Analyzer.Scan(ctx)

	spinnerScan.Stop()
	fmt.Print("\r")
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}

	fixesByPath := make(map[string][]models.Finding)
	for _, group := range result.Report.Groups {
		for _, f := range group.Findings {
			if f.Fix != nil {
				fixesByPath[f.Path] = append(fixesByPath[f.Path], f)
			}
		}
	}
	if len(fixesByPath) == 0 {
		fmt.Println(lipgloss.Green.Render("No fixable findings."))
		return
	}

	paths := make([]string, 0, len(fixesByPath))
	for rel := range fixesByPath {
		paths = append(paths, rel)
	}
	sort.Strings(paths)

	reader := bufio.NewReader(os.Stdin)

	for _, rel := range paths {
		select {
		case <-ctx.Done():
			fmt.Println(lipgloss.Yellow.Render("\nFix session cancelled."))
			return
		default:
		}

		unit := result.UnitFor(rel)
		if unit == nil {
			continue
		}

		fixedContent, applied := applyLineFixes(unit.File.Content, fixesByPath[rel])
		if applied == 0 {
			continue
		}

		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(unit.File.Content),
			B:        difflib.SplitLines(fixedContent),
			FromFile: "a/" + rel,
			ToFile:   "b/" + rel,
			Context:  3,
		}
		diffText, err := difflib.GetUnifiedDiffString(diff)
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error building diff for %s: %v", rel, err)))
			continue
		}
		fmt.Println(utils.ColorizeDiff(diffText))

		accepted, err := utils.ConfirmPromptWithContext(ctx, reader, fmt.Sprintf("Apply %d fix(es) to %s?", applied, rel))
		if err != nil {
			if err == context.Canceled {
				fmt.Println(lipgloss.Yellow.Render("Fix session cancelled."))
				return
			}
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting user prompt: %v", err)))
			continue
		}
		if !accepted {
			fmt.Println(lipgloss.Red.Render("❌ Fixes rejected."))
			continue
		}

		if err := os.WriteFile(unit.File.Path, []byte(fixedContent), 0644); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error applying fixes to %s: %v", rel, err)))
			continue
		}
		fmt.Println(lipgloss.Green.Render("✔️ Fixes applied!"))
	}
}

// applyLineFixes applies whole-line replacements to the raw content and
// returns the new content plus the number of lines changed. CRLF endings on
// replaced lines are preserved.
func applyLineFixes(content string, findings []models.Finding) (string, int) {
	lines := strings.Split(content, "\n")
	applied := 0
	for _, f := range findings {
		i := f.Fix.Line - 1
		if i < 0 || i >= len(lines) {
			continue
		}
		replacement := f.Fix.Replacement
		if strings.HasSuffix(lines[i], "\r") && !strings.HasSuffix(replacement, "\r") {
			replacement += "\r"
		}
		if lines[i] != replacement {
			lines[i] = replacement
			applied++
		}
	}
	return strings.Join(lines, "\n"), applied
}
