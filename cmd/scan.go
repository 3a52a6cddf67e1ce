package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/avalonia-tools/avalint/constants/lipgloss"
	"github.com/avalonia-tools/avalint/report"
	"github.com/avalonia-tools/avalint/scanner/models"
	"github.com/avalonia-tools/avalint/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// scanCmd: avalint scan [path]
var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan an Avalonia project tree and report findings",
	Long: `The 'scan' subcommand collects every C#, AXAML/XAML and .csproj file under
the given path (default: current directory), parses them tolerantly and runs
the full rule set. Findings are printed grouped by category; the exit code
follows the --fail-on threshold so the command slots into CI pipelines.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd, args)
		if rootDependencies == nil {
			os.Exit(1)
		}
		handleScanCommand(rootDependencies, cmd)
	},
}

func init() {
	scanCmd.Flags().Bool("watch", false, "Rerun the scan whenever files under the root change")
	scanCmd.Flags().Bool("no-suppress", false, "Ignore the avalint-suppressions.yml file")

	rootCmd.AddCommand(scanCmd)
}

func handleScanCommand(rootDependencies *RootDependencies, cmd *cobra.Command) {
	// Create a context with cancel function
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	watch, _ := cmd.Flags().GetBool("watch")

	exitCode, err := runScanOnce(ctx, rootDependencies)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}

	if !watch {
		if exitCode != 0 {
			os.Exit(exitCode)
		}
		return
	}

	fmt.Println(lipgloss.Info.Render("Watching for changes... press Ctrl+C to stop"))
	watchErr := utils.WatchTree(ctx, rootDependencies.Root, func() {
		// fresh counters per rerun so the summary box stays per-scan
		rootDependencies.ScanStats.ClearStats()
		if _, err := runScanOnce(ctx, rootDependencies); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		}
	})
	if watchErr != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", watchErr)))
		os.Exit(1)
	}
}

// runScanOnce runs one scan, renders the report and returns the exit code
// implied by the fail-on threshold.
func runScanOnce(ctx context.Context, rootDependencies *RootDependencies) (int, error) {
	isText := rootDependencies.Config.Format != "json"

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").WithDelay(100).WithRemoveWhenDone(true)

	var spinnerScan *pterm.SpinnerPrinter
	if isText {
		spinnerScan, _ = spinner.Start("Scanning project...")
	}

	result, err := rootDependencies.Analyzer.Scan(ctx)

	if spinnerScan != nil {
		spinnerScan.Stop()
		fmt.Print("\r")
	}
	if err != nil {
		return 0, err
	}

	renderer, err := report.NewRenderer(rootDependencies.Config.Format, report.RenderOptions{
		Theme:       rootDependencies.Config.Theme,
		ShowSource:  rootDependencies.Config.ShowSource,
		ShowOutline: rootDependencies.Config.ShowOutline,
	})
	if err != nil {
		return 0, err
	}
	if err := renderer.Render(os.Stdout, result); err != nil {
		return 0, err
	}

	if isText {
		rootDependencies.ScanStats.DisplaySummary(result.Report)
	}

	return failOnExitCode(rootDependencies.Config.FailOn, result.Report), nil
}

// failOnExitCode maps the fail-on threshold to the process exit code.
func failOnExitCode(failOn string, rep *models.Report) int {
	var min models.Severity
	switch failOn {
	case "none", "":
		return 0
	case "info":
		min = models.SeverityInfo
	case "warning":
		min = models.SeverityWarning
	default:
		min = models.SeverityError
	}
	if rep.CountAtOrAbove(min) > 0 {
		return 1
	}
	return 0
}
