package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/avalonia-tools/avalint/config"
	"github.com/avalonia-tools/avalint/constants/lipgloss"
	"github.com/avalonia-tools/avalint/scanner"
	scanner_contracts "github.com/avalonia-tools/avalint/scanner/contracts"
	"github.com/avalonia-tools/avalint/stats"
	stats_contracts "github.com/avalonia-tools/avalint/stats/contracts"
	"github.com/avalonia-tools/avalint/utils"
	"github.com/spf13/cobra"
)

// RootDependencies holds the wired collaborators shared by the subcommands.
type RootDependencies struct {
	Config    *config.Config
	Root      string
	Analyzer  scanner_contracts.IScanAnalyzer
	ScanStats stats_contracts.IScanStats
	GitOps    *utils.GitOperations
}

var rootCmd = &cobra.Command{
	Use:   "avalint",
	Short: "Static source-pattern scanner for Avalonia .NET projects",
	Long: `avalint scans an Avalonia .NET source tree (C#, AXAML/XAML markup and
.csproj project files) without compiling it and reports cross-file
consistency problems: bindings with no target, missing style includes,
DI registrations that point nowhere, format-string mismatches and
project structure defects.`,
	Run: func(cmd *cobra.Command, args []string) {
		if ok, _ := cmd.Flags().GetBool("version"); ok {
			fmt.Println(config.DefaultConfig.Version)
			return
		}
		_ = cmd.Help()
	},
}

// handleRootCommand loads the configuration and wires the analyzer for the
// requested root. args[0], when present, overrides the scan root. Returns
// nil after printing the error when the root is unusable.
func handleRootCommand(cmd *cobra.Command, args []string) *RootDependencies {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error resolving root path: %v", err)))
		return nil
	}
	root = absRoot

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error: root path %s is not a directory", root)))
		return nil
	}

	cfg := config.LoadConfigWithCache(cmd.Root(), root)

	// --no-suppress is only defined on commands that run a scan
	noSuppress := false
	if f := cmd.Flags().Lookup("no-suppress"); f != nil {
		noSuppress, _ = cmd.Flags().GetBool("no-suppress")
	}

	scanStats := stats.NewScanStats()
	analyzer := scanner.NewAnalyzer(scanner.Options{
		Root:        root,
		Include:     cfg.Include,
		Jobs:        cfg.Jobs,
		EnableCache: cfg.EnableCache,
		NoSuppress:  noSuppress,
		Stats:       scanStats,
	})

	return &RootDependencies{
		Config:    cfg,
		Root:      root,
		Analyzer:  analyzer,
		ScanStats: scanStats,
		GitOps:    utils.NewGitOperations(root),
	}
}

// Execute runs the root command.
func Execute() {
	config.InitFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}
