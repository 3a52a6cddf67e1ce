package scanner

import (
	"context"
	"log"
	"path/filepath"
	"runtime"
	"time"

	"github.com/avalonia-tools/avalint/report"
	"github.com/avalonia-tools/avalint/rules"
	"github.com/avalonia-tools/avalint/scanner/contracts"
	"github.com/avalonia-tools/avalint/scanner/models"
	stats_contracts "github.com/avalonia-tools/avalint/stats/contracts"
	"github.com/avalonia-tools/avalint/utils"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Options configures one Analyzer.
type Options struct {
	Root        string
	Include     []string
	Jobs        int
	EnableCache bool
	NoSuppress  bool
	Registry    *rules.Registry
	Stats       stats_contracts.IScanStats
}

// Analyzer handles the scan of one source tree: collect, parse (cached,
// parallel), index, run rules, aggregate.
type Analyzer struct {
	options      Options
	cacheManager *CacheManager
	gitOps       *utils.GitOperations
}

// NewAnalyzer initializes a new Analyzer for the configured root.
func NewAnalyzer(options Options) contracts.IScanAnalyzer {
	if options.Jobs <= 0 {
		options.Jobs = runtime.NumCPU()
	}
	if options.Registry == nil {
		options.Registry = rules.BuildDefaultRegistry()
	}

	var cacheManager *CacheManager
	if options.EnableCache {
		cm, err := NewCacheManager(filepath.Join(options.Root, ".avalint", "cache"))
		if err != nil {
			// Fallback to no caching if cache initialization fails
			log.Printf("Warning: Failed to initialize cache manager: %v", err)
		} else {
			cacheManager = cm
		}
	}

	return &Analyzer{
		options:      options,
		cacheManager: cacheManager,
		gitOps:       utils.NewGitOperations(options.Root),
	}
}

// Scan runs one full pass over the tree and returns the scan result. The
// only fatal condition is an unusable root; every per-file or per-rule
// problem becomes a finding in the report instead.
func (a *Analyzer) Scan(ctx context.Context) (*models.ScanResult, error) {
	started := time.Now()

	files, ioFindings, err := CollectFiles(a.options.Root, a.options.Include)
	if err != nil {
		return nil, err
	}
	if a.options.Stats != nil {
		a.options.Stats.FilesCollected(len(files))
	}

	// Parse in parallel; each worker owns one fixed slot so no ordering
	// can leak out of the pool.
	units := make([]*models.ParsedUnit, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.options.Jobs)

	for i := range files {
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			unit, fromCache := a.parseOne(files[i])
			units[i] = unit

			if a.options.Stats != nil {
				a.options.Stats.FileParsed(fromCache)
				if unit.Degraded {
					a.options.Stats.UnitDegraded()
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	idx := rules.NewIndex(units)
	engine := rules.NewEngine(a.options.Registry.Rules()...)

	var findings []models.Finding
	findings = append(findings, ioFindings...)
	for _, unit := range units {
		findings = append(findings, unit.ParseFindings...)
	}
	findings = append(findings, engine.Run(units, idx)...)

	var suppressed []models.SuppressedFinding
	if !a.options.NoSuppress {
		entries, supErr := report.LoadSuppressions(a.options.Root)
		if supErr != nil {
			// a broken suppressions file must not abort the scan
			findings = append(findings, models.Finding{
				RuleID:   "io/suppressions",
				Category: models.CategoryIO,
				Severity: models.SeverityWarning,
				Path:     report.SuppressionsFileName,
				Message:  supErr.Error(),
			})
		} else {
			findings, suppressed = report.ApplySuppressions(findings, entries)
		}
	}

	rep := report.Aggregate(findings, suppressed)
	rep.RunID = uuid.NewString()
	rep.Root = a.options.Root
	rep.GitCommit = a.gitOps.ShortCommit()
	rep.StartedAt = started
	rep.DurationMS = time.Since(started).Milliseconds()
	rep.FilesScanned = len(files)

	return &models.ScanResult{Report: rep, Units: units}, nil
}

// parseOne returns the unit for one file, consulting the cache first. The
// outline is built before caching so cached and fresh scans carry
// identical units.
func (a *Analyzer) parseOne(file models.SourceFile) (*models.ParsedUnit, bool) {
	if a.cacheManager != nil {
		if unit, found := a.cacheManager.GetUnitCache(file.Path); found {
			return unit, true
		}
	}

	var unit *models.ParsedUnit
	switch file.Kind {
	case models.KindCSharp:
		unit = ParseCSharp(file)
		unit.Outline = BuildOutline(file)
	case models.KindMarkup:
		unit = ParseMarkup(file)
	case models.KindProject:
		unit = ParseProject(file)
	default:
		unit = &models.ParsedUnit{File: file}
	}

	if a.cacheManager != nil {
		if err := a.cacheManager.SetUnitCache(file.Path, unit); err != nil {
			log.Printf("Warning: failed to cache %s: %v", file.RelativePath, err)
		}
	}
	return unit, false
}

// GetCacheStats merges storage statistics with the session hit-rate kept by
// the cache manager.
func (a *Analyzer) GetCacheStats() (map[string]interface{}, error) {
	if a.cacheManager == nil {
		return map[string]interface{}{"cache_enabled": false}, nil
	}

	stats, err := a.cacheManager.GetCacheStats()
	if err != nil {
		return nil, err
	}
	stats["cache_enabled"] = true

	perf := a.cacheManager.GetPerformanceStats()
	if hitRate, ok := perf["hit_rate_percent"].(float64); ok {
		stats["hit_rate"] = hitRate
	}
	return stats, nil
}

// ClearCache removes every cache entry. A disabled cache is a no-op.
func (a *Analyzer) ClearCache() error {
	if a.cacheManager == nil {
		return nil
	}
	return a.cacheManager.ClearCache()
}

// GetDetailedCacheStats exposes the cache manager's per-kind statistics
// for the reset-cache command.
func (a *Analyzer) GetDetailedCacheStats() (map[string]interface{}, error) {
	if a.cacheManager == nil {
		return map[string]interface{}{"cache_enabled": false}, nil
	}
	stats, err := a.cacheManager.GetDetailedCacheStats()
	if err != nil {
		return nil, err
	}
	stats["cache_enabled"] = true
	return stats, nil
}
