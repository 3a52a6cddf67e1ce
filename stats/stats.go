package stats

import (
	"fmt"
	"sync"

	"github.com/avalonia-tools/avalint/constants/lipgloss"
	"github.com/avalonia-tools/avalint/scanner/models"
	"github.com/avalonia-tools/avalint/stats/contracts"
)

// scanStats implementation
type scanStats struct {
	mu        sync.Mutex
	collected int
	parsed    int
	cacheHits int
	degraded  int
}

// NewScanStats creates a new scan statistics tracker. Counters are mutex
// guarded because parse workers update them concurrently.
func NewScanStats() contracts.IScanStats {
	return &scanStats{}
}

// FilesCollected accumulates the collector's file count for the session.
func (s *scanStats) FilesCollected(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collected += count
}

// FileParsed records one completed parse; fromCache marks a cache hit that
// skipped the actual parsing work.
func (s *scanStats) FileParsed(fromCache bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parsed++
	if fromCache {
		s.cacheHits++
	}
}

func (s *scanStats) UnitDegraded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.degraded++
}

func (s *scanStats) GetCurrentStats() (collected int, parsed int, cacheHits int, degraded int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collected, s.parsed, s.cacheHits, s.degraded
}

// DisplaySummary prints the post-scan box: file counts, cache hits, finding
// totals by severity and the scan duration.
func (s *scanStats) DisplaySummary(report *models.Report) {
	collected, parsed, cacheHits, degraded := s.GetCurrentStats()

	summary := fmt.Sprintf("Files: %d collected, %d parsed (%d cached, %d degraded) - Findings: %d (%d error / %d warning / %d info) - Duration: %d ms",
		collected, parsed, cacheHits, degraded,
		report.TotalFindings(),
		report.SeverityCounts[models.SeverityError],
		report.SeverityCounts[models.SeverityWarning],
		report.SeverityCounts[models.SeverityInfo],
		report.DurationMS)

	summaryBox := lipgloss.BoxStyle.Render(summary)
	fmt.Println(summaryBox)
}

func (s *scanStats) ClearStats() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collected = 0
	s.parsed = 0
	s.cacheHits = 0
	s.degraded = 0
}
