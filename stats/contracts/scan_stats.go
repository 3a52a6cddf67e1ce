package contracts

import "github.com/avalonia-tools/avalint/scanner/models"

type IScanStats interface {
	FilesCollected(count int)
	FileParsed(fromCache bool)
	UnitDegraded()
	GetCurrentStats() (collected int, parsed int, cacheHits int, degraded int)
	DisplaySummary(report *models.Report)
	ClearStats()
}
