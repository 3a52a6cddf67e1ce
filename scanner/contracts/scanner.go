package contracts

import (
	"context"

	"github.com/avalonia-tools/avalint/scanner/models"
)

type IScanAnalyzer interface {
	Scan(ctx context.Context) (*models.ScanResult, error)
	GetCacheStats() (map[string]interface{}, error)
	GetDetailedCacheStats() (map[string]interface{}, error)
	ClearCache() error
}
