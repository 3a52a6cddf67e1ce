package contracts

import (
	"io"

	"github.com/avalonia-tools/avalint/scanner/models"
)

type IReportRenderer interface {
	Render(w io.Writer, result *models.ScanResult) error
}
