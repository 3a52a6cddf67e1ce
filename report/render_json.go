package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/avalonia-tools/avalint/scanner/models"
)

// jsonRenderer emits the Report value verbatim. The Report struct is the
// stable contract for scripted consumers; units never appear in the output.
type jsonRenderer struct{}

func (r *jsonRenderer) Render(w io.Writer, result *models.ScanResult) error {
	data, err := json.MarshalIndent(result.Report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
