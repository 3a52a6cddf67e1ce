package report

import (
	"fmt"

	"github.com/avalonia-tools/avalint/report/contracts"
)

// RenderOptions tunes renderer output. Theme is the chroma style used for
// highlighted source lines in the text renderer.
type RenderOptions struct {
	Theme       string
	ShowSource  bool
	ShowOutline bool
}

// NewRenderer returns the renderer for an output format name.
func NewRenderer(format string, options RenderOptions) (contracts.IReportRenderer, error) {
	switch format {
	case "", "text":
		return &textRenderer{options: options}, nil
	case "json":
		return &jsonRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported report format '%s' (supported: text, json)", format)
	}
}
