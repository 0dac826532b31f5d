package driven

import (
	"io"

	"github.com/custodia-labs/ytengage/internal/core/domain"
)

// ChartRenderer draws a bar chart.
// Rendering is a terminal side effect; nothing flows back into the pipeline.
type ChartRenderer interface {
	Render(w io.Writer, chart domain.BarChart) error
}
