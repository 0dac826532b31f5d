package services

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/custodia-labs/ytengage/internal/core/domain"
	"github.com/custodia-labs/ytengage/internal/core/ports/driven"
	"github.com/custodia-labs/ytengage/internal/core/ports/driving"
)

// Ensure PresentationService implements the interface.
var _ driving.Presenter = (*PresentationService)(nil)

// Chart labels.
const (
	chartTitleFormat = "Top %d Youtube Categories by Engagement Score in the UK"
	chartXLabel      = "Average Engagement Score (Likes + Comments + Dislikes)"
	chartYLabel      = "Category Name"
)

// PresentationService renders the top categories as a bar chart.
type PresentationService struct {
	renderer driven.ChartRenderer
	topN     int
}

// NewPresentationService creates a new presentation service.
// A non-positive topN falls back to domain.DefaultTopN.
func NewPresentationService(renderer driven.ChartRenderer, topN int) *PresentationService {
	if topN <= 0 {
		topN = domain.DefaultTopN
	}
	return &PresentationService{renderer: renderer, topN: topN}
}

// Render draws the chart for table onto w.
func (s *PresentationService) Render(w io.Writer, table domain.EngagementTable) error {
	if s.renderer == nil {
		return errors.New("chart renderer not configured")
	}
	return s.renderer.Render(w, NewBarChart(table, s.topN))
}

// NewBarChart builds the labelled chart for the top n categories.
func NewBarChart(table domain.EngagementTable, n int) domain.BarChart {
	return domain.BarChart{
		Title:  fmt.Sprintf(chartTitleFormat, n),
		XLabel: chartXLabel,
		YLabel: chartYLabel,
		Bars:   ChartSeries(table, n),
	}
}

// ChartSeries selects the n highest-scoring categories and returns them in
// ascending order, so a horizontal chart drawn bottom-up puts the largest
// bar at the top.
func ChartSeries(table domain.EngagementTable, n int) domain.EngagementTable {
	sorted := make(domain.EngagementTable, len(table))
	copy(sorted, table)
	sorted.SortDescending()

	if n < 0 {
		n = 0
	}
	if n < len(sorted) {
		sorted = sorted[:n]
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EngagementScore < sorted[j].EngagementScore
	})
	return sorted
}
