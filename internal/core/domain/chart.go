package domain

// BarChart is a display-ready horizontal bar chart.
// Bars are in plot order: the first bar is drawn at the bottom.
type BarChart struct {
	Title  string
	XLabel string
	YLabel string
	Bars   []CategoryEngagement
}
