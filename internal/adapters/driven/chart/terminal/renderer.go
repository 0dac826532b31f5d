package terminal

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/ytengage/internal/core/domain"
	"github.com/custodia-labs/ytengage/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.ChartRenderer = (*Renderer)(nil)

const (
	// fallbackWidth is used when the output is not a terminal.
	fallbackWidth = 100

	// minBarWidth keeps bars readable on narrow terminals.
	minBarWidth = 10

	// indent is the left margin of each bar row.
	indent = "  "

	barFull  = '█'
	barEmpty = '░'
)

// Renderer draws a horizontal bar chart as styled text.
type Renderer struct {
	styles *Styles
	width  int

	// termWidth reports the terminal width, or 0 when unknown.
	termWidth func() int
}

// NewRenderer creates a terminal chart renderer.
// width is the total line width; zero fits the terminal.
// styles is optional - if nil, the default theme is used.
func NewRenderer(width int, styles *Styles) *Renderer {
	if styles == nil {
		styles = NewStyles(nil)
	}
	return &Renderer{
		styles:    styles,
		width:     width,
		termWidth: stdoutWidth,
	}
}

// Render writes the chart to w. Bars are drawn top-down, so the last bar in
// plot order (the largest) appears first.
func (r *Renderer) Render(w io.Writer, chart domain.BarChart) error {
	var b strings.Builder

	b.WriteString(r.styles.Title.Render(chart.Title))
	b.WriteString("\n")

	if len(chart.Bars) == 0 {
		b.WriteString(r.styles.Value.Render("(no categories to display)"))
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	labelWidth := lipgloss.Width(chart.YLabel)
	valueWidth := 0
	maxScore := 0.0
	for _, bar := range chart.Bars {
		labelWidth = max(labelWidth, lipgloss.Width(bar.CategoryName))
		valueWidth = max(valueWidth, len(formatScore(bar.EngagementScore)))
		maxScore = max(maxScore, bar.EngagementScore)
	}

	barWidth := r.lineWidth() - len(indent) - labelWidth - valueWidth - 2
	barWidth = max(barWidth, minBarWidth)

	bar := progress.New(
		progress.WithSolidFill(string(r.styles.theme.Primary)),
		progress.WithoutPercentage(),
		progress.WithWidth(barWidth),
	)
	bar.Full = barFull
	bar.Empty = barEmpty

	b.WriteString(r.styles.Axis.Render(chart.YLabel))
	b.WriteString("\n")

	for i := len(chart.Bars) - 1; i >= 0; i-- {
		row := chart.Bars[i]
		ratio := 0.0
		if maxScore > 0 {
			ratio = row.EngagementScore / maxScore
		}

		label := r.styles.Category.Render(padRight(row.CategoryName, labelWidth))
		value := r.styles.Value.Render(formatScore(row.EngagementScore))
		fmt.Fprintf(&b, "%s%s %s %s\n", indent, label, bar.ViewAs(ratio), value)
	}

	b.WriteString(strings.Repeat(" ", len(indent)+labelWidth+1))
	b.WriteString(r.styles.Axis.Render(chart.XLabel))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// lineWidth resolves the configured or detected output width.
func (r *Renderer) lineWidth() int {
	if r.width > 0 {
		return r.width
	}
	if r.termWidth != nil {
		if w := r.termWidth(); w > 0 {
			return w
		}
	}
	return fallbackWidth
}

func stdoutWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
