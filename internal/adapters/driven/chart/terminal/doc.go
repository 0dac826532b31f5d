// Package terminal renders bar charts as styled text for a terminal.
//
// Bars are drawn with the bubbles progress component and coloured through
// lipgloss. When stdout is not a terminal, output degrades to plain text.
package terminal
