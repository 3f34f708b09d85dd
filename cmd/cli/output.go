package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#2C4A54")
	colorTitle   = lipgloss.Color("#20B9B4")
)

var styles = struct {
	Title   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Box     lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(colorTitle),
	Success: lipgloss.NewStyle().Foreground(colorSuccess),
	Error:   lipgloss.NewStyle().Bold(true).Foreground(colorError),
	Muted:   lipgloss.NewStyle().Foreground(colorMuted),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorTitle).
		Padding(0, 1),
}

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, styles.Title.Render(title))
}

func printSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, styles.Success.Render("✓ "+msg))
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, styles.Error.Render("✗ "+err.Error()))
}

func printMuted(w io.Writer, msg string) {
	fmt.Fprintln(w, styles.Muted.Render(msg))
}

// printJSON writes v indented. Records keep their column order.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printList(w io.Writer, title string, items []string, empty string) {
	printTitle(w, title)
	if len(items) == 0 {
		printMuted(w, empty)
		return
	}
	for _, item := range items {
		fmt.Fprintln(w, "  • "+item)
	}
}
