package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/report"
	"github.com/matzehuels/tagscout/pkg/session"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for failure reasons.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleBorder  = lipgloss.NewStyle().Foreground(colorDim)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconPending = "·"
	iconChanged = "↑"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printSummary prints the package counts of a run on a single line.
func printSummary(run *session.Run, changes int) {
	total, ok, failed := run.Counts()
	line := fmt.Sprintf("%d packages", total) +
		StyleDim.Render(" · ") + StyleSuccess.Render(fmt.Sprintf("%d resolved", ok))
	if failed > 0 {
		line += StyleDim.Render(" · ") + StyleError.Render(fmt.Sprintf("%d failed", failed))
	}
	if changes > 0 {
		line += StyleDim.Render(" · ") + StyleHighlight.Render(fmt.Sprintf("%d changed", changes))
	}
	fmt.Println("  " + line)
}

// =============================================================================
// Tables
// =============================================================================

// outcomeTable renders outcomes as a bordered table. Packages present in
// changes are marked with the version they replaced.
func outcomeTable(outcomes []session.Outcome, changes []report.Change) *table.Table {
	changed := make(map[string]report.Change, len(changes))
	for _, ch := range changes {
		changed[ch.Package] = ch
	}

	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.OK() {
			rows = append(rows, []string{iconError, o.Package, "—", "—", o.FailureReason})
			continue
		}
		note := o.Resolved.Strategy
		if ch, ok := changed[o.Package]; ok {
			if ch.From == "" {
				note = "new"
			} else {
				note = iconChanged + " was " + ch.From
			}
		}
		date := ecosystem.FormatDate(o.Resolved.ReleaseDate)
		if date == "" {
			date = "—"
		}
		rows = append(rows, []string{iconSuccess, o.Package, o.Resolved.Version, date, note})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("", "Package", "Version", "Released", "Note").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			o := outcomes[row]
			switch {
			case !o.OK() && (col == 0 || col == 4):
				return StyleError
			case !o.OK():
				return StyleDim
			case col == 0:
				return StyleSuccess
			case col == 2:
				return StyleHighlight
			case col == 4:
				if _, ok := changed[o.Package]; ok {
					return StyleWarning
				}
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
}

// runsTable renders stored run summaries, newest first.
func runsTable(runs []*session.Run) *table.Table {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		total, ok, failed := r.Counts()
		rows = append(rows, []string{
			shortID(r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			formatRelativeTime(r.StartedAt, time.Now()),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String(),
			strconv.Itoa(total),
			strconv.Itoa(ok),
			strconv.Itoa(failed),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("Run", "Started", "", "Duration", "Packages", "OK", "Failed").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			switch col {
			case 0:
				return StyleHighlight
			case 2, 3:
				return StyleDim
			case 6:
				if rows[row][6] != "0" {
					return StyleError
				}
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
}

// renderTable writes t followed by a newline.
func renderTable(w io.Writer, t *table.Table) {
	fmt.Fprintln(w, t.Render())
}

// =============================================================================
// Helpers
// =============================================================================

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
