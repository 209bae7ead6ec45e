package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/abelbrown/medview/internal/acquire"
	"github.com/abelbrown/medview/internal/staging"
	"github.com/abelbrown/medview/internal/ui/tabs"
)

// chartColumnWidth is the preferred width of one chart on the dashboard.
const chartColumnWidth = 48

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.debugVisible {
		return lipgloss.JoinVertical(lipgloss.Left,
			debugOverlay(a.ring, a.styles, a.width, a.height-1),
			debugStatusBar(a.styles, a.width))
	}

	sections := []string{
		a.renderHeader(),
		a.renderTabs(),
		a.renderPanel(),
	}
	if n := a.renderNotifications(); n != "" {
		sections = append(sections, n)
	}
	if a.coord.Loading() {
		sections = append(sections, a.styles.Overlay.Render(a.spinner.View()+" Processing data..."))
	} else if a.renderer.Visible() {
		sections = append(sections, a.viewport.View())
	}
	if a.showHelp {
		sections = append(sections, a.help.FullHelpView(keyMap{app: &a}.FullHelp()))
	}
	sections = append(sections, a.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a App) renderHeader() string {
	mode := "light"
	if a.theme.IsDark() {
		mode = "dark"
	}
	return a.styles.Header.Width(a.width).Render("medview · Medical Analytics Dashboard  [" + mode + "]")
}

func (a App) renderTabs() string {
	var parts []string
	for i, p := range tabs.Panels {
		label := fmt.Sprintf("%d %s", i+1, p)
		if a.tabs.IsActive(p) {
			parts = append(parts, a.styles.TabActive.Render(label))
		} else {
			parts = append(parts, a.styles.TabInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a App) renderPanel() string {
	var body string
	switch a.tabs.Active() {
	case tabs.Upload:
		body = a.renderUpload()
	case tabs.Remote:
		body = a.renderRemote()
	case tabs.Sample:
		body = a.styles.Text.Render("Load the bundled sample dataset.") + "\n" +
			a.styles.Muted.Render("enter: load sample data")
	}
	return a.styles.Panel.Width(max(a.width-2, 20)).Render(body)
}

func (a App) renderUpload() string {
	var b strings.Builder
	b.WriteString(a.styles.Muted.Render("Drop " + staging.Extension + " files on the terminal, or press a to enter paths."))
	b.WriteByte('\n')
	if a.prompting {
		b.WriteString(a.prompt.View())
		b.WriteByte('\n')
	}

	files := a.staging.Files()
	if len(files) == 0 {
		b.WriteString(a.styles.Muted.Render("No files staged"))
	}
	for i, f := range files {
		line := fmt.Sprintf("%s  %s", f.Name, humanize.Bytes(uint64(max(f.Size, 0))))
		if i == a.cursor {
			b.WriteString(a.styles.Selected.Render(line))
		} else {
			b.WriteString(a.styles.Text.Render("  " + line))
		}
		b.WriteByte('\n')
	}
	if len(files) > 0 {
		b.WriteString(a.styles.Muted.Render(fmt.Sprintf("%d files, %s total", len(files), humanize.Bytes(uint64(max(a.staging.TotalSize(), 0))))))
		b.WriteByte('\n')
	}

	submit := "[ Upload and Analyze ]"
	if a.staging.SubmitEnabled() {
		b.WriteString(a.styles.Key.Render(submit))
	} else {
		b.WriteString(a.styles.Disabled.Render(submit))
	}
	return b.String()
}

func (a App) renderRemote() string {
	var parts []string
	for i, p := range a.periods {
		label := acquire.PeriodLabel(p)
		if i == a.period {
			parts = append(parts, a.styles.TabActive.Render(label))
		} else {
			parts = append(parts, a.styles.TabInactive.Render(label))
		}
	}
	return a.styles.Text.Render("Period") + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, parts...) + "\n" +
		a.styles.Muted.Render("[ ]: change period  enter: fetch from "+acquire.RemoteSource(a.Period()))
}

func (a App) renderNotifications() string {
	live := a.notify.Live()
	if len(live) == 0 {
		return ""
	}
	lines := make([]string, len(live))
	for i, n := range live {
		text := n.Message + "  " + humanize.RelTime(n.CreatedAt, now(), "ago", "from now")
		if n.Hiding {
			lines[i] = a.styles.Hiding.Render(text)
		} else {
			lines[i] = a.styles.Notification.Render(text)
		}
	}
	return strings.Join(lines, "\n")
}

func (a App) renderStatusBar() string {
	left := "No data loaded"
	if a.renderer.Visible() {
		left = fmt.Sprintf("Source: %s  Total patients: %s",
			a.coord.Source(), humanize.Comma(int64(a.coord.TotalPatients())))
	}
	if a.coord.Loading() {
		left = a.spinner.View() + " Loading..."
	}
	right := a.help.ShortHelpView(keyMap{app: &a}.ShortHelp())
	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return a.styles.StatusBar.Width(a.width).Render(left + strings.Repeat(" ", gap) + right)
}

// resizeViewport gives the dashboard whatever height the fixed sections
// leave over.
func (a *App) resizeViewport() {
	a.viewport.Width = a.width
	a.viewport.Height = max(a.height-14, 5)
}

// refreshDashboard redraws the charts into the viewport.
func (a *App) refreshDashboard() {
	if !a.renderer.Visible() {
		return
	}
	a.viewport.SetContent(a.renderDashboard())
}

func (a *App) renderDashboard() string {
	cols := max(a.width/chartColumnWidth, 1)
	colWidth := max(a.width/cols-4, 20)

	summary := a.styles.Title.Render("Total Patients ") +
		a.styles.Text.Render(humanize.Comma(int64(a.coord.TotalPatients()))) +
		a.styles.Muted.Render("   Data Source: "+a.coord.Source())

	var rows []string
	var row []string
	for _, c := range a.renderer.Live() {
		row = append(row, a.styles.Panel.Width(colWidth).Render(c.Draw(colWidth-2)))
		if len(row) == cols {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{summary}, rows...)...)
}
