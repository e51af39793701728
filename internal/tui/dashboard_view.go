// internal/tui/dashboard_view.go
//
// dashboardView is the read-only statistics screen: headline numbers,
// a horizontal bar per question mean and one aggregate per competency
// category, all recomputed from the store on demand. The report is
// taller than any terminal, so it scrolls inside a viewport.

package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sac/internal/schema"
	"sac/internal/stats"
	"sac/internal/store"
)

const barWidth = 30

var (
	barFillStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	barEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
)

type dashboardView struct {
	app *App

	table       *store.Table
	semesterIdx int // 0 = todos
	viewport    viewport.Model
}

func newDashboardView(app *App) *dashboardView {
	v := &dashboardView{app: app}
	v.viewport = viewport.New(max(60, app.width-8), max(10, app.height-14))
	v.reload()
	return v
}

func (v *dashboardView) semesterChoices() []string {
	return append([]string{"Todos"}, v.app.config.Semesters()...)
}

func (v *dashboardView) reload() {
	table, err := v.app.store.ReadAll()
	if err != nil {
		v.app.reportStoreError(err)
		table = &store.Table{}
	}
	v.table = table
	v.viewport.SetContent(v.renderReport())
	v.viewport.GotoTop()
}

// filtered applies the semester selection.
func (v *dashboardView) filtered() *store.Table {
	choices := v.semesterChoices()
	if v.semesterIdx > 0 && v.semesterIdx < len(choices) {
		return stats.FilterEqual(v.table, schema.ColSemester, choices[v.semesterIdx])
	}
	return v.table
}

func (v *dashboardView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.viewport.Width = max(60, msg.Width-8)
		v.viewport.Height = max(10, msg.Height-14)
		return nil
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			if v.semesterIdx > 0 {
				v.semesterIdx--
				v.viewport.SetContent(v.renderReport())
				v.viewport.GotoTop()
			}
			return nil
		case "right", "l":
			if v.semesterIdx < len(v.semesterChoices())-1 {
				v.semesterIdx++
				v.viewport.SetContent(v.renderReport())
				v.viewport.GotoTop()
			}
			return nil
		case "r":
			v.reload()
			return nil
		}
	}
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return cmd
}

func (v *dashboardView) View() string {
	header := titleStyle.Render("PAINEL GERENCIAL") + "  " +
		hintStyle.Render(fmt.Sprintf("semestre: %s", v.semesterChoices()[v.semesterIdx]))
	help := hintStyle.Render("↑/↓ rolar    ←/→ semestre    r recarregar    Esc menu")
	return lipgloss.JoinVertical(lipgloss.Left, header, v.viewport.View(), help)
}

func (v *dashboardView) renderReport() string {
	table := v.filtered()
	summary := stats.Summarize(table)
	if !summary.HasData {
		return hintStyle.Render("Nenhuma resposta na base para este filtro.")
	}

	view := stats.BuildNumericView(table)
	var b strings.Builder

	b.WriteString(titleStyle.Render("VISÃO GERAL"))
	b.WriteString("\n")
	last := "—"
	if summary.HasLast {
		last = schema.FormatTime(summary.LastEntry)
	}
	b.WriteString(fmt.Sprintf("Formulários: %d    Média geral: %s    Desvio padrão: %s    Último registro: %s\n\n",
		summary.Forms, formatMean(summary.Mean), formatMean(summary.StdDev), last))

	b.WriteString(titleStyle.Render("REGISTROS"))
	b.WriteString("\n")
	for i := range table.Rows {
		b.WriteString(fmt.Sprintf("  %-40s %-12s %s\n",
			truncateLabel(table.Get(i, schema.ColName), 40),
			table.Get(i, schema.ColMatricula),
			table.Get(i, schema.ColCreatedAt)))
	}
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("MÉDIA POR CATEGORIA"))
	b.WriteString("\n")
	for _, cm := range stats.CategoryMeans(view) {
		b.WriteString(renderBar(string(cm.Category), cm.Mean, cm.Count))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("MÉDIA POR QUESTÃO"))
	b.WriteString("\n")
	for _, qm := range stats.QuestionMeans(view) {
		b.WriteString(renderBar(schema.DisplayLabel(qm.Key), qm.Mean, qm.Count))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("DESTAQUES POR CATEGORIA (ordem crescente)"))
	b.WriteString("\n")
	for _, cat := range schema.Categories {
		ranked := stats.CategoryColumnMeans(view, cat)
		if len(ranked) == 0 {
			continue
		}
		b.WriteString(selectedStyle.Render(string(cat)))
		b.WriteString("\n")
		for _, qm := range ranked {
			b.WriteString(fmt.Sprintf("  %-12s %s  %s\n", schema.DisplayLabel(qm.Key), formatMean(qm.Mean), truncateLabel(qm.Label, 60)))
		}
	}
	return b.String()
}

// renderBar draws one horizontal bar scaled to the 0-5 rating range.
func renderBar(label string, mean float64, count int) string {
	if count == 0 || math.IsNaN(mean) {
		return fmt.Sprintf("%-28s %s", truncateLabel(label, 28), hintStyle.Render("sem dados"))
	}
	filled := int(math.Round(mean / 5 * barWidth))
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	bar := barFillStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%-28s %s %s (%d)", truncateLabel(label, 28), bar, formatMean(mean), count)
}

func formatMean(v float64) string {
	if math.IsNaN(v) {
		return "—"
	}
	return fmt.Sprintf("%.2f", v)
}

func truncateLabel(label string, maxLen int) string {
	runes := []rune(label)
	if len(runes) <= maxLen {
		return label
	}
	return string(runes[:maxLen-1]) + "…"
}
