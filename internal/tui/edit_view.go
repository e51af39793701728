// internal/tui/edit_view.go
//
// editView corrects a record that is already in the store: pick the
// row by name, matrícula or semester, then adjust the identity block,
// re-score one question at a time and touch up the required reflection
// fields. The save path rewrites the whole file atomically through
// Store.UpdateRow.

package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"sac/internal/rating"
	"sac/internal/schema"
	"sac/internal/stats"
	"sac/internal/store"
)

type editPhase int

const (
	phasePick editPhase = iota
	phaseForm
)

// form rows, in screen order
const (
	editEvaluator = iota
	editName
	editMatricula
	editSemester
	editCurriculum
	editQuestion
	editRating
	editFortes
	editFracos
	editFinal
	editRowCount
)

type editView struct {
	app *App

	phase editPhase

	table       *store.Table
	rowIdx      []int // filtered view into table.Rows
	cursor      int
	search      textinput.Model
	searching   bool
	semesterIdx int // 0 = todos

	recordID   string
	row        int
	focusField int

	nameInput      textinput.Model
	matriculaInput textinput.Model
	fortesInput    textinput.Model
	fracosInput    textinput.Model
	finalInput     textinput.Model

	evaluator  string
	semester   string
	curriculum string

	questionIdx int
	choice      *rating.ChoiceGroup
	rescored    map[string]string // question key -> new rating, pending save

	errMsg string
}

func newEditView(app *App) *editView {
	search := textinput.New()
	search.Placeholder = "Buscar por nome ou matrícula"
	search.CharLimit = 80

	v := &editView{
		app:      app,
		phase:    phasePick,
		search:   search,
		rescored: map[string]string{},
	}
	v.nameInput = textinput.New()
	v.nameInput.CharLimit = 120
	v.matriculaInput = textinput.New()
	v.matriculaInput.CharLimit = 32
	v.fortesInput = textinput.New()
	v.fortesInput.CharLimit = 4000
	v.fracosInput = textinput.New()
	v.fracosInput.CharLimit = 4000
	v.finalInput = textinput.New()
	v.finalInput.CharLimit = 4000

	v.reload()
	return v
}

// reload back-fills missing record ids, re-reads the table and rebuilds
// the filtered listing.
func (v *editView) reload() {
	if err := v.app.store.EnsureRecordIDs(uuid.NewString); err != nil {
		v.app.reportStoreError(err)
	}
	table, err := v.app.store.ReadAll()
	if err != nil {
		v.app.reportStoreError(err)
		table = &store.Table{}
	}
	v.table = table
	v.applyFilter()
}

func (v *editView) consumesEsc() bool {
	return v.searching || (v.phase == phaseForm && v.textFieldFocused())
}

func (v *editView) textFieldFocused() bool {
	switch v.focusField {
	case editName:
		return v.nameInput.Focused()
	case editMatricula:
		return v.matriculaInput.Focused()
	case editFortes:
		return v.fortesInput.Focused()
	case editFracos:
		return v.fracosInput.Focused()
	case editFinal:
		return v.finalInput.Focused()
	}
	return false
}

// semesterChoices returns the filter values with "todos" first.
func (v *editView) semesterChoices() []string {
	return append([]string{"Todos"}, v.app.config.Semesters()...)
}

func (v *editView) applyFilter() {
	filtered := v.table
	choices := v.semesterChoices()
	if v.semesterIdx > 0 && v.semesterIdx < len(choices) {
		filtered = stats.FilterEqual(filtered, schema.ColSemester, choices[v.semesterIdx])
	}
	query := strings.TrimSpace(v.search.Value())
	if query != "" {
		byName := stats.FilterContains(filtered, schema.ColName, query)
		if len(byName.Rows) == 0 {
			byName = stats.FilterContains(filtered, schema.ColMatricula, query)
		}
		filtered = byName
	}

	v.rowIdx = v.rowIdx[:0]
	for i := range filtered.Rows {
		id := filtered.Rows[i][schema.ColRecordID]
		orig := v.table.FindRow(schema.ColRecordID, id)
		if orig >= 0 {
			v.rowIdx = append(v.rowIdx, orig)
		}
	}
	if v.cursor >= len(v.rowIdx) {
		v.cursor = max(0, len(v.rowIdx)-1)
	}
}

func (v *editView) Update(msg tea.Msg) tea.Cmd {
	if v.phase == phasePick {
		return v.updatePick(msg)
	}
	return v.updateForm(msg)
}

func (v *editView) updatePick(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if v.searching {
		switch key.String() {
		case "enter", "esc":
			v.searching = false
			v.search.Blur()
			v.applyFilter()
			return nil
		}
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		v.applyFilter()
		return cmd
	}
	switch key.String() {
	case "/":
		v.searching = true
		v.search.Focus()
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.rowIdx)-1 {
			v.cursor++
		}
	case "left", "h":
		if v.semesterIdx > 0 {
			v.semesterIdx--
			v.applyFilter()
		}
	case "right", "l":
		if v.semesterIdx < len(v.semesterChoices())-1 {
			v.semesterIdx++
			v.applyFilter()
		}
	case "r":
		v.reload()
	case "enter":
		if len(v.rowIdx) > 0 {
			v.openRecord(v.rowIdx[v.cursor])
		}
	}
	return nil
}

// openRecord seeds the form widgets from one table row.
func (v *editView) openRecord(row int) {
	v.row = row
	v.recordID = v.table.Get(row, schema.ColRecordID)
	v.phase = phaseForm
	v.focusField = editEvaluator
	v.errMsg = ""
	v.rescored = map[string]string{}

	v.evaluator = v.table.Get(row, schema.ColEvaluator)
	v.semester = v.table.Get(row, schema.ColSemester)
	v.curriculum = v.table.Get(row, schema.ColCurriculum)
	v.nameInput.SetValue(v.table.Get(row, schema.ColName))
	v.matriculaInput.SetValue(v.table.Get(row, schema.ColMatricula))
	for _, pair := range []struct {
		key   string
		input *textinput.Model
	}{{"fortes", &v.fortesInput}, {"fracos", &v.fracosInput}, {"final", &v.finalInput}} {
		if f, ok := schema.ReflectionByKey(pair.key); ok {
			pair.input.SetValue(v.table.Get(row, f.Column))
		}
	}

	v.questionIdx = 0
	v.seedChoice()
	v.app.logInfo("Edição aberta · registro %s", v.recordID)
}

// seedChoice loads the rating of the currently selected question into
// a fresh choice group, preferring a pending re-score over the stored
// cell so cycling back to a question shows what will be saved.
func (v *editView) seedChoice() {
	v.choice = rating.NewChoiceGroup(
		rating.Parse(v.app.config.DefaultRating()),
		rating.ParsePolicy(v.app.config.DuplicatePolicy()),
	)
	key := schema.Catalog[v.questionIdx].Key
	if pending, ok := v.rescored[key]; ok {
		v.choice.Seed(pending)
		return
	}
	v.choice.Seed(v.table.Get(v.row, key))
}

func (v *editView) updateForm(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v.routeFormInput(msg)
	}
	if v.textFieldFocused() {
		switch key.String() {
		case "enter", "esc":
			v.blurTextFields()
			return nil
		case "ctrl+s":
			return v.save()
		case "up", "down", "tab":
			// fall through to navigation below
		default:
			return v.routeFormInput(msg)
		}
	}
	switch key.String() {
	case "up", "k":
		if v.focusField > 0 {
			v.focusField--
		}
		v.syncFormFocus()
	case "down", "j", "tab":
		if v.focusField < editRowCount-1 {
			v.focusField++
		}
		v.syncFormFocus()
	case "enter":
		if v.textFieldTarget() {
			v.syncFormFocus()
		}
	case "left", "h":
		v.cycleFormField(-1)
	case "right", "l":
		v.cycleFormField(1)
	case "0", "1", "2", "3", "4", "5":
		if v.focusField == editRating {
			v.choice.Mark(rating.Rating(key.String()))
			v.markTouched()
		}
	case "n":
		if v.focusField == editRating {
			v.choice.Mark(rating.NotApplicable)
			v.markTouched()
		}
	case "x":
		if v.focusField == editRating {
			v.choice.Clear()
			v.markTouched()
		}
	case "b":
		v.phase = phasePick
		v.errMsg = ""
	case "ctrl+s":
		return v.save()
	}
	return nil
}

func (v *editView) markTouched() {
	v.rescored[schema.Catalog[v.questionIdx].Key] = string(v.choice.Selected())
}

func (v *editView) textFieldTarget() bool {
	switch v.focusField {
	case editName, editMatricula, editFortes, editFracos, editFinal:
		return true
	}
	return false
}

func (v *editView) cycleFormField(delta int) {
	switch v.focusField {
	case editEvaluator:
		v.evaluator = nextRosterValue(v.app.config.Evaluators(), v.evaluator, delta)
	case editSemester:
		v.semester = nextRosterValue(v.app.config.Semesters(), v.semester, delta)
	case editCurriculum:
		v.curriculum = nextRosterValue(v.app.config.Curricula(), v.curriculum, delta)
	case editQuestion:
		n := len(schema.Catalog)
		v.questionIdx = (v.questionIdx + delta + n) % n
		v.seedChoice()
	case editRating:
		v.choice.Cycle(delta)
		v.markTouched()
	}
}

func (v *editView) blurTextFields() {
	v.nameInput.Blur()
	v.matriculaInput.Blur()
	v.fortesInput.Blur()
	v.fracosInput.Blur()
	v.finalInput.Blur()
}

func (v *editView) syncFormFocus() {
	v.blurTextFields()
	switch v.focusField {
	case editName:
		v.nameInput.Focus()
	case editMatricula:
		v.matriculaInput.Focus()
	case editFortes:
		v.fortesInput.Focus()
	case editFracos:
		v.fracosInput.Focus()
	case editFinal:
		v.finalInput.Focus()
	}
}

func (v *editView) routeFormInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch v.focusField {
	case editName:
		v.nameInput, cmd = v.nameInput.Update(msg)
	case editMatricula:
		v.matriculaInput, cmd = v.matriculaInput.Update(msg)
	case editFortes:
		v.fortesInput, cmd = v.fortesInput.Update(msg)
	case editFracos:
		v.fracosInput, cmd = v.fracosInput.Update(msg)
	case editFinal:
		v.finalInput, cmd = v.finalInput.Update(msg)
	}
	return cmd
}

// save validates (when configured to) and writes every pending change
// in a single atomic row update.
func (v *editView) save() tea.Cmd {
	v.blurTextFields()
	if v.app.config.ValidateOnEdit() {
		var missing []string
		if strings.TrimSpace(v.nameInput.Value()) == "" {
			missing = append(missing, "Nome do Discente")
		}
		if strings.TrimSpace(v.evaluator) == "" {
			missing = append(missing, "Petiano Responsável")
		}
		for _, pair := range []struct {
			value string
			key   string
		}{{v.fortesInput.Value(), "fortes"}, {v.fracosInput.Value(), "fracos"}, {v.finalInput.Value(), "final"}} {
			if strings.TrimSpace(pair.value) == "" {
				if f, ok := schema.ReflectionByKey(pair.key); ok {
					missing = append(missing, f.Title)
				}
			}
		}
		if len(missing) > 0 {
			v.errMsg = fmt.Sprintf("campos obrigatórios vazios: %s", strings.Join(missing, ", "))
			return nil
		}
	}

	changes := map[string]string{
		schema.ColEvaluator:  strings.TrimSpace(v.evaluator),
		schema.ColName:       strings.TrimSpace(v.nameInput.Value()),
		schema.ColMatricula:  strings.TrimSpace(v.matriculaInput.Value()),
		schema.ColSemester:   v.semester,
		schema.ColCurriculum: v.curriculum,
	}
	for _, pair := range []struct {
		key   string
		value string
	}{{"fortes", v.fortesInput.Value()}, {"fracos", v.fracosInput.Value()}, {"final", v.finalInput.Value()}} {
		if f, ok := schema.ReflectionByKey(pair.key); ok {
			changes[f.Column] = strings.TrimSpace(pair.value)
		}
	}
	for key, value := range v.rescored {
		changes[key] = value
	}

	if err := v.app.store.UpdateRow(v.recordID, changes); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			v.errMsg = "registro não encontrado: a base mudou fora do S.A.C."
			v.phase = phasePick
			v.reload()
			return nil
		}
		v.app.reportStoreError(err)
		v.errMsg = err.Error()
		return nil
	}
	v.app.logInfo("Registro atualizado · %s", v.recordID)
	v.app.statusMsg = successStyle.Render("Registro atualizado com sucesso.")
	v.phase = phasePick
	v.errMsg = ""
	v.reload()
	return nil
}

func (v *editView) View() string {
	if v.phase == phasePick {
		return v.viewPick()
	}
	return v.viewForm()
}

func (v *editView) viewPick() string {
	var lines []string
	lines = append(lines, titleStyle.Render("EDITAR REGISTRO"))
	lines = append(lines, fmt.Sprintf("Semestre: %s    Busca: %s",
		selectedStyle.Render(v.semesterChoices()[v.semesterIdx]), v.search.View()))
	lines = append(lines, "")
	if len(v.rowIdx) == 0 {
		lines = append(lines, hintStyle.Render("Nenhum registro encontrado."))
	}
	const window = 12
	start := max(0, v.cursor-window/2)
	end := min(len(v.rowIdx), start+window)
	for i := start; i < end; i++ {
		row := v.rowIdx[i]
		entry := fmt.Sprintf("%-40s %-12s %s",
			v.table.Get(row, schema.ColName),
			v.table.Get(row, schema.ColMatricula),
			v.table.Get(row, schema.ColCreatedAt))
		if i == v.cursor {
			lines = append(lines, selectedStyle.Render("▸ "+entry))
		} else {
			lines = append(lines, "  "+entry)
		}
	}
	lines = append(lines, "")
	lines = append(lines, hintStyle.Render("↑/↓ registro    ←/→ semestre    / buscar    r recarregar    Enter abrir"))
	return strings.Join(lines, "\n")
}

func (v *editView) viewForm() string {
	q := schema.Catalog[v.questionIdx]

	var scale []string
	for _, r := range rating.Scale {
		cell := string(r)
		if v.choice.IsSelected(r) {
			cell = "[" + cell + "]"
		} else {
			cell = " " + cell + " "
		}
		scale = append(scale, cell)
	}

	rows := []struct {
		label string
		value string
	}{
		{"Petiano Responsável", v.evaluator},
		{"Nome do Discente", v.nameInput.View()},
		{"Matrícula", v.matriculaInput.View()},
		{"Semestre", v.semester},
		{"Currículo", v.curriculum},
		{"Questão", fmt.Sprintf("%s · %s", schema.DisplayLabel(q.Key), q.Label)},
		{"Nota", strings.Join(scale, "")},
		{"Pontos Fortes", v.fortesInput.View()},
		{"Pontos a Desenvolver", v.fracosInput.View()},
		{"Comentários Finais", v.finalInput.View()},
	}

	var lines []string
	lines = append(lines, titleStyle.Render(fmt.Sprintf("EDITANDO · %s", v.table.Get(v.row, schema.ColName))))
	lines = append(lines, hintStyle.Render(fmt.Sprintf("registro %s · criado em %s", v.recordID, v.table.Get(v.row, schema.ColCreatedAt))))
	lines = append(lines, "")
	for i, row := range rows {
		value := row.value
		if value == "" {
			value = hintStyle.Render("—")
		}
		line := fmt.Sprintf("%-24s %s", row.label, value)
		if i == v.focusField {
			lines = append(lines, selectedStyle.Render("▸ ")+line)
		} else {
			lines = append(lines, "  "+line)
		}
	}
	if v.errMsg != "" {
		lines = append(lines, "", errorStyle.Render("⚠ "+v.errMsg))
	}
	lines = append(lines, "", hintStyle.Render("↑/↓ campo    ←/→ valor    0-5/n/x nota    Ctrl+S salvar    b voltar"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
