// internal/tui/transcribe_view.go
//
// transcribeView is the paper-to-digital entry screen. The operator
// walks the six form sections, marks one scale cell per question the
// way the respondent did on paper, and types margin notes and the open
// reflection fields verbatim. Every mutation snapshots the draft so a
// crash never loses a half-transcribed form.

package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sac/internal/rating"
	"sac/internal/schema"
	"sac/internal/session"
)

type transcribeFocus int

const (
	focusQuestions transcribeFocus = iota
	focusIdentity
	focusComment
	focusReflection
)

// identity rows, in sidebar order
const (
	identEvaluator = iota
	identName
	identMatricula
	identSemester
	identCurriculum
	identityRowCount
)

type transcribeView struct {
	app *App

	focus         transcribeFocus
	qIndex        int // row within the current section (questions, then reflections)
	identityField int

	nameInput      textinput.Model
	matriculaInput textinput.Model
	commentInput   textinput.Model
	commentKey     string
	reflectionArea textarea.Model
	reflectionKey  string

	errMsg string
}

func newTranscribeView(app *App) *transcribeView {
	name := textinput.New()
	name.Placeholder = "Nome completo do discente"
	name.CharLimit = 120
	name.SetValue(app.session.Identity().SubjectName)

	matricula := textinput.New()
	matricula.Placeholder = "Matrícula"
	matricula.CharLimit = 32
	matricula.SetValue(app.session.Identity().Matricula)

	comment := textinput.New()
	comment.Placeholder = "Observação escrita na margem (ipsis litteris)"
	comment.CharLimit = 500

	reflection := textarea.New()
	reflection.Placeholder = "Transcreva o texto manuscrito"
	reflection.SetHeight(6)
	reflection.CharLimit = 4000

	return &transcribeView{
		app:            app,
		focus:          focusQuestions,
		nameInput:      name,
		matriculaInput: matricula,
		commentInput:   comment,
		reflectionArea: reflection,
	}
}

func (v *transcribeView) consumesEsc() bool {
	return v.focus == focusComment || v.focus == focusReflection
}

// rows returns how many selectable rows the current section has. The
// last section appends the reflection fields below its question.
func (v *transcribeView) rows() int {
	section := schema.Sections[v.app.session.Section()]
	n := section.End - section.Start
	if v.onLastSection() {
		n += len(schema.ReflectionFields)
	}
	return n
}

func (v *transcribeView) onLastSection() bool {
	return v.app.session.Section() == len(schema.Sections)-1
}

// currentQuestion returns the question under the cursor, or false when
// the cursor sits on a reflection row.
func (v *transcribeView) currentQuestion() (schema.Question, bool) {
	section := schema.Sections[v.app.session.Section()]
	qs := section.Questions()
	if v.qIndex < len(qs) {
		return qs[v.qIndex], true
	}
	return schema.Question{}, false
}

func (v *transcribeView) currentReflection() (schema.ReflectionField, bool) {
	section := schema.Sections[v.app.session.Section()]
	ri := v.qIndex - (section.End - section.Start)
	if v.onLastSection() && ri >= 0 && ri < len(schema.ReflectionFields) {
		return schema.ReflectionFields[ri], true
	}
	return schema.ReflectionField{}, false
}

func (v *transcribeView) Update(msg tea.Msg) tea.Cmd {
	switch v.focus {
	case focusComment:
		return v.updateComment(msg)
	case focusReflection:
		return v.updateReflection(msg)
	case focusIdentity:
		return v.updateIdentity(msg)
	}
	return v.updateQuestions(msg)
}

func (v *transcribeView) updateQuestions(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "tab":
		v.focus = focusIdentity
		v.syncIdentityFocus()
	case "up", "k":
		if v.qIndex > 0 {
			v.qIndex--
		}
	case "down", "j":
		if v.qIndex < v.rows()-1 {
			v.qIndex++
		}
	case "left", "h":
		if q, ok := v.currentQuestion(); ok {
			v.app.session.Answer(q.Key).Choice.Cycle(-1)
			v.app.session.SnapshotDraft()
		}
	case "right", "l":
		if q, ok := v.currentQuestion(); ok {
			v.app.session.Answer(q.Key).Choice.Cycle(1)
			v.app.session.SnapshotDraft()
		}
	case "0", "1", "2", "3", "4", "5":
		if q, ok := v.currentQuestion(); ok {
			v.app.session.Answer(q.Key).Choice.Mark(rating.Rating(key.String()))
			v.app.session.SnapshotDraft()
		}
	case "n":
		if q, ok := v.currentQuestion(); ok {
			v.app.session.Answer(q.Key).Choice.Mark(rating.NotApplicable)
			v.app.session.SnapshotDraft()
		}
	case "x":
		if q, ok := v.currentQuestion(); ok {
			v.app.session.Answer(q.Key).Choice.Clear()
			v.app.session.SnapshotDraft()
		}
	case "c":
		if q, ok := v.currentQuestion(); ok {
			v.openComment(q)
		}
	case "enter":
		if f, ok := v.currentReflection(); ok {
			v.openReflection(f)
		} else if q, ok := v.currentQuestion(); ok {
			v.openComment(q)
		}
	case "pgdown", "]":
		if v.app.session.Advance() {
			v.qIndex = 0
			v.errMsg = ""
		}
	case "pgup", "[":
		if v.app.session.Jump(v.app.session.Section() - 1) {
			v.qIndex = 0
			v.errMsg = ""
			v.app.session.SnapshotDraft()
		}
	case "ctrl+s":
		return v.finalize()
	case "ctrl+r":
		v.app.session.Reset()
		v.qIndex = 0
		v.errMsg = ""
		v.nameInput.SetValue("")
		v.matriculaInput.SetValue("")
		v.app.statusMsg = "Formulário limpo. Nova transcrição iniciada."
	}
	return nil
}

func (v *transcribeView) openComment(q schema.Question) {
	v.commentKey = q.Key
	v.commentInput.SetValue(v.app.session.Answer(q.Key).Comment)
	v.commentInput.CursorEnd()
	v.commentInput.Focus()
	v.focus = focusComment
}

func (v *transcribeView) updateComment(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter", "esc":
			v.app.session.SetComment(v.commentKey, v.commentInput.Value())
			v.app.session.SnapshotDraft()
			v.commentInput.Blur()
			v.focus = focusQuestions
			return nil
		}
	}
	var cmd tea.Cmd
	v.commentInput, cmd = v.commentInput.Update(msg)
	return cmd
}

func (v *transcribeView) openReflection(f schema.ReflectionField) {
	v.reflectionKey = f.Key
	v.reflectionArea.SetValue(v.app.session.Reflection(f.Key))
	v.reflectionArea.Focus()
	v.focus = focusReflection
}

func (v *transcribeView) updateReflection(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			v.app.session.SetReflection(v.reflectionKey, v.reflectionArea.Value())
			v.app.session.SnapshotDraft()
			v.reflectionArea.Blur()
			v.focus = focusQuestions
			return nil
		case "ctrl+s":
			v.app.session.SetReflection(v.reflectionKey, v.reflectionArea.Value())
			v.app.session.SnapshotDraft()
			v.reflectionArea.Blur()
			v.focus = focusQuestions
			return v.finalize()
		}
	}
	var cmd tea.Cmd
	v.reflectionArea, cmd = v.reflectionArea.Update(msg)
	return cmd
}

func (v *transcribeView) updateIdentity(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v.routeIdentityInput(msg)
	}
	switch key.String() {
	case "tab":
		v.commitIdentityText()
		v.focus = focusQuestions
		v.nameInput.Blur()
		v.matriculaInput.Blur()
		return nil
	case "up":
		v.commitIdentityText()
		if v.identityField > 0 {
			v.identityField--
		}
		v.syncIdentityFocus()
		return nil
	case "down", "enter":
		v.commitIdentityText()
		if v.identityField < identityRowCount-1 {
			v.identityField++
		}
		v.syncIdentityFocus()
		return nil
	case "left":
		if v.cycleRoster(-1) {
			return nil
		}
	case "right":
		if v.cycleRoster(1) {
			return nil
		}
	case "ctrl+s":
		v.commitIdentityText()
		return v.finalize()
	}
	return v.routeIdentityInput(msg)
}

// cycleRoster advances the roster-backed identity fields. Free-text
// fields report false so arrow keys reach the text input.
func (v *transcribeView) cycleRoster(delta int) bool {
	ident := v.app.session.Identity()
	switch v.identityField {
	case identEvaluator:
		ident.Evaluator = nextRosterValue(v.app.config.Evaluators(), ident.Evaluator, delta)
	case identSemester:
		ident.Semester = nextRosterValue(v.app.config.Semesters(), ident.Semester, delta)
	case identCurriculum:
		ident.Curriculum = nextRosterValue(v.app.config.Curricula(), ident.Curriculum, delta)
	default:
		return false
	}
	v.app.session.SnapshotDraft()
	return true
}

func (v *transcribeView) routeIdentityInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch v.identityField {
	case identName:
		v.nameInput, cmd = v.nameInput.Update(msg)
		v.app.session.Identity().SubjectName = v.nameInput.Value()
	case identMatricula:
		v.matriculaInput, cmd = v.matriculaInput.Update(msg)
		v.app.session.Identity().Matricula = v.matriculaInput.Value()
	default:
		return nil
	}
	v.app.session.SnapshotDraft()
	return cmd
}

func (v *transcribeView) commitIdentityText() {
	ident := v.app.session.Identity()
	ident.SubjectName = v.nameInput.Value()
	ident.Matricula = v.matriculaInput.Value()
	v.app.session.SnapshotDraft()
}

func (v *transcribeView) syncIdentityFocus() {
	v.nameInput.Blur()
	v.matriculaInput.Blur()
	if v.focus != focusIdentity {
		return
	}
	switch v.identityField {
	case identName:
		v.nameInput.Focus()
	case identMatricula:
		v.matriculaInput.Focus()
	}
}

// finalize validates and appends the finished record. Validation
// failures stay on screen with all answers intact.
func (v *transcribeView) finalize() tea.Cmd {
	v.commitIdentityText()
	rec, err := v.app.session.Finalize(v.app.now())
	if err != nil {
		var verr *session.ValidationError
		if errors.As(err, &verr) {
			v.errMsg = verr.Error()
			v.app.statusMsg = errorStyle.Render("Registro não salvo: corrija os campos marcados.")
			return nil
		}
		v.errMsg = err.Error()
		return nil
	}
	if err := v.app.store.Append(rec); err != nil {
		v.app.reportStoreError(err)
		v.errMsg = err.Error()
		return nil
	}
	name := rec.Get(schema.ColName)
	v.app.logInfo("Registro salvo · %s", name)
	v.app.session.Reset()
	v.qIndex = 0
	v.errMsg = ""
	v.nameInput.SetValue("")
	v.matriculaInput.SetValue("")
	v.app.statusMsg = successStyle.Render(fmt.Sprintf("Avaliação de %s salva com sucesso.", name))
	return nil
}

func (v *transcribeView) View() string {
	section := schema.Sections[v.app.session.Section()]
	title := titleStyle.Render(fmt.Sprintf("SEÇÃO %s", strings.ToUpper(section.Title)))
	progress := hintStyle.Render(fmt.Sprintf("página %d/%d", v.app.session.Section()+1, len(schema.Sections)))

	left := v.renderIdentityPanel()
	right := v.renderSectionPanel(section)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	parts := []string{lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", progress), body}
	if v.errMsg != "" {
		parts = append(parts, errorStyle.Render("⚠ "+v.errMsg))
	}
	parts = append(parts, hintStyle.Render(v.helpLine()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (v *transcribeView) helpLine() string {
	switch v.focus {
	case focusComment:
		return "Enter → gravar observação    Esc → gravar e voltar"
	case focusReflection:
		return "Esc → gravar e voltar    Ctrl+S → finalizar"
	case focusIdentity:
		return "↑/↓ campo    ←/→ opção da lista    Tab → questões"
	}
	return "0-5/n marcar    ←/→ ajustar    c observação    [/] seção    Tab identidade    Ctrl+S finalizar    Ctrl+R limpar"
}

func (v *transcribeView) renderIdentityPanel() string {
	ident := v.app.session.Identity()
	rows := []struct {
		label string
		value string
		field int
	}{
		{"Petiano Responsável", ident.Evaluator, identEvaluator},
		{"Nome do Discente", v.nameInput.View(), identName},
		{"Matrícula", v.matriculaInput.View(), identMatricula},
		{"Semestre", ident.Semester, identSemester},
		{"Currículo", ident.Curriculum, identCurriculum},
	}
	var lines []string
	lines = append(lines, titleStyle.Render("IDENTIFICAÇÃO"))
	for _, row := range rows {
		value := row.value
		if value == "" {
			value = hintStyle.Render("—")
		}
		label := row.label
		if v.focus == focusIdentity && v.identityField == row.field {
			label = selectedStyle.Render("▸ " + label)
		} else {
			label = "  " + label
		}
		lines = append(lines, label, "  "+value, "")
	}
	return boxStyle.Width(34).Render(strings.Join(lines, "\n"))
}

func (v *transcribeView) renderSectionPanel(section schema.Section) string {
	var lines []string
	for i, q := range section.Questions() {
		lines = append(lines, v.renderQuestionRow(i, q))
	}
	if v.onLastSection() {
		lines = append(lines, "", titleStyle.Render("REFLEXÃO (texto livre)"))
		base := section.End - section.Start
		for i, f := range schema.ReflectionFields {
			lines = append(lines, v.renderReflectionRow(base+i, f))
		}
	}
	width := max(48, v.app.width-44)
	return boxStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (v *transcribeView) renderQuestionRow(i int, q schema.Question) string {
	answer := v.app.session.Answer(q.Key)
	selected := (v.focus == focusQuestions || v.focus == focusComment) && i == v.qIndex

	var scale []string
	for _, r := range rating.Scale {
		cell := string(r)
		if answer.Choice.IsSelected(r) {
			cell = "[" + cell + "]"
		} else {
			cell = " " + cell + " "
		}
		scale = append(scale, cell)
	}
	row := fmt.Sprintf("%-4s %s", fmt.Sprintf("%d.", schema.Index(q.Key)+1), strings.Join(scale, ""))
	if !answer.Choice.Marked() {
		row += hintStyle.Render("  (sem marcação)")
	}
	if strings.TrimSpace(answer.Comment) != "" {
		row += hintStyle.Render("  ✎")
	}

	label := q.Label
	if maxLen := max(30, v.app.width-90); len([]rune(label)) > maxLen {
		label = string([]rune(label)[:maxLen-1]) + "…"
	}
	line := row + "  " + label
	if selected {
		if v.focus == focusComment && v.commentKey == q.Key {
			line += "\n    " + v.commentInput.View()
		}
		return selectedStyle.Render("▸ ") + line
	}
	return "  " + line
}

func (v *transcribeView) renderReflectionRow(row int, f schema.ReflectionField) string {
	value := strings.TrimSpace(v.app.session.Reflection(f.Key))
	state := hintStyle.Render("vazio")
	if value != "" {
		state = fmt.Sprintf("%d caractere(s)", len([]rune(value)))
	}
	label := f.Title
	if f.Required {
		label += " *"
	}
	line := fmt.Sprintf("%-32s %s", label, state)
	if v.focus == focusReflection && v.reflectionKey == f.Key {
		return selectedStyle.Render("▸ ") + line + "\n" + v.reflectionArea.View()
	}
	if v.focus == focusQuestions && row == v.qIndex {
		return selectedStyle.Render("▸ ") + line
	}
	return "  " + line
}

// nextRosterValue steps through a roster list, wrapping at the ends. An
// empty current value starts from the first entry.
func nextRosterValue(values []string, current string, delta int) string {
	if len(values) == 0 {
		return current
	}
	idx := -1
	for i, v := range values {
		if v == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		if delta < 0 {
			return values[len(values)-1]
		}
		return values[0]
	}
	idx = (idx + delta + len(values)) % len(values)
	return values[idx]
}
