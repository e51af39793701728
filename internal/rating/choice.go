// internal/rating/choice.go
//
// Exclusive-choice state machine for one questionnaire item. The TUI
// renders the group as a bank of seven toggles; this struct is the
// single source of truth behind them. Exactly one symbol is selected at
// all times, toggling the current symbol off is rejected.

package rating

// ChoiceGroup holds the selection state for one question.
type ChoiceGroup struct {
	selected Rating
	def      Rating
	policy   DuplicatePolicy
	marked   bool
}

// NewChoiceGroup creates a group pre-selected with def. An invalid
// default falls back to N/A.
func NewChoiceGroup(def Rating, policy DuplicatePolicy) *ChoiceGroup {
	if !def.Valid() {
		def = NotApplicable
	}
	return &ChoiceGroup{selected: def, def: def, policy: policy}
}

// Selected returns the current symbol. Never empty.
func (g *ChoiceGroup) Selected() Rating {
	return g.selected
}

// IsSelected reports whether r is the active symbol, for rendering the
// toggle bank consistently with the single source of truth.
func (g *ChoiceGroup) IsSelected(r Rating) bool {
	return g.selected == r
}

// Marked reports whether the operator has explicitly entered a mark
// since the group was created or cleared.
func (g *ChoiceGroup) Marked() bool {
	return g.marked
}

// Select makes r the sole selection. Invalid symbols are ignored and
// the prior selection kept.
func (g *ChoiceGroup) Select(r Rating) {
	if !r.Valid() {
		return
	}
	g.selected = r
	g.marked = true
}

// Seed loads a prior value from a draft or an edited record without
// counting as an operator mark. Out-of-set values fall back to the
// group default.
func (g *ChoiceGroup) Seed(prior string) {
	r := Rating(prior)
	if !r.Valid() {
		r = g.def
	}
	g.selected = r
	g.marked = false
}

// Toggle flips one control of the rendered bank. Turning a control on
// selects its symbol and implicitly deselects the others; turning the
// active control off is rejected so the group never ends up empty. It
// returns the selection after the operation.
func (g *ChoiceGroup) Toggle(r Rating, on bool) Rating {
	if !r.Valid() {
		return g.selected
	}
	if on {
		g.Select(r)
		return g.selected
	}
	// Off on a non-selected control is a no-op; off on the selected
	// control restores the prior state.
	return g.selected
}

// Mark records a mark transcribed from the paper form. The first mark
// selects its symbol; a second, different mark on the same item means
// the respondent marked twice, and the duplicate policy decides the
// outcome. Clear resets the item so the operator can re-enter.
func (g *ChoiceGroup) Mark(r Rating) {
	if !r.Valid() {
		return
	}
	if !g.marked {
		g.Select(r)
		return
	}
	if r == g.selected {
		return
	}
	g.selected = ResolveDuplicate(g.selected, r, g.policy)
}

// Clear returns the group to its default symbol and forgets any marks.
func (g *ChoiceGroup) Clear() {
	g.selected = g.def
	g.marked = false
}

// Cycle moves the selection forward or backward through the scale,
// wrapping at the ends. Used by the arrow keys in the TUI.
func (g *ChoiceGroup) Cycle(delta int) {
	idx := 0
	for i, s := range Scale {
		if s == g.selected {
			idx = i
			break
		}
	}
	idx = (idx + delta%len(Scale) + len(Scale)) % len(Scale)
	g.selected = Scale[idx]
	g.marked = true
}
