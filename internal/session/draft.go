// internal/session/draft.go
//
// Best-effort autosave. Every interaction overwrites a small JSON
// document with the primitive field values of the current epoch; a
// process restart restores them before first render. I/O failures are
// swallowed on purpose: losing a draft is annoying, blocking the
// operator is worse.

package session

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"sac/internal/schema"
)

// Draft key prefixes. The epoch suffix keeps attempts apart: keys from
// an abandoned session simply stop matching after Reset bumps the
// epoch.
const (
	draftKeyRating     = "nota_"
	draftKeyComment    = "obs_"
	draftKeyIdentity   = "ident_"
	draftKeyReflection = "refl_"
	draftKeyEpoch      = "epoch"
	draftKeySection    = "secao"
)

func (s *FormSession) draftKey(prefix, name string) string {
	return fmt.Sprintf("%s%s_%d", prefix, name, s.epoch)
}

// SnapshotDraft serializes the current epoch's fields. Errors are
// logged at most and never surfaced.
func (s *FormSession) SnapshotDraft() {
	if s.opts.DraftPath == "" {
		return
	}
	doc := map[string]string{
		draftKeyEpoch:   strconv.Itoa(s.epoch),
		draftKeySection: strconv.Itoa(s.section),
	}
	doc[s.draftKey(draftKeyIdentity, "pet")] = s.identity.Evaluator
	doc[s.draftKey(draftKeyIdentity, "nome")] = s.identity.SubjectName
	doc[s.draftKey(draftKeyIdentity, "mat")] = s.identity.Matricula
	doc[s.draftKey(draftKeyIdentity, "sem")] = s.identity.Semester
	doc[s.draftKey(draftKeyIdentity, "curr")] = s.identity.Curriculum
	for key, a := range s.answers {
		doc[s.draftKey(draftKeyRating, key)] = string(a.Choice.Selected())
		if a.Comment != "" {
			doc[s.draftKey(draftKeyComment, key)] = a.Comment
		}
	}
	for key, text := range s.reflection {
		if text != "" {
			doc[s.draftKey(draftKeyReflection, key)] = text
		}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(s.opts.DraftPath, data, 0o644); err != nil {
		s.opts.Logbook.Warn("draft autosave failed: %v", err)
	}
}

// RestoreDraft repopulates fields from a snapshot whose keys belong to
// the current epoch. Anything else in the file is ignored.
func (s *FormSession) RestoreDraft() {
	if s.opts.DraftPath == "" {
		return
	}
	data, err := os.ReadFile(s.opts.DraftPath)
	if err != nil {
		return
	}
	var doc map[string]string
	if err := json.Unmarshal(data, &doc); err != nil {
		s.opts.Logbook.Warn("draft unreadable, ignoring: %v", err)
		return
	}
	if epoch, err := strconv.Atoi(doc[draftKeyEpoch]); err == nil && epoch >= s.epoch {
		s.epoch = epoch
	}
	if sec, err := strconv.Atoi(doc[draftKeySection]); err == nil {
		s.Jump(sec)
	}
	suffix := fmt.Sprintf("_%d", s.epoch)
	restored := 0
	for key, value := range doc {
		if !strings.HasSuffix(key, suffix) {
			continue
		}
		name := strings.TrimSuffix(key, suffix)
		switch {
		case strings.HasPrefix(name, draftKeyRating):
			qkey := strings.TrimPrefix(name, draftKeyRating)
			if schema.Index(qkey) >= 0 {
				s.Answer(qkey).Choice.Seed(value)
				restored++
			}
		case strings.HasPrefix(name, draftKeyComment):
			qkey := strings.TrimPrefix(name, draftKeyComment)
			if schema.Index(qkey) >= 0 {
				s.Answer(qkey).Comment = value
				restored++
			}
		case strings.HasPrefix(name, draftKeyReflection):
			rkey := strings.TrimPrefix(name, draftKeyReflection)
			if _, ok := schema.ReflectionByKey(rkey); ok {
				s.reflection[rkey] = value
				restored++
			}
		case strings.HasPrefix(name, draftKeyIdentity):
			s.restoreIdentity(strings.TrimPrefix(name, draftKeyIdentity), value)
			restored++
		}
	}
	if restored > 0 {
		s.opts.Logbook.Info("draft restored: %d fields (epoch %d)", restored, s.epoch)
	}
}

func (s *FormSession) restoreIdentity(name, value string) {
	switch name {
	case "pet":
		s.identity.Evaluator = value
	case "nome":
		s.identity.SubjectName = value
	case "mat":
		s.identity.Matricula = value
	case "sem":
		s.identity.Semester = value
	case "curr":
		s.identity.Curriculum = value
	}
}

// DiscardDraft removes the snapshot; called on finalize and on Reset.
func (s *FormSession) DiscardDraft() {
	if s.opts.DraftPath == "" {
		return
	}
	if err := os.Remove(s.opts.DraftPath); err != nil && !os.IsNotExist(err) {
		s.opts.Logbook.Warn("draft discard failed: %v", err)
	}
}
