// internal/session/session.go
//
// FormSession holds one in-progress transcription: the exclusive-choice
// state for every question, the per-item margin notes, the identity
// block and the open reflection fields. The session is the single
// source of truth the TUI renders from; nothing is persisted until the
// operator finalizes.

package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"sac/internal/logbook"
	"sac/internal/rating"
	"sac/internal/schema"
	"sac/internal/store"
)

// Options configure a new session from the project config.
type Options struct {
	DraftPath       string
	DefaultRating   rating.Rating
	DuplicatePolicy rating.DuplicatePolicy
	Logbook         *logbook.Logbook
	// NewID generates record ids; defaults to uuid.NewString.
	NewID func() string
}

// Answer pairs the rating state of one question with its transcribed
// margin note.
type Answer struct {
	Choice  *rating.ChoiceGroup
	Comment string
}

// Identity is the respondent block from the form sidebar.
type Identity struct {
	Evaluator   string
	SubjectName string
	Matricula   string
	Semester    string
	Curriculum  string
}

// FormSession is one form-filling attempt. Epoch namespaces all draft
// keys so a new attempt never picks up stale state from the previous
// one.
type FormSession struct {
	opts       Options
	epoch      int
	section    int
	identity   Identity
	answers    map[string]*Answer
	reflection map[string]string
}

// New creates a session at epoch 0 and attempts a draft restore so an
// interrupted transcription resumes where it stopped.
func New(opts Options) *FormSession {
	if !opts.DefaultRating.Valid() {
		opts.DefaultRating = rating.NotApplicable
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	s := &FormSession{
		opts:       opts,
		answers:    map[string]*Answer{},
		reflection: map[string]string{},
	}
	s.RestoreDraft()
	return s
}

// Epoch returns the current session epoch.
func (s *FormSession) Epoch() int {
	return s.epoch
}

// Identity returns a pointer to the identity block for direct edits by
// the TUI input widgets.
func (s *FormSession) Identity() *Identity {
	return &s.identity
}

// Answer returns the state for one question, creating it with the
// configured default on first access.
func (s *FormSession) Answer(key string) *Answer {
	a, ok := s.answers[key]
	if !ok {
		a = &Answer{Choice: rating.NewChoiceGroup(s.opts.DefaultRating, s.opts.DuplicatePolicy)}
		s.answers[key] = a
	}
	return a
}

// SetComment stores the margin-note transcription for one question.
func (s *FormSession) SetComment(key, text string) {
	s.Answer(key).Comment = text
}

// Reflection returns one open-text field.
func (s *FormSession) Reflection(key string) string {
	return s.reflection[key]
}

// SetReflection stores one open-text field.
func (s *FormSession) SetReflection(key, text string) {
	s.reflection[key] = text
}

// Section returns the index of the active form section.
func (s *FormSession) Section() int {
	return s.section
}

// Advance moves to the next section. It reports false on the last one.
func (s *FormSession) Advance() bool {
	if s.section+1 >= len(schema.Sections) {
		return false
	}
	s.section++
	s.SnapshotDraft()
	return true
}

// Jump moves directly to section i when it exists.
func (s *FormSession) Jump(i int) bool {
	if i < 0 || i >= len(schema.Sections) {
		return false
	}
	s.section = i
	return true
}

// Reset starts a fresh attempt: the epoch increments, which orphans
// every draft key of the previous attempt, and the draft file is
// removed.
func (s *FormSession) Reset() {
	s.epoch++
	s.section = 0
	s.identity = Identity{}
	s.answers = map[string]*Answer{}
	s.reflection = map[string]string{}
	s.DiscardDraft()
	s.opts.Logbook.Info("form cleared, new session epoch %d", s.epoch)
}

// ValidationError lists the required fields that are still empty at
// finalize time. The submission is not persisted and form state is
// kept so the operator can correct and retry.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("campos obrigatórios vazios: %s", strings.Join(e.Missing, ", "))
}

// Validate checks the mandatory identity and reflection fields.
func (s *FormSession) Validate() error {
	var missing []string
	if strings.TrimSpace(s.identity.SubjectName) == "" {
		missing = append(missing, "Nome do Discente")
	}
	if strings.TrimSpace(s.identity.Evaluator) == "" {
		missing = append(missing, "Petiano Responsável")
	}
	for _, f := range schema.ReflectionFields {
		if f.Required && strings.TrimSpace(s.reflection[f.Key]) == "" {
			missing = append(missing, f.Title)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Finalize validates the session and assembles the record to append.
// On success the caller persists it and then calls Reset.
func (s *FormSession) Finalize(now time.Time) (*store.Record, error) {
	if err := s.Validate(); err != nil {
		s.opts.Logbook.Warn("finalize rejected: %v", err)
		return nil, err
	}

	rec := store.NewRecord()
	rec.Set(schema.ColRecordID, s.opts.NewID())
	rec.Set(schema.ColEvaluator, strings.TrimSpace(s.identity.Evaluator))
	rec.Set(schema.ColName, strings.TrimSpace(s.identity.SubjectName))
	rec.Set(schema.ColMatricula, strings.TrimSpace(s.identity.Matricula))
	rec.Set(schema.ColSemester, s.identity.Semester)
	rec.Set(schema.ColCurriculum, s.identity.Curriculum)
	rec.Set(schema.ColCreatedAt, schema.FormatTime(now))
	for _, f := range schema.ReflectionFields {
		rec.Set(f.Column, strings.TrimSpace(s.reflection[f.Key]))
	}
	for _, q := range schema.Catalog {
		rec.Set(q.Key, string(s.Answer(q.Key).Choice.Selected()))
		if comment := strings.TrimSpace(s.Answer(q.Key).Comment); comment != "" {
			rec.Set(schema.CommentColumn(q.Key), comment)
		}
	}
	return rec, nil
}
