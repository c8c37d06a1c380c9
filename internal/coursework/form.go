package coursework

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrUnknownQuestion    = errors.New("unknown question")
	ErrKindMismatch       = errors.New("answer kind does not match question kind")
	ErrUnknownOption      = errors.New("option is not offered by the question")
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	ErrFormDiscarded      = errors.New("form was discarded")
	ErrStaleTicket        = errors.New("ticket does not belong to the in-flight submission")
)

// InvalidError is returned by BeginSubmit when validation fails.
// QuestionIDs is in assignment/question order, first invalid first.
type InvalidError struct {
	QuestionIDs []string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("%d question(s) need attention: %s", len(e.QuestionIDs), strings.Join(e.QuestionIDs, ", "))
}

type State int

const (
	StateIdle State = iota
	StateSubmitting
)

func (s State) String() string {
	if s == StateSubmitting {
		return "submitting"
	}
	return "idle"
}

type Outcome int

const (
	OutcomeInvalid Outcome = iota + 1
	OutcomeSucceeded
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Form holds the answer map and the validation error map for one catalog.
// All mutations are serialized; the submission call itself runs outside
// the lock so edits and reads stay responsive while it is in flight.
type Form struct {
	mu        sync.Mutex
	catalog   *Catalog
	answers   map[string]Answer
	errors    map[string]Violation
	state     State
	inflight  uint64
	seq       uint64
	discarded bool
}

func NewForm(c *Catalog) *Form {
	return &Form{
		catalog: c,
		answers: map[string]Answer{},
		errors:  map[string]Violation{},
	}
}

func (f *Form) Catalog() *Catalog { return f.catalog }

func (f *Form) question(id string, want Kind) (Question, error) {
	q, ok := f.catalog.Question(id)
	if !ok {
		return Question{}, fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	if q.Kind != want {
		return Question{}, fmt.Errorf("%w: %s is %s, not %s", ErrKindMismatch, id, q.Kind, want)
	}
	return q, nil
}

// SetTextAnswer replaces the text answer (empty allowed) and clears the
// error entry for id.
func (f *Form) SetTextAnswer(id, value string) error {
	if _, err := f.question(id, KindText); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers[id] = TextAnswer{Value: value}
	delete(f.errors, id)
	return nil
}

// SetFileAnswer stores file for id; nil records "file removed". A file that
// fails IsFileValid is refused with *FileRejectedError and nothing changes.
func (f *Form) SetFileAnswer(id string, file *FileHandle) error {
	q, err := f.question(id, KindFile)
	if err != nil {
		return err
	}
	ans := FileAnswer{}
	if file != nil {
		if !IsFileValid(*file, q) {
			return &FileRejectedError{
				QuestionID:       id,
				FileName:         file.Name,
				MaxFileSizeMB:    q.MaxFileSizeMB,
				AllowedFileTypes: q.AllowedFileTypes,
			}
		}
		h := *file
		ans = FileAnswer{File: &h, FileName: h.Name}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers[id] = ans
	delete(f.errors, id)
	return nil
}

// ToggleMultipleChoice adds option to the selection, or removes it if
// already selected.
func (f *Form) ToggleMultipleChoice(id, option string) error {
	q, err := f.question(id, KindMultipleChoice)
	if err != nil {
		return err
	}
	if !q.HasOption(option) {
		return fmt.Errorf("%w: %q on %s", ErrUnknownOption, option, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var cur []string
	if a, ok := f.answers[id].(MultipleChoiceAnswer); ok {
		cur = a.Selected
	}
	next := make([]string, 0, len(cur)+1)
	found := false
	for _, s := range cur {
		if s == option {
			found = true
			continue
		}
		next = append(next, s)
	}
	if !found {
		next = append(next, option)
	}
	f.answers[id] = MultipleChoiceAnswer{Selected: next}
	delete(f.errors, id)
	return nil
}

func (f *Form) Answer(id string) (Answer, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.answers[id]
	if !ok {
		return nil, false
	}
	return cloneAnswer(a), true
}

// Answers returns a deep copy of the answer map.
func (f *Form) Answers() map[string]Answer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Form) snapshotLocked() map[string]Answer {
	out := make(map[string]Answer, len(f.answers))
	for k, v := range f.answers {
		out[k] = cloneAnswer(v)
	}
	return out
}

// Errors returns a copy of the current error map.
func (f *Form) Errors() map[string]Violation {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]Violation, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Validate recomputes the whole error map from the current answers and
// replaces the previous one. It reports whether no question is invalid.
func (f *Form) Validate() (map[string]Violation, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.validateLocked()
	out := make(map[string]Violation, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out, len(out) == 0
}

func (f *Form) validateLocked() {
	next := map[string]Violation{}
	for _, id := range f.catalog.QuestionIDs() {
		q, _ := f.catalog.Question(id)
		a, ok := f.answers[id]
		if v, bad := check(q, a, ok); bad {
			next[id] = v
		}
	}
	f.errors = next
}

// InvalidOrder lists the ids currently in the error map in catalog order.
func (f *Form) InvalidOrder() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invalidOrderLocked()
}

func (f *Form) invalidOrderLocked() []string {
	var ids []string
	for _, id := range f.catalog.QuestionIDs() {
		if _, bad := f.errors[id]; bad {
			ids = append(ids, id)
		}
	}
	return ids
}

type Progress struct {
	Answered  int `json:"answered"`
	Total     int `json:"total"`
	Remaining int `json:"remaining"`
	Percent   int `json:"percent"`
}

// Progress counts every recorded answer as answered, valid or not.
func (f *Form) Progress() Progress {
	f.mu.Lock()
	answered := len(f.answers)
	f.mu.Unlock()
	total := f.catalog.TotalQuestions()
	p := Progress{Answered: answered, Total: total, Remaining: total - answered}
	if total > 0 {
		p.Percent = int(math.Round(100 * float64(answered) / float64(total)))
	}
	return p
}

// Ticket is an in-flight submission handed out by BeginSubmit.
type Ticket struct {
	ID      uint64
	Answers map[string]Answer
	form    *Form
}

// BeginSubmit validates and, if everything passes, moves the form to
// Submitting. Only one ticket can be outstanding at a time.
func (f *Form) BeginSubmit() (*Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.discarded {
		return nil, ErrFormDiscarded
	}
	if f.state == StateSubmitting {
		return nil, ErrSubmissionInFlight
	}
	f.validateLocked()
	if len(f.errors) > 0 {
		return nil, &InvalidError{QuestionIDs: f.invalidOrderLocked()}
	}
	f.seq++
	f.inflight = f.seq
	f.state = StateSubmitting
	return &Ticket{ID: f.seq, Answers: f.snapshotLocked(), form: f}, nil
}

// Complete ends the submission started by t. On success both maps are
// cleared; on failure they are left exactly as they are. The form is Idle
// afterwards either way. Completing on a discarded form changes nothing.
func (f *Form) Complete(t *Ticket, submitErr error) (Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.discarded {
		return 0, ErrFormDiscarded
	}
	if t == nil || t.form != f || f.state != StateSubmitting || t.ID != f.inflight {
		return 0, ErrStaleTicket
	}
	f.state = StateIdle
	f.inflight = 0
	if submitErr != nil {
		return OutcomeFailed, nil
	}
	f.answers = map[string]Answer{}
	f.errors = map[string]Violation{}
	return OutcomeSucceeded, nil
}

// Submit runs the whole flow against s. The returned error is the
// *InvalidError, the submitter's error, or a state error.
func (f *Form) Submit(ctx context.Context, s Submitter) (Outcome, error) {
	t, err := f.BeginSubmit()
	if err != nil {
		var inv *InvalidError
		if errors.As(err, &inv) {
			return OutcomeInvalid, err
		}
		return 0, err
	}
	submitErr := s.Submit(ctx, t.Answers)
	out, err := f.Complete(t, submitErr)
	if err != nil {
		return 0, err
	}
	return out, submitErr
}

// ClearAll wipes answers and errors. Only allowed while Idle.
func (f *Form) ClearAll() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateIdle {
		return ErrSubmissionInFlight
	}
	f.answers = map[string]Answer{}
	f.errors = map[string]Violation{}
	return nil
}

// Discard marks the form defunct; pending completions are dropped.
func (f *Form) Discard() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discarded = true
}
