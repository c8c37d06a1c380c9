package coursework

import "fmt"

// Kind is the question kind. It decides both the answer shape and the
// validation rule applied to it.
type Kind string

const (
	KindText           Kind = "text"
	KindFile           Kind = "file"
	KindMultipleChoice Kind = "multiple-choice"
)

func (k Kind) Valid() bool {
	switch k {
	case KindText, KindFile, KindMultipleChoice:
		return true
	}
	return false
}

type Question struct {
	ID       string `json:"id" validate:"required"`
	Kind     Kind   `json:"type" validate:"required,oneof=text file multiple-choice"`
	Prompt   string `json:"question" validate:"required"`
	Required bool   `json:"required"`

	// multiple-choice only
	Options []string `json:"options,omitempty" validate:"required_if=Kind multiple-choice,unique"`

	// file only; zero / empty means "no constraint"
	MaxFileSizeMB    int      `json:"max_file_size,omitempty" validate:"gte=0"`
	AllowedFileTypes []string `json:"allowed_file_types,omitempty" validate:"dive,startswith=."`
}

// HasOption reports whether opt is one of the question's options.
func (q Question) HasOption(opt string) bool {
	for _, o := range q.Options {
		if o == opt {
			return true
		}
	}
	return false
}

type Assignment struct {
	ID          string     `json:"id" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	DueDate     string     `json:"due_date" validate:"required,datetime=2006-01-02"` // "2024-02-15"
	Questions   []Question `json:"questions" validate:"dive"`
}

// Answer is the recorded answer for one question. The set of
// implementations is closed: TextAnswer, FileAnswer and
// MultipleChoiceAnswer.
type Answer interface {
	Kind() Kind
	isAnswer()
}

type TextAnswer struct {
	Value string `json:"value"`
}

// FileAnswer with a nil File means the file was removed.
type FileAnswer struct {
	File     *FileHandle `json:"file,omitempty"`
	FileName string      `json:"file_name"`
}

type MultipleChoiceAnswer struct {
	Selected []string `json:"selected_options"`
}

func (TextAnswer) Kind() Kind           { return KindText }
func (FileAnswer) Kind() Kind           { return KindFile }
func (MultipleChoiceAnswer) Kind() Kind { return KindMultipleChoice }

func (TextAnswer) isAnswer()           {}
func (FileAnswer) isAnswer()           {}
func (MultipleChoiceAnswer) isAnswer() {}

// IsSelected reports set membership of opt.
func (a MultipleChoiceAnswer) IsSelected(opt string) bool {
	for _, s := range a.Selected {
		if s == opt {
			return true
		}
	}
	return false
}

// cloneAnswer returns a copy that shares no mutable state with a.
func cloneAnswer(a Answer) Answer {
	switch v := a.(type) {
	case TextAnswer:
		return v
	case FileAnswer:
		if v.File != nil {
			f := *v.File
			v.File = &f
		}
		return v
	case MultipleChoiceAnswer:
		v.Selected = append([]string(nil), v.Selected...)
		return v
	default:
		panic(fmt.Sprintf("coursework: unhandled answer type %T", a))
	}
}
