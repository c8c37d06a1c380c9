package coursework

import (
	"fmt"
	"strings"
)

// Violation is a per-question validation failure.
type Violation int

const (
	ViolationRequired    Violation = iota + 1 // required, no answer recorded
	ViolationEmptyText                        // required text, blank after trim
	ViolationNoFile                           // required file, no handle
	ViolationNoSelection                      // required multiple-choice, nothing selected
)

// Message is the English text; internal/i18n uses it as the catalog key.
func (v Violation) Message() string {
	switch v {
	case ViolationRequired:
		return "This question is required"
	case ViolationEmptyText:
		return "Please write an answer"
	case ViolationNoFile:
		return "Please upload a file"
	case ViolationNoSelection:
		return "Please select at least one answer"
	}
	return fmt.Sprintf("violation(%d)", int(v))
}

func (v Violation) String() string { return v.Message() }

// check applies the required/emptiness rule for one question.
func check(q Question, a Answer, ok bool) (Violation, bool) {
	if !q.Required {
		return 0, false
	}
	if !ok {
		return ViolationRequired, true
	}
	switch v := a.(type) {
	case TextAnswer:
		if strings.TrimSpace(v.Value) == "" {
			return ViolationEmptyText, true
		}
	case FileAnswer:
		if v.File == nil {
			return ViolationNoFile, true
		}
	case MultipleChoiceAnswer:
		if len(v.Selected) == 0 {
			return ViolationNoSelection, true
		}
	default:
		panic(fmt.Sprintf("coursework: unhandled answer type %T", a))
	}
	return 0, false
}
