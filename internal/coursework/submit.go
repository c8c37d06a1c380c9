package coursework

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	syncx "github.com/mind-engage/mindengage-portal/internal/sync"
)

// Submitter hands the full answer map to whatever accepts submissions.
type Submitter interface {
	Submit(ctx context.Context, answers map[string]Answer) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, answers map[string]Answer) error

func (fn SubmitterFunc) Submit(ctx context.Context, answers map[string]Answer) error {
	return fn(ctx, answers)
}

// SimulatedSubmitter stands in for a network call: it waits Delay and then
// succeeds unless Fail returns an error.
type SimulatedSubmitter struct {
	Delay time.Duration
	Fail  func(answers map[string]Answer) error
}

func (s *SimulatedSubmitter) Submit(ctx context.Context, answers map[string]Answer) error {
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	if s.Fail != nil {
		if err := s.Fail(answers); err != nil {
			return err
		}
	}
	glog.V(2).Infof("simulated submission accepted: %d answers", len(answers))
	return nil
}

const EventAssignmentsSubmitted = "AssignmentsSubmitted"

// EventAppender is the part of the event log the submitter needs.
type EventAppender interface {
	Append(ctx context.Context, e syncx.Event) error
}

// EventLogSubmitter records each submission as an event in the event log.
type EventLogSubmitter struct {
	Log      EventAppender
	SiteID   string
	CourseID string
}

func (s *EventLogSubmitter) Submit(ctx context.Context, answers map[string]Answer) error {
	data, err := MarshalAnswers(answers)
	if err != nil {
		return err
	}
	site := s.SiteID
	if site == "" {
		site = "local"
	}
	e := syncx.Event{
		SiteID:   site,
		Type:     EventAssignmentsSubmitted,
		Key:      s.CourseID + ":" + uuid.NewString(),
		DataJSON: string(data),
	}
	if err := s.Log.Append(ctx, e); err != nil {
		return errors.Wrap(err, "append submission event")
	}
	glog.Infof("submission recorded as %s (%d answers)", e.Key, len(answers))
	return nil
}

// ---- wire form ----

type wireAnswer struct {
	Type     Kind        `json:"type"`
	Value    *string     `json:"value,omitempty"`
	File     *FileHandle `json:"file,omitempty"`
	FileName *string     `json:"file_name,omitempty"`
	Selected []string    `json:"selected_options,omitempty"`
}

// MarshalAnswers encodes answers as a JSON object keyed by question id,
// each value tagged with its "type".
func MarshalAnswers(answers map[string]Answer) ([]byte, error) {
	out := make(map[string]wireAnswer, len(answers))
	for id, a := range answers {
		switch v := a.(type) {
		case TextAnswer:
			val := v.Value
			out[id] = wireAnswer{Type: KindText, Value: &val}
		case FileAnswer:
			name := v.FileName
			out[id] = wireAnswer{Type: KindFile, File: v.File, FileName: &name}
		case MultipleChoiceAnswer:
			sel := v.Selected
			if sel == nil {
				sel = []string{}
			}
			out[id] = wireAnswer{Type: KindMultipleChoice, Selected: sel}
		default:
			return nil, fmt.Errorf("coursework: unhandled answer type %T", a)
		}
	}
	b, err := json.Marshal(out)
	return b, errors.Wrap(err, "marshal answers")
}

// UnmarshalAnswers is the inverse of MarshalAnswers.
func UnmarshalAnswers(data []byte) (map[string]Answer, error) {
	var in map[string]wireAnswer
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, errors.Wrap(err, "unmarshal answers")
	}
	out := make(map[string]Answer, len(in))
	for id, w := range in {
		switch w.Type {
		case KindText:
			var v string
			if w.Value != nil {
				v = *w.Value
			}
			out[id] = TextAnswer{Value: v}
		case KindFile:
			fa := FileAnswer{File: w.File}
			if w.FileName != nil {
				fa.FileName = *w.FileName
			}
			out[id] = fa
		case KindMultipleChoice:
			out[id] = MultipleChoiceAnswer{Selected: w.Selected}
		default:
			return nil, errors.Errorf("answer %s: unknown type %q", id, w.Type)
		}
	}
	return out, nil
}
