package coursework

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Catalog is an immutable, ordered set of assignments with a question
// index. Safe for concurrent use.
type Catalog struct {
	assignments []Assignment
	questions   map[string]Question
	order       []string // question ids, assignment order then question order
}

var validate = validator.New()

func NewCatalog(assignments []Assignment) (*Catalog, error) {
	c := &Catalog{questions: map[string]Question{}}
	for _, a := range assignments {
		if err := validate.Struct(a); err != nil {
			return nil, errors.Wrapf(err, "assignment %q", a.ID)
		}
		for _, q := range a.Questions {
			if _, dup := c.questions[q.ID]; dup {
				return nil, errors.Errorf("duplicate question id %q", q.ID)
			}
			c.questions[q.ID] = q
			c.order = append(c.order, q.ID)
		}
	}
	c.assignments = assignments
	return c, nil
}

// MustCatalog is NewCatalog for compiled-in data.
func MustCatalog(assignments []Assignment) *Catalog {
	c, err := NewCatalog(assignments)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Assignments() []Assignment { return c.assignments }

func (c *Catalog) Question(id string) (Question, bool) {
	q, ok := c.questions[id]
	return q, ok
}

// QuestionIDs lists every question id in assignment order, then question order.
func (c *Catalog) QuestionIDs() []string { return c.order }

func (c *Catalog) TotalQuestions() int { return len(c.order) }

// SampleAssignments is the compiled-in assignment set served for every course.
func SampleAssignments() []Assignment {
	return []Assignment{
		{
			ID:          "assignment-1",
			Title:       "أساسيات HTML",
			Description: "تطبيق المفاهيم الأساسية لـ HTML وإنشاء صفحة ويب بسيطة",
			DueDate:     "2024-02-15",
			Questions: []Question{
				{
					ID:       "q1",
					Kind:     KindText,
					Prompt:   "اشرح الفرق بين عناصر HTML الدلالية وغير الدلالية مع إعطاء أمثلة.",
					Required: true,
				},
				{
					ID:       "q2",
					Kind:     KindMultipleChoice,
					Prompt:   "أي من العناصر التالية يُستخدم لإنشاء قائمة مرتبة؟",
					Required: true,
					Options:  []string{"<ul>", "<ol>", "<li>", "<list>"},
				},
				{
					ID:               "q3",
					Kind:             KindFile,
					Prompt:           "قم برفع ملف HTML يحتوي على صفحة ويب بسيطة تتضمن عنوان، فقرة، وصورة.",
					Required:         true,
					MaxFileSizeMB:    5,
					AllowedFileTypes: []string{".html", ".htm"},
				},
				{
					ID:       "q4",
					Kind:     KindMultipleChoice,
					Prompt:   "أي من الخصائص التالية تُستخدم لتحديد النص البديل للصورة؟ (يمكن اختيار أكثر من إجابة)",
					Required: false,
					Options:  []string{"alt", "title", "src", "description"},
				},
			},
		},
		{
			ID:          "assignment-2",
			Title:       "تنسيق CSS المتقدم",
			Description: "تطبيق تقنيات CSS المتقدمة لتصميم واجهات جذابة",
			DueDate:     "2024-02-22",
			Questions: []Question{
				{
					ID:       "q5",
					Kind:     KindText,
					Prompt:   "اشرح مفهوم CSS Grid وكيف يختلف عن Flexbox.",
					Required: true,
				},
				{
					ID:       "q6",
					Kind:     KindMultipleChoice,
					Prompt:   "أي من الخصائص التالية تُستخدم لإنشاء انتقالات سلسة؟",
					Required: true,
					Options:  []string{"transition", "transform", "animation", "keyframes"},
				},
				{
					ID:               "q7",
					Kind:             KindFile,
					Prompt:           "قم برفع ملف CSS يحتوي على تصميم responsive لصفحة ويب.",
					Required:         true,
					MaxFileSizeMB:    10,
					AllowedFileTypes: []string{".css"},
				},
			},
		},
		{
			ID:          "assignment-3",
			Title:       "JavaScript التفاعلي",
			Description: "إنشاء تطبيقات تفاعلية باستخدام JavaScript",
			DueDate:     "2024-03-01",
			Questions: []Question{
				{
					ID:       "q8",
					Kind:     KindText,
					Prompt:   "اشرح الفرق بين var، let، و const في JavaScript.",
					Required: true,
				},
				{
					ID:       "q9",
					Kind:     KindMultipleChoice,
					Prompt:   "أي من الطرق التالية تُستخدم لإضافة event listener؟",
					Required: true,
					Options:  []string{"addEventListener()", "onClick()", "attachEvent()", "bindEvent()"},
				},
				{
					ID:               "q10",
					Kind:             KindFile,
					Prompt:           "قم برفع ملف JavaScript يحتوي على تطبيق تفاعلي بسيط.",
					Required:         false,
					MaxFileSizeMB:    15,
					AllowedFileTypes: []string{".js", ".html"},
				},
			},
		},
	}
}
