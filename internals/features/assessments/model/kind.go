package model

import "strings"

// Kind describes one flavour of assessment. Quizzes and exams share a single code
// path; everything that differs between them lives here.
type Kind struct {
	Name            string // "quiz" | "exam"
	Plural          string // route segment
	AssessmentTable string
	AttemptTable    string

	AllowsRetake          bool
	ValidatesPayload      bool
	RequiresSessionToView bool

	QuestionTypes []QuestionType
}

var (
	Quiz = Kind{
		Name:            "quiz",
		Plural:          "quizzes",
		AssessmentTable: "quizzes",
		AttemptTable:    "quiz_attempts",

		AllowsRetake:          true,
		ValidatesPayload:      false,
		RequiresSessionToView: false,

		QuestionTypes: []QuestionType{QuestionTypeMultipleChoice, QuestionTypeTrueFalse},
	}

	Exam = Kind{
		Name:            "exam",
		Plural:          "exams",
		AssessmentTable: "exams",
		AttemptTable:    "exam_attempts",

		AllowsRetake:          false,
		ValidatesPayload:      true,
		RequiresSessionToView: true,

		QuestionTypes: []QuestionType{QuestionTypeMultipleChoice, QuestionTypeTrueFalse, QuestionTypeEssay},
	}

	Kinds = []Kind{Quiz, Exam}
)

// Title returns the capitalised name, used in user-facing messages.
func (k Kind) Title() string {
	if k.Name == "" {
		return ""
	}
	return strings.ToUpper(k.Name[:1]) + k.Name[1:]
}

func (k Kind) Supports(t QuestionType) bool {
	for _, qt := range k.QuestionTypes {
		if qt == t {
			return true
		}
	}
	return false
}
