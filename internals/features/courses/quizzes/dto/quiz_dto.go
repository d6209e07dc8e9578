package dto

import (
	"time"

	"github.com/google/uuid"

	"kursusku_backend/internals/features/courses/quizzes/model"
)

/* =========================================================
   Requests
========================================================= */

type QuizOptionRequest struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type QuizQuestionRequest struct {
	QuestionID string              `json:"question_id" validate:"required"`
	Text       string              `json:"text" validate:"required"`
	Type       string              `json:"type" validate:"required,oneof=multiple_choice text file"`
	Options    []QuizOptionRequest `json:"options" validate:"dive"`
	Marks      float64             `json:"marks" validate:"required,gt=0"`

	MaxFileSizeMB    int      `json:"max_file_size_mb" validate:"gte=0"`
	AllowedFileTypes []string `json:"allowed_file_types"`
}

type CreateQuizRequest struct {
	QuizCourseID        uuid.UUID             `json:"quiz_course_id" validate:"required"`
	QuizTitle           string                `json:"quiz_title" validate:"required,min=3,max=255"`
	QuizDescription     string                `json:"quiz_description"`
	QuizDurationMinutes int                   `json:"quiz_duration_minutes" validate:"gte=0"`
	QuizDueDate         time.Time             `json:"quiz_due_date" validate:"required"`
	QuizIsActive        *bool                 `json:"quiz_is_active"`
	QuizQuestions       []QuizQuestionRequest `json:"quiz_questions" validate:"required,min=1,dive"`
}

func (r QuizQuestionRequest) ToQuestion() model.QuizQuestion {
	options := make([]model.QuizOption, 0, len(r.Options))
	for _, op := range r.Options {
		options = append(options, model.QuizOption{Text: op.Text, IsCorrect: op.IsCorrect})
	}
	return model.QuizQuestion{
		QuestionID:       r.QuestionID,
		Text:             r.Text,
		Type:             model.QuizQuestionType(r.Type),
		Options:          options,
		Marks:            r.Marks,
		MaxFileSizeMB:    r.MaxFileSizeMB,
		AllowedFileTypes: r.AllowedFileTypes,
	}
}

func (r CreateQuizRequest) ToQuestions() []model.QuizQuestion {
	questions := make([]model.QuizQuestion, 0, len(r.QuizQuestions))
	for _, q := range r.QuizQuestions {
		questions = append(questions, q.ToQuestion())
	}
	return questions
}

type SubmittedAnswerRequest struct {
	QuestionID string  `json:"question_id" validate:"required"`
	Answer     string  `json:"answer"`
	FileURL    *string `json:"file_url"`
}

type SubmitQuizRequest struct {
	Answers []SubmittedAnswerRequest `json:"answers" validate:"required,dive"`
}

type GradeAnswerRequest struct {
	QuestionID string  `json:"question_id" validate:"required"`
	Score      float64 `json:"score" validate:"gte=0"`
	Feedback   *string `json:"feedback"`
}

/* =========================================================
   Responses
========================================================= */

type QuizOptionDTO struct {
	Text      string `json:"text"`
	IsCorrect *bool  `json:"is_correct,omitempty"`
}

type QuizQuestionDTO struct {
	QuestionID string          `json:"question_id"`
	Text       string          `json:"text"`
	Type       string          `json:"type"`
	Options    []QuizOptionDTO `json:"options,omitempty"`
	Marks      float64         `json:"marks"`

	MaxFileSizeMB    int      `json:"max_file_size_mb,omitempty"`
	AllowedFileTypes []string `json:"allowed_file_types,omitempty"`
}

type QuizDTO struct {
	QuizID              uuid.UUID         `json:"quiz_id"`
	QuizCourseID        uuid.UUID         `json:"quiz_course_id"`
	QuizInstructorID    string            `json:"quiz_instructor_id"`
	QuizTitle           string            `json:"quiz_title"`
	QuizDescription     string            `json:"quiz_description"`
	QuizDurationMinutes int               `json:"quiz_duration_minutes"`
	QuizDueDate         time.Time         `json:"quiz_due_date"`
	QuizTotalMarks      float64           `json:"quiz_total_marks"`
	QuizIsActive        bool              `json:"quiz_is_active"`
	QuizQuestions       []QuizQuestionDTO `json:"quiz_questions"`
	QuizCreatedAt       time.Time         `json:"quiz_created_at"`
}

// ToQuizDTO is the instructor projection: correctness flags included.
func ToQuizDTO(m model.QuizModel) (QuizDTO, error) {
	questions, err := m.QuestionList()
	if err != nil {
		return QuizDTO{}, err
	}
	return buildQuizDTO(m, ProjectQuestions(questions, true)), nil
}

// ToQuizStudentDTO is the student projection: option correctness flags are
// stripped so answer keys never leave the server before grading.
func ToQuizStudentDTO(m model.QuizModel) (QuizDTO, error) {
	questions, err := m.QuestionList()
	if err != nil {
		return QuizDTO{}, err
	}
	return buildQuizDTO(m, ProjectQuestions(questions, false)), nil
}

// ProjectQuestions maps questions to their wire shape. When revealAnswers is
// false every option's is_correct is omitted.
func ProjectQuestions(questions []model.QuizQuestion, revealAnswers bool) []QuizQuestionDTO {
	out := make([]QuizQuestionDTO, 0, len(questions))
	for _, q := range questions {
		options := make([]QuizOptionDTO, 0, len(q.Options))
		for _, op := range q.Options {
			o := QuizOptionDTO{Text: op.Text}
			if revealAnswers {
				v := op.IsCorrect
				o.IsCorrect = &v
			}
			options = append(options, o)
		}
		out = append(out, QuizQuestionDTO{
			QuestionID:       q.QuestionID,
			Text:             q.Text,
			Type:             string(q.Type),
			Options:          options,
			Marks:            q.Marks,
			MaxFileSizeMB:    q.MaxFileSizeMB,
			AllowedFileTypes: q.AllowedFileTypes,
		})
	}
	return out
}

func buildQuizDTO(m model.QuizModel, questions []QuizQuestionDTO) QuizDTO {
	return QuizDTO{
		QuizID:              m.QuizID,
		QuizCourseID:        m.QuizCourseID,
		QuizInstructorID:    m.QuizInstructorID,
		QuizTitle:           m.QuizTitle,
		QuizDescription:     m.QuizDescription,
		QuizDurationMinutes: m.QuizDurationMinutes,
		QuizDueDate:         m.QuizDueDate,
		QuizTotalMarks:      m.QuizTotalMarks,
		QuizIsActive:        m.QuizIsActive,
		QuizQuestions:       questions,
		QuizCreatedAt:       m.QuizCreatedAt,
	}
}
