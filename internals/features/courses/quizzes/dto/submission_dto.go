package dto

import (
	"time"

	"github.com/google/uuid"

	"kursusku_backend/internals/features/courses/quizzes/model"
)

type SubmissionAnswerDTO struct {
	QuestionID string     `json:"question_id"`
	Answer     string     `json:"answer,omitempty"`
	FileURL    *string    `json:"file_url,omitempty"`
	IsCorrect  bool       `json:"is_correct"`
	Score      float64    `json:"score"`
	Feedback   *string    `json:"feedback,omitempty"`
	GradedBy   *string    `json:"graded_by,omitempty"`
	GradedAt   *time.Time `json:"graded_at,omitempty"`
}

type SubmissionDTO struct {
	SubmissionID        uuid.UUID             `json:"submission_id"`
	SubmissionQuizID    uuid.UUID             `json:"submission_quiz_id"`
	SubmissionStudentID string                `json:"submission_student_id"`
	SubmissionAnswers   []SubmissionAnswerDTO `json:"submission_answers"`
	SubmissionScore     float64               `json:"submission_score"`
	QuizTotalMarks      float64               `json:"quiz_total_marks,omitempty"`
	SubmittedAt         time.Time             `json:"submitted_at"`
}

func ToSubmissionDTO(m model.QuizSubmissionModel, totalMarks float64) (SubmissionDTO, error) {
	answers, err := m.AnswerList()
	if err != nil {
		return SubmissionDTO{}, err
	}
	out := make([]SubmissionAnswerDTO, 0, len(answers))
	for _, a := range answers {
		out = append(out, SubmissionAnswerDTO{
			QuestionID: a.QuestionID,
			Answer:     a.Answer,
			FileURL:    a.FileURL,
			IsCorrect:  a.IsCorrect,
			Score:      a.Score,
			Feedback:   a.Feedback,
			GradedBy:   a.GradedBy,
			GradedAt:   a.GradedAt,
		})
	}
	return SubmissionDTO{
		SubmissionID:        m.SubmissionID,
		SubmissionQuizID:    m.SubmissionQuizID,
		SubmissionStudentID: m.SubmissionStudentID,
		SubmissionAnswers:   out,
		SubmissionScore:     m.SubmissionScore,
		QuizTotalMarks:      totalMarks,
		SubmittedAt:         m.SubmissionSubmittedAt,
	}, nil
}
