package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuizSubmissionModel holds one student's answers for one quiz.
// The unique (quiz, student) index is the arbiter under concurrent
// duplicate submits; deleting a quiz cascades to its submissions.
type QuizSubmissionModel struct {
	SubmissionID        uuid.UUID `gorm:"column:submission_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"submission_id"`
	SubmissionQuizID    uuid.UUID `gorm:"column:submission_quiz_id;type:uuid;not null;uniqueIndex:uq_submission_quiz_student;constraint:OnDelete:CASCADE" json:"submission_quiz_id"`
	SubmissionStudentID string    `gorm:"column:submission_student_id;type:varchar(64);not null;uniqueIndex:uq_submission_quiz_student" json:"submission_student_id"`

	SubmissionAnswers datatypes.JSON `gorm:"column:submission_answers;type:jsonb;not null;default:'[]'::jsonb" json:"submission_answers"`

	// Sum of per-answer scores; recomputed whenever an answer is graded.
	SubmissionScore       float64   `gorm:"column:submission_score;type:numeric(8,2);not null;default:0" json:"submission_score"`
	SubmissionSubmittedAt time.Time `gorm:"column:submission_submitted_at;not null" json:"submission_submitted_at"`

	SubmissionCreatedAt time.Time `gorm:"column:submission_created_at;autoCreateTime" json:"submission_created_at"`
	SubmissionUpdatedAt time.Time `gorm:"column:submission_updated_at;autoUpdateTime" json:"submission_updated_at"`

	Quiz *QuizModel `gorm:"foreignKey:SubmissionQuizID;references:QuizID;constraint:OnDelete:CASCADE" json:"-"`
}

func (QuizSubmissionModel) TableName() string {
	return "quiz_submissions"
}

/* =========================================================
   Answers (JSONB value objects)
========================================================= */

type SubmissionAnswer struct {
	QuestionID string  `json:"question_id"`
	Answer     string  `json:"answer,omitempty"`
	FileURL    *string `json:"file_url,omitempty"`

	IsCorrect bool    `json:"is_correct"`
	Score     float64 `json:"score"`

	// manual grading metadata (text/file questions)
	Feedback *string    `json:"feedback,omitempty"`
	GradedBy *string    `json:"graded_by,omitempty"`
	GradedAt *time.Time `json:"graded_at,omitempty"`
}

func (m *QuizSubmissionModel) AnswerList() ([]SubmissionAnswer, error) {
	var answers []SubmissionAnswer
	if len(m.SubmissionAnswers) == 0 {
		return answers, nil
	}
	if err := json.Unmarshal(m.SubmissionAnswers, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// SetAnswers stores the answer list and recomputes the aggregate score.
func (m *QuizSubmissionModel) SetAnswers(answers []SubmissionAnswer) error {
	buf, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	m.SubmissionAnswers = datatypes.JSON(buf)
	m.SubmissionScore = SumAnswerScores(answers)
	return nil
}

func SumAnswerScores(answers []SubmissionAnswer) float64 {
	var total float64
	for _, a := range answers {
		total += a.Score
	}
	return total
}
