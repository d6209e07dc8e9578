package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuizQuestionType string

const (
	QuizQuestionTypeMultipleChoice QuizQuestionType = "multiple_choice"
	QuizQuestionTypeText           QuizQuestionType = "text"
	QuizQuestionTypeFile           QuizQuestionType = "file"
)

type QuizModel struct {
	QuizID           uuid.UUID `gorm:"column:quiz_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"quiz_id"`
	QuizCourseID     uuid.UUID `gorm:"column:quiz_course_id;type:uuid;not null;index" json:"quiz_course_id"`
	QuizInstructorID string    `gorm:"column:quiz_instructor_id;type:varchar(64);not null;index" json:"quiz_instructor_id"`

	QuizTitle           string    `gorm:"column:quiz_title;type:varchar(255);not null" json:"quiz_title"`
	QuizDescription     string    `gorm:"column:quiz_description;type:text" json:"quiz_description"`
	QuizDurationMinutes int       `gorm:"column:quiz_duration_minutes;not null;default:0" json:"quiz_duration_minutes"`
	QuizDueDate         time.Time `gorm:"column:quiz_due_date;not null" json:"quiz_due_date"`
	QuizTotalMarks      float64   `gorm:"column:quiz_total_marks;type:numeric(8,2);not null;default:0" json:"quiz_total_marks"`
	QuizIsActive        bool      `gorm:"column:quiz_is_active;not null;default:true" json:"quiz_is_active"`

	// Ordered question list; options with correctness flags live inside.
	QuizQuestions datatypes.JSON `gorm:"column:quiz_questions;type:jsonb;not null;default:'[]'::jsonb" json:"quiz_questions"`

	QuizCreatedAt time.Time `gorm:"column:quiz_created_at;autoCreateTime" json:"quiz_created_at"`
	QuizUpdatedAt time.Time `gorm:"column:quiz_updated_at;autoUpdateTime" json:"quiz_updated_at"`
}

func (QuizModel) TableName() string {
	return "quizzes"
}

/* =========================================================
   Questions (JSONB value objects)
========================================================= */

type QuizOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type QuizQuestion struct {
	QuestionID string           `json:"question_id"`
	Text       string           `json:"text"`
	Type       QuizQuestionType `json:"type"`
	Options    []QuizOption     `json:"options,omitempty"`
	Marks      float64          `json:"marks"`

	// file questions only
	MaxFileSizeMB    int      `json:"max_file_size_mb,omitempty"`
	AllowedFileTypes []string `json:"allowed_file_types,omitempty"`
}

func (m *QuizModel) QuestionList() ([]QuizQuestion, error) {
	var questions []QuizQuestion
	if len(m.QuizQuestions) == 0 {
		return questions, nil
	}
	if err := json.Unmarshal(m.QuizQuestions, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// SetQuestions validates shape, stores the list, and recomputes
// quiz_total_marks so the stored total always equals the sum of
// question marks.
func (m *QuizModel) SetQuestions(questions []QuizQuestion) error {
	if err := ValidateQuestions(questions); err != nil {
		return err
	}
	buf, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	m.QuizQuestions = datatypes.JSON(buf)
	m.QuizTotalMarks = TotalMarks(questions)
	return nil
}

// TotalMarks sums question marks.
func TotalMarks(questions []QuizQuestion) float64 {
	var total float64
	for _, q := range questions {
		total += q.Marks
	}
	return total
}

// ValidateQuestions mirrors the DB-side expectations so bad payloads fail
// fast in the app.
func ValidateQuestions(questions []QuizQuestion) error {
	seen := map[string]struct{}{}
	for _, q := range questions {
		if strings.TrimSpace(q.QuestionID) == "" {
			return errors.New("question_id is required")
		}
		if _, dup := seen[q.QuestionID]; dup {
			return errors.New("duplicate question_id: " + q.QuestionID)
		}
		seen[q.QuestionID] = struct{}{}
		if strings.TrimSpace(q.Text) == "" {
			return errors.New("question text is required")
		}
		if q.Marks <= 0 {
			return errors.New("question marks must be > 0")
		}

		switch q.Type {
		case QuizQuestionTypeMultipleChoice:
			if len(q.Options) < 2 {
				return errors.New("multiple_choice: at least 2 options required")
			}
			correct := 0
			for _, op := range q.Options {
				if strings.TrimSpace(op.Text) == "" {
					return errors.New("multiple_choice: option text must not be empty")
				}
				if op.IsCorrect {
					correct++
				}
			}
			if correct != 1 {
				return errors.New("multiple_choice: exactly one option must have is_correct=true")
			}
		case QuizQuestionTypeText:
			if len(q.Options) != 0 {
				return errors.New("text: options must be empty")
			}
		case QuizQuestionTypeFile:
			if len(q.Options) != 0 {
				return errors.New("file: options must be empty")
			}
			if q.MaxFileSizeMB < 0 {
				return errors.New("file: max_file_size_mb must be >= 0")
			}
		default:
			return errors.New("unknown question type: " + string(q.Type))
		}
	}
	return nil
}
