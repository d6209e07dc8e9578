package service

import (
	"errors"
	"strings"
	"time"

	"kursusku_backend/internals/features/courses/quizzes/model"
)

var (
	ErrQuizInactive     = errors.New("quiz is not active")
	ErrQuizPastDue      = errors.New("quiz due date has passed")
	ErrAlreadySubmitted = errors.New("quiz already submitted")
	ErrUnknownQuestion  = errors.New("answer references unknown question")
	ErrUnknownOption    = errors.New("answer references unknown option")
	ErrScoreOutOfRange  = errors.New("score exceeds question marks")
)

// SubmittedAnswer is the graded-input shape, decoupled from transport DTOs.
type SubmittedAnswer struct {
	QuestionID string
	Answer     string
	FileURL    *string
}

// CheckEligibility decides whether a student may submit now. Duplicate
// detection here is advisory only; the unique index settles races.
func CheckEligibility(quiz model.QuizModel, hasSubmission bool, now time.Time) error {
	if !quiz.QuizIsActive {
		return ErrQuizInactive
	}
	if now.After(quiz.QuizDueDate) {
		return ErrQuizPastDue
	}
	if hasSubmission {
		return ErrAlreadySubmitted
	}
	return nil
}

// ScoreAnswers grades a submission against the question list.
// Multiple choice earns full marks when the chosen option is the correct
// one, zero otherwise; a non-blank choice that matches none of the options
// is a payload error, not a wrong answer. Text and file answers start at
// zero pending manual grading. Unanswered questions still get a zero-score
// entry so graders see the full sheet.
func ScoreAnswers(questions []model.QuizQuestion, submitted []SubmittedAnswer) ([]model.SubmissionAnswer, error) {
	byQuestion := make(map[string]SubmittedAnswer, len(submitted))
	known := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		known[q.QuestionID] = struct{}{}
	}
	for _, a := range submitted {
		if _, ok := known[a.QuestionID]; !ok {
			return nil, ErrUnknownQuestion
		}
		byQuestion[a.QuestionID] = a
	}

	answers := make([]model.SubmissionAnswer, 0, len(questions))
	for _, q := range questions {
		entry := model.SubmissionAnswer{QuestionID: q.QuestionID}
		got, answered := byQuestion[q.QuestionID]
		if answered {
			entry.Answer = got.Answer
			entry.FileURL = got.FileURL
		}

		if q.Type == model.QuizQuestionTypeMultipleChoice && answered {
			chosen := strings.TrimSpace(got.Answer)
			if chosen != "" {
				option, ok := findOption(q.Options, chosen)
				if !ok {
					return nil, ErrUnknownOption
				}
				if option.IsCorrect {
					entry.IsCorrect = true
					entry.Score = q.Marks
				}
			}
		}
		answers = append(answers, entry)
	}
	return answers, nil
}

func findOption(options []model.QuizOption, chosen string) (model.QuizOption, bool) {
	for _, op := range options {
		if strings.TrimSpace(op.Text) == chosen {
			return op, true
		}
	}
	return model.QuizOption{}, false
}

// ApplyGrade sets a manual score on one answer and stamps the grader.
// Returns the updated list; callers persist it and the recomputed aggregate
// in one transaction.
func ApplyGrade(questions []model.QuizQuestion, answers []model.SubmissionAnswer, questionID string, score float64, feedback *string, graderID string, now time.Time) ([]model.SubmissionAnswer, error) {
	var question *model.QuizQuestion
	for i := range questions {
		if questions[i].QuestionID == questionID {
			question = &questions[i]
			break
		}
	}
	if question == nil {
		return nil, ErrUnknownQuestion
	}
	if score < 0 || score > question.Marks {
		return nil, ErrScoreOutOfRange
	}

	for i := range answers {
		if answers[i].QuestionID != questionID {
			continue
		}
		answers[i].Score = score
		answers[i].IsCorrect = score >= question.Marks
		answers[i].Feedback = feedback
		answers[i].GradedBy = &graderID
		gradedAt := now
		answers[i].GradedAt = &gradedAt
		return answers, nil
	}
	return nil, ErrUnknownQuestion
}

// Percentage converts a raw score to 0..100. Zero total marks yields zero.
func Percentage(score, totalMarks float64) float64 {
	if totalMarks <= 0 {
		return 0
	}
	return score / totalMarks * 100
}
