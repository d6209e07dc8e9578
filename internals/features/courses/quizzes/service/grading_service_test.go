package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kursusku_backend/internals/features/courses/quizzes/model"
)

func twoChoiceQuestions() []model.QuizQuestion {
	return []model.QuizQuestion{
		{
			QuestionID: "q1",
			Text:       "2 + 2 = ?",
			Type:       model.QuizQuestionTypeMultipleChoice,
			Marks:      5,
			Options: []model.QuizOption{
				{Text: "3"},
				{Text: "4", IsCorrect: true},
			},
		},
		{
			QuestionID: "q2",
			Text:       "3 * 3 = ?",
			Type:       model.QuizQuestionTypeMultipleChoice,
			Marks:      5,
			Options: []model.QuizOption{
				{Text: "9", IsCorrect: true},
				{Text: "6"},
			},
		},
	}
}

func TestScoreAnswersMultipleChoice(t *testing.T) {
	answers, err := ScoreAnswers(twoChoiceQuestions(), []SubmittedAnswer{
		{QuestionID: "q1", Answer: "4"},
		{QuestionID: "q2", Answer: "6"},
	})
	require.NoError(t, err)
	require.Len(t, answers, 2)

	assert.True(t, answers[0].IsCorrect)
	assert.Equal(t, 5.0, answers[0].Score)
	assert.False(t, answers[1].IsCorrect)
	assert.Equal(t, 0.0, answers[1].Score)

	assert.Equal(t, 5.0, model.SumAnswerScores(answers))
	assert.Equal(t, 50.0, Percentage(model.SumAnswerScores(answers), 10))
}

func TestScoreAnswersTextStartsAtZero(t *testing.T) {
	questions := []model.QuizQuestion{
		{QuestionID: "q1", Text: "Explain interfaces", Type: model.QuizQuestionTypeText, Marks: 10},
	}
	answers, err := ScoreAnswers(questions, []SubmittedAnswer{
		{QuestionID: "q1", Answer: "a long essay"},
	})
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.False(t, answers[0].IsCorrect)
	assert.Equal(t, 0.0, answers[0].Score)
	assert.Equal(t, "a long essay", answers[0].Answer)
}

func TestScoreAnswersUnansweredQuestionGetsZeroEntry(t *testing.T) {
	answers, err := ScoreAnswers(twoChoiceQuestions(), []SubmittedAnswer{
		{QuestionID: "q1", Answer: "4"},
	})
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, "q2", answers[1].QuestionID)
	assert.Equal(t, 0.0, answers[1].Score)
}

func TestScoreAnswersRejectsUnknownQuestion(t *testing.T) {
	_, err := ScoreAnswers(twoChoiceQuestions(), []SubmittedAnswer{
		{QuestionID: "nope", Answer: "4"},
	})
	assert.ErrorIs(t, err, ErrUnknownQuestion)
}

func TestScoreAnswersRejectsUnknownOption(t *testing.T) {
	_, err := ScoreAnswers(twoChoiceQuestions(), []SubmittedAnswer{
		{QuestionID: "q1", Answer: "not-an-option"},
	})
	assert.ErrorIs(t, err, ErrUnknownOption)
}

func TestScoreAnswersBlankChoiceCountsAsUnanswered(t *testing.T) {
	answers, err := ScoreAnswers(twoChoiceQuestions(), []SubmittedAnswer{
		{QuestionID: "q1", Answer: "  "},
	})
	require.NoError(t, err)
	assert.False(t, answers[0].IsCorrect)
	assert.Equal(t, 0.0, answers[0].Score)
}

func TestCheckEligibility(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	quiz := model.QuizModel{
		QuizIsActive: true,
		QuizDueDate:  now.Add(24 * time.Hour),
	}

	assert.NoError(t, CheckEligibility(quiz, false, now))
	assert.ErrorIs(t, CheckEligibility(quiz, true, now), ErrAlreadySubmitted)

	quiz.QuizDueDate = now.Add(-time.Minute)
	assert.ErrorIs(t, CheckEligibility(quiz, false, now), ErrQuizPastDue)

	quiz.QuizIsActive = false
	assert.ErrorIs(t, CheckEligibility(quiz, false, now), ErrQuizInactive)
}

func TestApplyGradeRecomputesAggregate(t *testing.T) {
	questions := []model.QuizQuestion{
		{QuestionID: "q1", Text: "mc", Type: model.QuizQuestionTypeMultipleChoice, Marks: 5,
			Options: []model.QuizOption{{Text: "a", IsCorrect: true}, {Text: "b"}}},
		{QuestionID: "q2", Text: "essay", Type: model.QuizQuestionTypeText, Marks: 10},
	}
	answers := []model.SubmissionAnswer{
		{QuestionID: "q1", Score: 5, IsCorrect: true},
		{QuestionID: "q2", Answer: "essay text"},
	}

	now := time.Now().UTC()
	feedback := "solid reasoning"
	graded, err := ApplyGrade(questions, answers, "q2", 8, &feedback, "educator-1", now)
	require.NoError(t, err)

	assert.Equal(t, 8.0, graded[1].Score)
	assert.False(t, graded[1].IsCorrect)
	require.NotNil(t, graded[1].GradedBy)
	assert.Equal(t, "educator-1", *graded[1].GradedBy)
	require.NotNil(t, graded[1].GradedAt)

	var sub model.QuizSubmissionModel
	require.NoError(t, sub.SetAnswers(graded))
	assert.Equal(t, 13.0, sub.SubmissionScore)
}

func TestApplyGradePreservesOtherGrades(t *testing.T) {
	questions := []model.QuizQuestion{
		{QuestionID: "q1", Text: "essay one", Type: model.QuizQuestionTypeText, Marks: 5},
		{QuestionID: "q2", Text: "essay two", Type: model.QuizQuestionTypeText, Marks: 10},
	}
	answers := []model.SubmissionAnswer{
		{QuestionID: "q1", Answer: "first"},
		{QuestionID: "q2", Answer: "second"},
	}

	now := time.Now().UTC()
	answers, err := ApplyGrade(questions, answers, "q1", 5, nil, "educator-1", now)
	require.NoError(t, err)
	answers, err = ApplyGrade(questions, answers, "q2", 8, nil, "educator-1", now)
	require.NoError(t, err)

	// grading q2 must not erase q1's grade
	assert.Equal(t, 5.0, answers[0].Score)
	assert.Equal(t, 8.0, answers[1].Score)

	var sub model.QuizSubmissionModel
	require.NoError(t, sub.SetAnswers(answers))
	assert.Equal(t, 13.0, sub.SubmissionScore)
}

func TestApplyGradeFullMarksFlagsCorrect(t *testing.T) {
	questions := []model.QuizQuestion{
		{QuestionID: "q1", Text: "essay", Type: model.QuizQuestionTypeText, Marks: 10},
	}
	answers := []model.SubmissionAnswer{{QuestionID: "q1", Answer: "perfect"}}

	graded, err := ApplyGrade(questions, answers, "q1", 10, nil, "educator-1", time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, graded[0].IsCorrect)
}

func TestApplyGradeRejectsOutOfRangeScore(t *testing.T) {
	questions := []model.QuizQuestion{
		{QuestionID: "q1", Text: "essay", Type: model.QuizQuestionTypeText, Marks: 10},
	}
	answers := []model.SubmissionAnswer{{QuestionID: "q1"}}

	_, err := ApplyGrade(questions, answers, "q1", 11, nil, "educator-1", time.Now().UTC())
	assert.ErrorIs(t, err, ErrScoreOutOfRange)

	_, err = ApplyGrade(questions, answers, "missing", 1, nil, "educator-1", time.Now().UTC())
	assert.ErrorIs(t, err, ErrUnknownQuestion)
}

func TestPercentageZeroTotalMarks(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(5, 0))
}
