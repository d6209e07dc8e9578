package dto

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kursusku_backend/internals/features/courses/quizzes/model"
)

func sampleQuiz(t *testing.T) model.QuizModel {
	t.Helper()
	quiz := model.QuizModel{
		QuizTitle:   "Basics",
		QuizDueDate: time.Now().Add(24 * time.Hour),
	}
	err := quiz.SetQuestions([]model.QuizQuestion{
		{
			QuestionID: "q1",
			Text:       "Pick one",
			Type:       model.QuizQuestionTypeMultipleChoice,
			Marks:      5,
			Options: []model.QuizOption{
				{Text: "right", IsCorrect: true},
				{Text: "wrong"},
			},
		},
	})
	require.NoError(t, err)
	return quiz
}

func TestStudentProjectionStripsCorrectness(t *testing.T) {
	quiz := sampleQuiz(t)

	out, err := ToQuizStudentDTO(quiz)
	require.NoError(t, err)
	require.Len(t, out.QuizQuestions, 1)
	require.Len(t, out.QuizQuestions[0].Options, 2)
	for _, op := range out.QuizQuestions[0].Options {
		assert.Nil(t, op.IsCorrect)
	}

	// the flag must not survive serialization either
	buf, err := sonic.Marshal(out)
	require.NoError(t, err)
	assert.NotContains(t, string(buf), "is_correct")
}

func TestInstructorProjectionKeepsCorrectness(t *testing.T) {
	quiz := sampleQuiz(t)

	out, err := ToQuizDTO(quiz)
	require.NoError(t, err)
	require.Len(t, out.QuizQuestions[0].Options, 2)
	require.NotNil(t, out.QuizQuestions[0].Options[0].IsCorrect)
	assert.True(t, *out.QuizQuestions[0].Options[0].IsCorrect)
	require.NotNil(t, out.QuizQuestions[0].Options[1].IsCorrect)
	assert.False(t, *out.QuizQuestions[0].Options[1].IsCorrect)
}

func TestCreateQuizRequestToQuestions(t *testing.T) {
	req := CreateQuizRequest{
		QuizQuestions: []QuizQuestionRequest{
			{
				QuestionID: "q1",
				Text:       "Pick",
				Type:       "multiple_choice",
				Marks:      5,
				Options:    []QuizOptionRequest{{Text: "a", IsCorrect: true}, {Text: "b"}},
			},
			{QuestionID: "q2", Text: "Write", Type: "text", Marks: 10},
		},
	}
	questions := req.ToQuestions()
	require.Len(t, questions, 2)
	assert.Equal(t, model.QuizQuestionTypeMultipleChoice, questions[0].Type)
	assert.True(t, questions[0].Options[0].IsCorrect)
	assert.Equal(t, model.QuizQuestionTypeText, questions[1].Type)
	assert.Equal(t, 15.0, model.TotalMarks(questions))
}
