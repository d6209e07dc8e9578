package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuestions() []QuizQuestion {
	return []QuizQuestion{
		{
			QuestionID: "q1",
			Text:       "Pick one",
			Type:       QuizQuestionTypeMultipleChoice,
			Marks:      5,
			Options:    []QuizOption{{Text: "a", IsCorrect: true}, {Text: "b"}},
		},
		{QuestionID: "q2", Text: "Essay", Type: QuizQuestionTypeText, Marks: 10},
		{QuestionID: "q3", Text: "Upload", Type: QuizQuestionTypeFile, Marks: 5, MaxFileSizeMB: 5},
	}
}

func TestSetQuestionsRecomputesTotalMarks(t *testing.T) {
	var quiz QuizModel
	require.NoError(t, quiz.SetQuestions(validQuestions()))
	assert.Equal(t, 20.0, quiz.QuizTotalMarks)

	roundtrip, err := quiz.QuestionList()
	require.NoError(t, err)
	require.Len(t, roundtrip, 3)
	assert.Equal(t, "q2", roundtrip[1].QuestionID)
}

func TestValidateQuestionsRejectsBadShapes(t *testing.T) {
	cases := []struct {
		name      string
		questions []QuizQuestion
	}{
		{"duplicate id", []QuizQuestion{
			{QuestionID: "q1", Text: "a", Type: QuizQuestionTypeText, Marks: 1},
			{QuestionID: "q1", Text: "b", Type: QuizQuestionTypeText, Marks: 1},
		}},
		{"missing text", []QuizQuestion{
			{QuestionID: "q1", Text: "  ", Type: QuizQuestionTypeText, Marks: 1},
		}},
		{"zero marks", []QuizQuestion{
			{QuestionID: "q1", Text: "a", Type: QuizQuestionTypeText, Marks: 0},
		}},
		{"mc one option", []QuizQuestion{
			{QuestionID: "q1", Text: "a", Type: QuizQuestionTypeMultipleChoice, Marks: 1,
				Options: []QuizOption{{Text: "only", IsCorrect: true}}},
		}},
		{"mc no correct option", []QuizQuestion{
			{QuestionID: "q1", Text: "a", Type: QuizQuestionTypeMultipleChoice, Marks: 1,
				Options: []QuizOption{{Text: "a"}, {Text: "b"}}},
		}},
		{"mc two correct options", []QuizQuestion{
			{QuestionID: "q1", Text: "a", Type: QuizQuestionTypeMultipleChoice, Marks: 1,
				Options: []QuizOption{{Text: "a", IsCorrect: true}, {Text: "b", IsCorrect: true}}},
		}},
		{"text with options", []QuizQuestion{
			{QuestionID: "q1", Text: "a", Type: QuizQuestionTypeText, Marks: 1,
				Options: []QuizOption{{Text: "a"}}},
		}},
		{"unknown type", []QuizQuestion{
			{QuestionID: "q1", Text: "a", Type: "essay", Marks: 1},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, ValidateQuestions(tc.questions))
		})
	}
}

func TestSubmissionSetAnswersAggregatesScore(t *testing.T) {
	var sub QuizSubmissionModel
	require.NoError(t, sub.SetAnswers([]SubmissionAnswer{
		{QuestionID: "q1", Score: 5},
		{QuestionID: "q2", Score: 2.5},
		{QuestionID: "q3"},
	}))
	assert.Equal(t, 7.5, sub.SubmissionScore)

	answers, err := sub.AnswerList()
	require.NoError(t, err)
	require.Len(t, answers, 3)
	assert.Equal(t, 2.5, answers[1].Score)
}
