package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(quizID uuid.UUID, title, student string, score, total float64, at time.Time) QuizResult {
	return QuizResult{
		QuizID:      quizID,
		QuizTitle:   title,
		StudentID:   student,
		Score:       score,
		TotalMarks:  total,
		SubmittedAt: at,
	}
}

func TestBuildStudentStats(t *testing.T) {
	quizA := uuid.New()
	quizB := uuid.New()
	quizC := uuid.New()
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	// deliberately out of chronological order
	stats := BuildStudentStats([]QuizResult{
		result(quizB, "B", "s1", 5, 10, base.Add(48*time.Hour)),  // 50%
		result(quizA, "A", "s1", 9, 10, base),                    // 90%
		result(quizC, "C", "s1", 15, 20, base.Add(24*time.Hour)), // 75%
	})

	assert.Equal(t, 3, stats.TotalQuizzes)
	assert.Equal(t, 2, stats.PassedCount)
	assert.InDelta(t, 66.67, stats.PassRate, 0.01)
	assert.InDelta(t, (50.0+90.0+75.0)/3, stats.AveragePercent, 0.001)

	assert.Equal(t, 1, stats.Distribution.Excellent)
	assert.Equal(t, 1, stats.Distribution.Good)
	assert.Equal(t, 0, stats.Distribution.Average)
	assert.Equal(t, 1, stats.Distribution.Poor)

	require.Len(t, stats.Progress, 3)
	assert.Equal(t, quizA, stats.Progress[0].QuizID)
	assert.Equal(t, quizC, stats.Progress[1].QuizID)
	assert.Equal(t, quizB, stats.Progress[2].QuizID)
}

func TestBuildStudentStatsPassRateOrderIndependent(t *testing.T) {
	base := time.Now().UTC()
	results := []QuizResult{
		result(uuid.New(), "A", "s1", 6, 10, base),
		result(uuid.New(), "B", "s1", 5, 10, base.Add(time.Hour)),
		result(uuid.New(), "C", "s1", 10, 10, base.Add(2*time.Hour)),
	}
	forward := BuildStudentStats(results)

	reversed := []QuizResult{results[2], results[1], results[0]}
	backward := BuildStudentStats(reversed)

	assert.Equal(t, forward.PassRate, backward.PassRate)
	assert.Equal(t, forward.Distribution, backward.Distribution)
	assert.InDelta(t, 66.67, forward.PassRate, 0.01)
}

func TestBuildStudentStatsEmpty(t *testing.T) {
	stats := BuildStudentStats(nil)
	assert.Equal(t, 0, stats.TotalQuizzes)
	assert.Equal(t, 0.0, stats.PassRate)
	assert.Empty(t, stats.Progress)
}

func TestBuildQuizStats(t *testing.T) {
	quizID := uuid.New()
	base := time.Now().UTC()
	stats := BuildQuizStats([]QuizResult{
		result(quizID, "Q", "s1", 9, 10, base),
		result(quizID, "Q", "s2", 4, 10, base),
		result(quizID, "Q", "s3", 7, 10, base),
	})

	assert.Equal(t, 3, stats.Submissions)
	assert.InDelta(t, 66.67, stats.AveragePercent, 0.01)
	assert.Equal(t, 90.0, stats.HighestPercent)
	assert.Equal(t, 40.0, stats.LowestPercent)
	assert.InDelta(t, 66.67, stats.PassRate, 0.01)

	// best score first
	require.Len(t, stats.Results, 3)
	assert.Equal(t, "s1", stats.Results[0].StudentID)
	assert.Equal(t, "s2", stats.Results[2].StudentID)
}

func TestBuildEducatorStats(t *testing.T) {
	course1 := uuid.New()
	course2 := uuid.New()
	quiz1 := uuid.New()
	quiz2 := uuid.New()
	quiz3 := uuid.New() // no submissions

	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)

	pairs := map[uuid.UUID]uuid.UUID{quiz1: course1, quiz2: course2, quiz3: course2}
	results := []QuizResult{
		{QuizID: quiz1, QuizTitle: "One", CourseID: course1, StudentID: "s1", Score: 9, TotalMarks: 10, SubmittedAt: jan},
		{QuizID: quiz1, QuizTitle: "One", CourseID: course1, StudentID: "s2", Score: 5, TotalMarks: 10, SubmittedAt: jan},
		{QuizID: quiz2, QuizTitle: "Two", CourseID: course2, StudentID: "s1", Score: 8, TotalMarks: 10, SubmittedAt: feb},
	}

	stats := BuildEducatorStats(3, pairs, results, 5)

	assert.Equal(t, 3, stats.TotalQuizzes)
	assert.Equal(t, 3, stats.TotalSubmissions)
	assert.Equal(t, 2, stats.TotalStudents)
	assert.InDelta(t, (90.0+50.0+80.0)/3, stats.AveragePercent, 0.001)
	assert.InDelta(t, 66.67, stats.PassRate, 0.01)

	assert.Equal(t, 1, stats.Distribution.Excellent)
	assert.Equal(t, 1, stats.Distribution.VeryGood)
	assert.Equal(t, 1, stats.Distribution.Failed)

	require.Len(t, stats.PerCourse, 2)
	// course1 has more submissions, listed first
	assert.Equal(t, course1, stats.PerCourse[0].CourseID)
	assert.Equal(t, 1, stats.PerCourse[0].QuizCount)
	assert.Equal(t, 2, stats.PerCourse[0].Submissions)
	assert.Equal(t, 2, stats.PerCourse[1].QuizCount) // quiz3 counted even without submissions

	require.Len(t, stats.TopQuizzes, 2)
	assert.Equal(t, quiz2, stats.TopQuizzes[0].QuizID) // avg 80 beats avg 70
	assert.InDelta(t, 80.0, stats.TopQuizzes[0].AveragePercent, 0.001)

	require.Len(t, stats.MonthlyTrend, 2)
	assert.Equal(t, "2026-01", stats.MonthlyTrend[0].Month)
	assert.Equal(t, 2, stats.MonthlyTrend[0].Submissions)
	assert.Equal(t, "2026-02", stats.MonthlyTrend[1].Month)
	assert.InDelta(t, 80.0, stats.MonthlyTrend[1].AveragePercent, 0.001)
}

func TestBuildEducatorStatsTopNLimit(t *testing.T) {
	pairs := map[uuid.UUID]uuid.UUID{}
	var results []QuizResult
	course := uuid.New()
	base := time.Now().UTC()
	for i := 0; i < 8; i++ {
		quizID := uuid.New()
		pairs[quizID] = course
		results = append(results, QuizResult{
			QuizID: quizID, QuizTitle: "Q", CourseID: course, StudentID: "s1",
			Score: float64(i), TotalMarks: 10, SubmittedAt: base,
		})
	}
	stats := BuildEducatorStats(8, pairs, results, 5)
	assert.Len(t, stats.TopQuizzes, 5)
	// descending by average
	assert.InDelta(t, 70.0, stats.TopQuizzes[0].AveragePercent, 0.001)
}
