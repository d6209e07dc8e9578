package service

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

const PassThresholdPercent = 60.0

// QuizResult is one graded submission flattened for aggregation.
type QuizResult struct {
	QuizID      uuid.UUID
	QuizTitle   string
	CourseID    uuid.UUID
	StudentID   string
	Score       float64
	TotalMarks  float64
	SubmittedAt time.Time
}

func (r QuizResult) Percent() float64 {
	return Percentage(r.Score, r.TotalMarks)
}

func (r QuizResult) Passed() bool {
	return r.Percent() >= PassThresholdPercent
}

/* =========================================================
   Student statistics
========================================================= */

type ProgressPoint struct {
	QuizID      uuid.UUID `json:"quiz_id"`
	QuizTitle   string    `json:"quiz_title"`
	Percent     float64   `json:"percent"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type StudentQuizResult struct {
	QuizID      uuid.UUID `json:"quiz_id"`
	QuizTitle   string    `json:"quiz_title"`
	Score       float64   `json:"score"`
	TotalMarks  float64   `json:"total_marks"`
	Percent     float64   `json:"percent"`
	Passed      bool      `json:"passed"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// StudentDistribution buckets percentages for charting.
type StudentDistribution struct {
	Excellent int `json:"excellent"` // >= 90
	Good      int `json:"good"`      // >= 75
	Average   int `json:"average"`   // >= 60
	Poor      int `json:"poor"`      // < 60
}

type StudentStats struct {
	TotalQuizzes   int                 `json:"total_quizzes"`
	AveragePercent float64             `json:"average_percent"`
	PassedCount    int                 `json:"passed_count"`
	PassRate       float64             `json:"pass_rate"`
	Results        []StudentQuizResult `json:"results"`
	Progress       []ProgressPoint     `json:"progress"`
	Distribution   StudentDistribution `json:"distribution"`
}

// BuildStudentStats aggregates one student's submissions. Input order does
// not matter; progress is sorted by submission time.
func BuildStudentStats(results []QuizResult) StudentStats {
	stats := StudentStats{
		Results:  make([]StudentQuizResult, 0, len(results)),
		Progress: make([]ProgressPoint, 0, len(results)),
	}

	var sumPercent float64
	for _, r := range results {
		pct := r.Percent()
		sumPercent += pct
		if r.Passed() {
			stats.PassedCount++
		}
		stats.Results = append(stats.Results, StudentQuizResult{
			QuizID:      r.QuizID,
			QuizTitle:   r.QuizTitle,
			Score:       r.Score,
			TotalMarks:  r.TotalMarks,
			Percent:     pct,
			Passed:      r.Passed(),
			SubmittedAt: r.SubmittedAt,
		})

		switch {
		case pct >= 90:
			stats.Distribution.Excellent++
		case pct >= 75:
			stats.Distribution.Good++
		case pct >= PassThresholdPercent:
			stats.Distribution.Average++
		default:
			stats.Distribution.Poor++
		}
	}

	stats.TotalQuizzes = len(results)
	if stats.TotalQuizzes > 0 {
		stats.AveragePercent = sumPercent / float64(stats.TotalQuizzes)
		stats.PassRate = float64(stats.PassedCount) / float64(stats.TotalQuizzes) * 100
	}

	for _, r := range stats.Results {
		stats.Progress = append(stats.Progress, ProgressPoint{
			QuizID:      r.QuizID,
			QuizTitle:   r.QuizTitle,
			Percent:     r.Percent,
			SubmittedAt: r.SubmittedAt,
		})
	}
	sort.SliceStable(stats.Progress, func(i, j int) bool {
		return stats.Progress[i].SubmittedAt.Before(stats.Progress[j].SubmittedAt)
	})

	return stats
}

/* =========================================================
   Per-quiz statistics
========================================================= */

type QuizStudentResult struct {
	StudentID   string    `json:"student_id"`
	Score       float64   `json:"score"`
	TotalMarks  float64   `json:"total_marks"`
	Percent     float64   `json:"percent"`
	Passed      bool      `json:"passed"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type QuizStats struct {
	Submissions    int                 `json:"submissions"`
	AveragePercent float64             `json:"average_percent"`
	HighestPercent float64             `json:"highest_percent"`
	LowestPercent  float64             `json:"lowest_percent"`
	PassRate       float64             `json:"pass_rate"`
	Distribution   GradeDistribution   `json:"distribution"`
	Results        []QuizStudentResult `json:"results"`
}

// BuildQuizStats aggregates all submissions of one quiz, best score first.
func BuildQuizStats(results []QuizResult) QuizStats {
	stats := QuizStats{Results: make([]QuizStudentResult, 0, len(results))}

	var sumPercent float64
	var passed int
	for i, r := range results {
		pct := r.Percent()
		sumPercent += pct
		if r.Passed() {
			passed++
		}
		if i == 0 || pct > stats.HighestPercent {
			stats.HighestPercent = pct
		}
		if i == 0 || pct < stats.LowestPercent {
			stats.LowestPercent = pct
		}
		stats.Distribution.Add(pct)
		stats.Results = append(stats.Results, QuizStudentResult{
			StudentID:   r.StudentID,
			Score:       r.Score,
			TotalMarks:  r.TotalMarks,
			Percent:     pct,
			Passed:      r.Passed(),
			SubmittedAt: r.SubmittedAt,
		})
	}

	stats.Submissions = len(results)
	if stats.Submissions > 0 {
		stats.AveragePercent = sumPercent / float64(stats.Submissions)
		stats.PassRate = float64(passed) / float64(stats.Submissions) * 100
	}
	sort.SliceStable(stats.Results, func(i, j int) bool {
		return stats.Results[i].Percent > stats.Results[j].Percent
	})
	return stats
}

/* =========================================================
   Educator statistics
========================================================= */

// GradeDistribution is the educator-facing five-band breakdown.
type GradeDistribution struct {
	Excellent  int `json:"excellent"`  // >= 90
	VeryGood   int `json:"very_good"`  // >= 80
	Good       int `json:"good"`       // >= 70
	Acceptable int `json:"acceptable"` // >= 60
	Failed     int `json:"failed"`     // < 60
}

func (d *GradeDistribution) Add(percent float64) {
	switch {
	case percent >= 90:
		d.Excellent++
	case percent >= 80:
		d.VeryGood++
	case percent >= 70:
		d.Good++
	case percent >= PassThresholdPercent:
		d.Acceptable++
	default:
		d.Failed++
	}
}

type CourseBreakdown struct {
	CourseID       uuid.UUID `json:"course_id"`
	QuizCount      int       `json:"quiz_count"`
	Submissions    int       `json:"submissions"`
	AveragePercent float64   `json:"average_percent"`
	PassRate       float64   `json:"pass_rate"`
}

type QuizRanking struct {
	QuizID         uuid.UUID `json:"quiz_id"`
	QuizTitle      string    `json:"quiz_title"`
	Submissions    int       `json:"submissions"`
	AveragePercent float64   `json:"average_percent"`
}

type MonthlyTrendPoint struct {
	Month          string  `json:"month"` // YYYY-MM
	Submissions    int     `json:"submissions"`
	AveragePercent float64 `json:"average_percent"`
}

type EducatorStats struct {
	TotalQuizzes     int                 `json:"total_quizzes"`
	TotalSubmissions int                 `json:"total_submissions"`
	TotalStudents    int                 `json:"total_students"`
	AveragePercent   float64             `json:"average_percent"`
	PassRate         float64             `json:"pass_rate"`
	Distribution     GradeDistribution   `json:"distribution"`
	PerCourse        []CourseBreakdown   `json:"per_course"`
	TopQuizzes       []QuizRanking       `json:"top_quizzes"`
	MonthlyTrend     []MonthlyTrendPoint `json:"monthly_trend"`
}

// BuildEducatorStats aggregates every submission across the educator's
// quizzes. quizCount covers quizzes with zero submissions too, so it is
// passed separately from the flattened results.
func BuildEducatorStats(quizCount int, quizCoursePairs map[uuid.UUID]uuid.UUID, results []QuizResult, topN int) EducatorStats {
	stats := EducatorStats{TotalQuizzes: quizCount}

	students := map[string]struct{}{}
	type acc struct {
		count      int
		sumPercent float64
		passed     int
	}
	perCourse := map[uuid.UUID]*acc{}
	perQuiz := map[uuid.UUID]*acc{}
	quizTitles := map[uuid.UUID]string{}
	perMonth := map[string]*acc{}

	quizzesPerCourse := map[uuid.UUID]int{}
	for _, courseID := range quizCoursePairs {
		quizzesPerCourse[courseID]++
	}

	var sumPercent float64
	var passed int
	for _, r := range results {
		pct := r.Percent()
		sumPercent += pct
		if r.Passed() {
			passed++
		}
		students[r.StudentID] = struct{}{}
		stats.Distribution.Add(pct)

		bump := func(m map[uuid.UUID]*acc, key uuid.UUID) *acc {
			a, ok := m[key]
			if !ok {
				a = &acc{}
				m[key] = a
			}
			return a
		}
		ca := bump(perCourse, r.CourseID)
		ca.count++
		ca.sumPercent += pct
		if r.Passed() {
			ca.passed++
		}

		qa := bump(perQuiz, r.QuizID)
		qa.count++
		qa.sumPercent += pct
		quizTitles[r.QuizID] = r.QuizTitle

		month := r.SubmittedAt.UTC().Format("2006-01")
		ma, ok := perMonth[month]
		if !ok {
			ma = &acc{}
			perMonth[month] = ma
		}
		ma.count++
		ma.sumPercent += pct
	}

	stats.TotalSubmissions = len(results)
	stats.TotalStudents = len(students)
	if stats.TotalSubmissions > 0 {
		stats.AveragePercent = sumPercent / float64(stats.TotalSubmissions)
		stats.PassRate = float64(passed) / float64(stats.TotalSubmissions) * 100
	}

	for courseID, a := range perCourse {
		breakdown := CourseBreakdown{
			CourseID:       courseID,
			QuizCount:      quizzesPerCourse[courseID],
			Submissions:    a.count,
			AveragePercent: a.sumPercent / float64(a.count),
			PassRate:       float64(a.passed) / float64(a.count) * 100,
		}
		stats.PerCourse = append(stats.PerCourse, breakdown)
	}
	sort.Slice(stats.PerCourse, func(i, j int) bool {
		if stats.PerCourse[i].Submissions != stats.PerCourse[j].Submissions {
			return stats.PerCourse[i].Submissions > stats.PerCourse[j].Submissions
		}
		return stats.PerCourse[i].CourseID.String() < stats.PerCourse[j].CourseID.String()
	})

	for quizID, a := range perQuiz {
		stats.TopQuizzes = append(stats.TopQuizzes, QuizRanking{
			QuizID:         quizID,
			QuizTitle:      quizTitles[quizID],
			Submissions:    a.count,
			AveragePercent: a.sumPercent / float64(a.count),
		})
	}
	sort.Slice(stats.TopQuizzes, func(i, j int) bool {
		if stats.TopQuizzes[i].AveragePercent != stats.TopQuizzes[j].AveragePercent {
			return stats.TopQuizzes[i].AveragePercent > stats.TopQuizzes[j].AveragePercent
		}
		return stats.TopQuizzes[i].QuizID.String() < stats.TopQuizzes[j].QuizID.String()
	})
	if topN > 0 && len(stats.TopQuizzes) > topN {
		stats.TopQuizzes = stats.TopQuizzes[:topN]
	}

	for month, a := range perMonth {
		stats.MonthlyTrend = append(stats.MonthlyTrend, MonthlyTrendPoint{
			Month:          month,
			Submissions:    a.count,
			AveragePercent: a.sumPercent / float64(a.count),
		})
	}
	sort.Slice(stats.MonthlyTrend, func(i, j int) bool {
		return stats.MonthlyTrend[i].Month < stats.MonthlyTrend[j].Month
	})

	return stats
}
