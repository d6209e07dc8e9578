package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kursusku_backend/internals/features/courses/courses/model"
)

func courseWithLectures(t *testing.T) model.CourseModel {
	t.Helper()
	course := model.CourseModel{CourseTitle: "Go from scratch"}
	err := course.SetChapters([]model.CourseChapter{
		{
			ChapterID:    "ch1",
			ChapterTitle: "Basics",
			ChapterLectures: []model.CourseLecture{
				{LectureID: "l1", LectureTitle: "Intro", LectureIsFree: true, LectureMediaURL: "https://cdn/intro.mp4"},
				{LectureID: "l2", LectureTitle: "Types", LectureMediaURL: "https://cdn/types.mp4"},
			},
		},
	})
	require.NoError(t, err)
	return course
}

func TestPublicProjectionHidesPaidMedia(t *testing.T) {
	course := courseWithLectures(t)

	out := ToCoursePublicDTO(course, 0, false)
	require.Len(t, out.CourseChapters, 1)
	lectures := out.CourseChapters[0].ChapterLectures
	require.Len(t, lectures, 2)
	assert.Equal(t, "https://cdn/intro.mp4", lectures[0].LectureMediaURL) // free preview stays
	assert.Equal(t, "", lectures[1].LectureMediaURL)                     // paid lecture hidden
}

func TestEnrolledViewerSeesAllMedia(t *testing.T) {
	course := courseWithLectures(t)

	out := ToCoursePublicDTO(course, 3, true)
	lectures := out.CourseChapters[0].ChapterLectures
	assert.Equal(t, "https://cdn/types.mp4", lectures[1].LectureMediaURL)
	assert.Equal(t, int64(3), out.CourseEnrolledCount)
}

func TestRatingSummary(t *testing.T) {
	course := courseWithLectures(t)
	now := time.Now().UTC()
	require.NoError(t, course.UpsertRating("u1", 5, now))
	require.NoError(t, course.UpsertRating("u2", 4, now))

	out := ToCourseDTO(course, 0)
	assert.Equal(t, 2, out.CourseRatingCount)
	assert.InDelta(t, 4.5, out.CourseRatingAverage, 0.001)
}
