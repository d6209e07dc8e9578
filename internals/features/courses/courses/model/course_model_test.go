package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateChapters(t *testing.T) {
	good := []CourseChapter{
		{
			ChapterID:    "ch1",
			ChapterTitle: "Intro",
			ChapterLectures: []CourseLecture{
				{LectureID: "l1", LectureTitle: "Welcome", LectureDuration: 5},
			},
		},
	}
	assert.NoError(t, ValidateChapters(good))

	dupChapter := append(good, CourseChapter{ChapterID: "ch1", ChapterTitle: "Again"})
	assert.Error(t, ValidateChapters(dupChapter))

	badLecture := []CourseChapter{
		{
			ChapterID:    "ch1",
			ChapterTitle: "Intro",
			ChapterLectures: []CourseLecture{
				{LectureID: "l1", LectureTitle: "Welcome", LectureDuration: -1},
			},
		},
	}
	assert.Error(t, ValidateChapters(badLecture))
}

func TestSetChaptersRoundtrip(t *testing.T) {
	var course CourseModel
	require.NoError(t, course.SetChapters([]CourseChapter{
		{ChapterID: "ch1", ChapterTitle: "Intro", ChapterOrder: 1},
		{ChapterID: "ch2", ChapterTitle: "Deep dive", ChapterOrder: 2},
	}))

	chapters, err := course.ChapterList()
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "Deep dive", chapters[1].ChapterTitle)
}

func TestDiscountedPrice(t *testing.T) {
	course := CourseModel{CoursePrice: 100, CourseDiscountPercent: 25}
	assert.Equal(t, 75.0, course.DiscountedPrice())

	course.CourseDiscountPercent = 0
	assert.Equal(t, 100.0, course.DiscountedPrice())

	course.CourseDiscountPercent = 100
	assert.Equal(t, 0.0, course.DiscountedPrice())
}

func TestUpsertRatingReplacesPerUser(t *testing.T) {
	var course CourseModel
	now := time.Now().UTC()

	require.NoError(t, course.UpsertRating("u1", 4, now))
	require.NoError(t, course.UpsertRating("u2", 5, now))
	require.NoError(t, course.UpsertRating("u1", 2, now.Add(time.Hour)))

	ratings, err := course.RatingList()
	require.NoError(t, err)
	require.Len(t, ratings, 2)
	assert.Equal(t, 2, ratings[0].Rating)
	assert.Equal(t, "u1", ratings[0].UserID)

	assert.Error(t, course.UpsertRating("u1", 0, now))
	assert.Error(t, course.UpsertRating("u1", 6, now))
}
