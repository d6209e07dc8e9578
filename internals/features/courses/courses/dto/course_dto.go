package dto

import (
	"time"

	"github.com/google/uuid"

	"kursusku_backend/internals/features/courses/courses/model"
)

// ============================
// Response DTO
// ============================
type CourseDTO struct {
	CourseID              uuid.UUID             `json:"course_id"`
	CourseEducatorID      string                `json:"course_educator_id"`
	CourseTitle           string                `json:"course_title"`
	CourseDescription     string                `json:"course_description"`
	CoursePrice           float64               `json:"course_price"`
	CourseDiscountPercent int                   `json:"course_discount_percent"`
	CourseThumbnailURL    string                `json:"course_thumbnail_url"`
	CourseTags            []string              `json:"course_tags"`
	CourseIsPublished     bool                  `json:"course_is_published"`
	CourseChapters        []model.CourseChapter `json:"course_chapters"`
	CourseRatingAverage   float64               `json:"course_rating_average"`
	CourseRatingCount     int                   `json:"course_rating_count"`
	CourseEnrolledCount   int64                 `json:"course_enrolled_count"`
	CourseCreatedAt       time.Time             `json:"course_created_at"`
}

// ============================
// Request DTOs
// ============================
type CourseChapterRequest struct {
	ChapterID       string                 `json:"chapter_id" validate:"required"`
	ChapterTitle    string                 `json:"chapter_title" validate:"required"`
	ChapterOrder    int                    `json:"chapter_order"`
	ChapterLectures []CourseLectureRequest `json:"chapter_lectures" validate:"dive"`
}

type CourseLectureRequest struct {
	LectureID       string  `json:"lecture_id" validate:"required"`
	LectureTitle    string  `json:"lecture_title" validate:"required"`
	LectureDuration float64 `json:"lecture_duration_minutes" validate:"gte=0"`
	LectureMediaURL string  `json:"lecture_media_url"`
	LectureIsFree   bool    `json:"lecture_is_free_preview"`
	LectureOrder    int     `json:"lecture_order"`
}

type CreateCourseRequest struct {
	CourseTitle           string                 `json:"course_title" validate:"required,max=255"`
	CourseDescription     string                 `json:"course_description"`
	CoursePrice           float64                `json:"course_price" validate:"gte=0"`
	CourseDiscountPercent int                    `json:"course_discount_percent" validate:"gte=0,lte=100"`
	CourseTags            []string               `json:"course_tags"`
	CourseIsPublished     *bool                  `json:"course_is_published"`
	CourseChapters        []CourseChapterRequest `json:"course_chapters" validate:"dive"`
}

type RateCourseRequest struct {
	Rating int `json:"rating" validate:"required,gte=1,lte=5"`
}

func (r CourseChapterRequest) ToChapter() model.CourseChapter {
	lectures := make([]model.CourseLecture, 0, len(r.ChapterLectures))
	for _, l := range r.ChapterLectures {
		lectures = append(lectures, model.CourseLecture{
			LectureID:       l.LectureID,
			LectureTitle:    l.LectureTitle,
			LectureDuration: l.LectureDuration,
			LectureMediaURL: l.LectureMediaURL,
			LectureIsFree:   l.LectureIsFree,
			LectureOrder:    l.LectureOrder,
		})
	}
	return model.CourseChapter{
		ChapterID:       r.ChapterID,
		ChapterTitle:    r.ChapterTitle,
		ChapterOrder:    r.ChapterOrder,
		ChapterLectures: lectures,
	}
}

// ============================
// Converters
// ============================

// ToCourseDTO builds the full (owner) projection.
func ToCourseDTO(m model.CourseModel, enrolledCount int64) CourseDTO {
	chapters, _ := m.ChapterList()
	if chapters == nil {
		chapters = []model.CourseChapter{}
	}
	avg, count := ratingSummary(m)
	return CourseDTO{
		CourseID:              m.CourseID,
		CourseEducatorID:      m.CourseEducatorID,
		CourseTitle:           m.CourseTitle,
		CourseDescription:     m.CourseDescription,
		CoursePrice:           m.CoursePrice,
		CourseDiscountPercent: m.CourseDiscountPercent,
		CourseThumbnailURL:    m.CourseThumbnailURL,
		CourseTags:            m.CourseTags,
		CourseIsPublished:     m.CourseIsPublished,
		CourseChapters:        chapters,
		CourseRatingAverage:   avg,
		CourseRatingCount:     count,
		CourseEnrolledCount:   enrolledCount,
		CourseCreatedAt:       m.CourseCreatedAt,
	}
}

// ToCoursePublicDTO builds the student projection: lecture media URLs are
// stripped unless the lecture is a free preview or the viewer is enrolled.
func ToCoursePublicDTO(m model.CourseModel, enrolledCount int64, viewerEnrolled bool) CourseDTO {
	out := ToCourseDTO(m, enrolledCount)
	if viewerEnrolled {
		return out
	}
	for ci := range out.CourseChapters {
		for li := range out.CourseChapters[ci].ChapterLectures {
			lec := &out.CourseChapters[ci].ChapterLectures[li]
			if !lec.LectureIsFree {
				lec.LectureMediaURL = ""
			}
		}
	}
	return out
}

func ratingSummary(m model.CourseModel) (float64, int) {
	ratings, err := m.RatingList()
	if err != nil || len(ratings) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	return float64(sum) / float64(len(ratings)), len(ratings)
}
