package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CourseModel struct {
	CourseID         uuid.UUID `gorm:"column:course_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	CourseEducatorID string    `gorm:"column:course_educator_id;type:varchar(64);not null;index" json:"course_educator_id"`

	CourseTitle           string  `gorm:"column:course_title;type:varchar(255);not null" json:"course_title"`
	CourseDescription     string  `gorm:"column:course_description;type:text" json:"course_description"`
	CoursePrice           float64 `gorm:"column:course_price;type:numeric(12,2);not null;default:0" json:"course_price"`
	CourseDiscountPercent int     `gorm:"column:course_discount_percent;not null;default:0;check:course_discount_percent >= 0 AND course_discount_percent <= 100" json:"course_discount_percent"`
	CourseThumbnailURL    string  `gorm:"column:course_thumbnail_url;type:text" json:"course_thumbnail_url"`

	CourseTags        pq.StringArray `gorm:"column:course_tags;type:text[]" json:"course_tags"`
	CourseIsPublished bool           `gorm:"column:course_is_published;not null;default:true" json:"course_is_published"`

	// Ordered chapters → lectures; nested value objects with
	// client-generated ids, no independent lifecycle.
	CourseChapters datatypes.JSON `gorm:"column:course_chapters;type:jsonb;not null;default:'[]'::jsonb" json:"course_chapters"`

	// One rating per student, upserted in place.
	CourseRatings datatypes.JSON `gorm:"column:course_ratings;type:jsonb;not null;default:'[]'::jsonb" json:"course_ratings"`

	CourseCreatedAt time.Time      `gorm:"column:course_created_at;autoCreateTime" json:"course_created_at"`
	CourseUpdatedAt time.Time      `gorm:"column:course_updated_at;autoUpdateTime" json:"course_updated_at"`
	CourseDeletedAt gorm.DeletedAt `gorm:"column:course_deleted_at;index" json:"course_deleted_at,omitempty"`
}

func (CourseModel) TableName() string {
	return "courses"
}

/* =========================================================
   Chapters / lectures (JSONB value objects)
========================================================= */

type CourseLecture struct {
	LectureID       string  `json:"lecture_id"`
	LectureTitle    string  `json:"lecture_title"`
	LectureDuration float64 `json:"lecture_duration_minutes"`
	LectureMediaURL string  `json:"lecture_media_url"`
	LectureIsFree   bool    `json:"lecture_is_free_preview"`
	LectureOrder    int     `json:"lecture_order"`
}

type CourseChapter struct {
	ChapterID       string          `json:"chapter_id"`
	ChapterTitle    string          `json:"chapter_title"`
	ChapterOrder    int             `json:"chapter_order"`
	ChapterLectures []CourseLecture `json:"chapter_lectures"`
}

func (m *CourseModel) ChapterList() ([]CourseChapter, error) {
	var chapters []CourseChapter
	if len(m.CourseChapters) == 0 {
		return chapters, nil
	}
	if err := json.Unmarshal(m.CourseChapters, &chapters); err != nil {
		return nil, err
	}
	return chapters, nil
}

// SetChapters validates shape and stores the chapter list.
func (m *CourseModel) SetChapters(chapters []CourseChapter) error {
	if err := ValidateChapters(chapters); err != nil {
		return err
	}
	buf, err := json.Marshal(chapters)
	if err != nil {
		return err
	}
	m.CourseChapters = datatypes.JSON(buf)
	return nil
}

// ValidateChapters mirrors the DB-side expectations so bad payloads fail
// fast in the app.
func ValidateChapters(chapters []CourseChapter) error {
	seenChapter := map[string]struct{}{}
	for _, ch := range chapters {
		if strings.TrimSpace(ch.ChapterID) == "" {
			return errors.New("chapter_id is required")
		}
		if _, dup := seenChapter[ch.ChapterID]; dup {
			return errors.New("duplicate chapter_id: " + ch.ChapterID)
		}
		seenChapter[ch.ChapterID] = struct{}{}
		if strings.TrimSpace(ch.ChapterTitle) == "" {
			return errors.New("chapter_title is required")
		}
		seenLecture := map[string]struct{}{}
		for _, lec := range ch.ChapterLectures {
			if strings.TrimSpace(lec.LectureID) == "" {
				return errors.New("lecture_id is required")
			}
			if _, dup := seenLecture[lec.LectureID]; dup {
				return errors.New("duplicate lecture_id: " + lec.LectureID)
			}
			seenLecture[lec.LectureID] = struct{}{}
			if strings.TrimSpace(lec.LectureTitle) == "" {
				return errors.New("lecture_title is required")
			}
			if lec.LectureDuration < 0 {
				return errors.New("lecture_duration_minutes must be >= 0")
			}
		}
	}
	return nil
}

/* =========================================================
   Ratings (JSONB, one per student)
========================================================= */

type CourseRating struct {
	UserID  string    `json:"user_id"`
	Rating  int       `json:"rating"`
	RatedAt time.Time `json:"rated_at"`
}

func (m *CourseModel) RatingList() ([]CourseRating, error) {
	var ratings []CourseRating
	if len(m.CourseRatings) == 0 {
		return ratings, nil
	}
	if err := json.Unmarshal(m.CourseRatings, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

// UpsertRating replaces the student's previous rating if present.
func (m *CourseModel) UpsertRating(userID string, rating int, now time.Time) error {
	if rating < 1 || rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	ratings, err := m.RatingList()
	if err != nil {
		return err
	}
	replaced := false
	for i := range ratings {
		if ratings[i].UserID == userID {
			ratings[i].Rating = rating
			ratings[i].RatedAt = now
			replaced = true
			break
		}
	}
	if !replaced {
		ratings = append(ratings, CourseRating{UserID: userID, Rating: rating, RatedAt: now})
	}
	buf, err := json.Marshal(ratings)
	if err != nil {
		return err
	}
	m.CourseRatings = datatypes.JSON(buf)
	return nil
}

// DiscountedPrice is the amount actually charged at checkout.
func (m *CourseModel) DiscountedPrice() float64 {
	price := m.CoursePrice * (1 - float64(m.CourseDiscountPercent)/100)
	if price < 0 {
		return 0
	}
	return price
}
