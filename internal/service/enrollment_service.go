package service

import (
	"context"
	"fmt"

	"curiolearn_backend/internal/model"
	"curiolearn_backend/internal/repository"
	"curiolearn_backend/internal/util"
)

// EnrollmentStore persists the user-course enrollment edge and its
// listings.
type EnrollmentStore interface {
	IsEnrolled(ctx context.Context, courseID, userID string) (bool, error)
	Enroll(ctx context.Context, courseID, userID string) error
	AvailableCourses(ctx context.Context, userID string) ([]model.Course, error)
	EnrolledCourses(ctx context.Context, userID string) ([]repository.EnrolledRow, error)
}

// CourseFinder looks up a course by id; nil when absent.
type CourseFinder interface {
	FindByID(ctx context.Context, courseID string) (*model.Course, error)
}

type EnrollmentService struct {
	Enrollments EnrollmentStore
	Courses     CourseFinder
	Progress    *ProgressService
}

func NewEnrollmentService(enrollments EnrollmentStore, courses CourseFinder, progress *ProgressService) *EnrollmentService {
	return &EnrollmentService{Enrollments: enrollments, Courses: courses, Progress: progress}
}

func (s *EnrollmentService) EnrollInCourse(ctx context.Context, courseID, userID string) error {
	course, err := s.Courses.FindByID(ctx, courseID)
	if err != nil {
		return err
	}
	if course == nil {
		return fmt.Errorf("%w: %q", util.ErrCourseNotFound, courseID)
	}
	enrolled, err := s.Enrollments.IsEnrolled(ctx, courseID, userID)
	if err != nil {
		return err
	}
	if enrolled {
		return fmt.Errorf("%w: course %q", util.ErrAlreadyEnrolled, courseID)
	}
	return s.Enrollments.Enroll(ctx, courseID, userID)
}

func (s *EnrollmentService) AvailableCourses(ctx context.Context, userID string) ([]model.CourseSummary, error) {
	courses, err := s.Enrollments.AvailableCourses(ctx, userID)
	if err != nil {
		return nil, err
	}
	summaries := make([]model.CourseSummary, 0, len(courses))
	for _, c := range courses {
		summaries = append(summaries, model.CourseSummary{
			CourseID:   c.CourseID,
			Title:      c.Title,
			Topic:      c.Topic,
			Complexity: c.Complexity,
			CreatedAt:  c.CreatedAt,
		})
	}
	return summaries, nil
}

// EnrolledCourses lists the user's courses, most recently touched first,
// decorated with completion counts. Enrollments that predate interaction
// tracking fall back to the course creation time.
func (s *EnrollmentService) EnrolledCourses(ctx context.Context, userID string) ([]model.CourseSummary, error) {
	rows, err := s.Enrollments.EnrolledCourses(ctx, userID)
	if err != nil {
		return nil, err
	}
	summaries := make([]model.CourseSummary, 0, len(rows))
	for _, row := range rows {
		total, err := s.Progress.TotalItems(ctx, row.Course.CourseID)
		if err != nil {
			return nil, err
		}
		finished, err := s.Progress.FinishedCount(ctx, row.Course.CourseID, userID)
		if err != nil {
			return nil, err
		}

		lastInteracted := row.LastInteracted
		if lastInteracted == nil {
			created := row.Course.CreatedAt
			lastInteracted = &created
		}
		summaries = append(summaries, model.CourseSummary{
			CourseID:       row.Course.CourseID,
			Title:          row.Course.Title,
			Topic:          row.Course.Topic,
			Complexity:     row.Course.Complexity,
			CreatedAt:      row.Course.CreatedAt,
			LastInteracted: lastInteracted,
			Progress: &model.CourseProgressSummary{
				Completed:   finished,
				Total:       total,
				Percentage:  model.ProgressPercentage(finished, total),
				IsCompleted: total > 0 && finished >= total,
			},
		})
	}
	return summaries, nil
}
