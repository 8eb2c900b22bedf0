package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/agext/levenshtein"

	"curiolearn_backend/internal/model"
	"curiolearn_backend/internal/util"
	"curiolearn_backend/pkg/logger"
	"curiolearn_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// similarTopicDistance is the maximum edit distance at which two topics
// are treated as the same course request.
const similarTopicDistance = 3

// CourseStore is the write side of course creation.
type CourseStore interface {
	ListAll(ctx context.Context) ([]model.Course, error)
	ImportCourse(ctx context.Context, topic string, gen *model.GeneratedCourse) (string, error)
	MarkCreatedAndEnrolled(ctx context.Context, userID, courseID string) error
}

// Enroller attaches a user to an existing course.
type Enroller interface {
	Enroll(ctx context.Context, courseID, userID string) error
}

// CreateCourseResult reports whether the user got a fresh course or was
// enrolled in an existing one close enough to their topic.
type CreateCourseResult struct {
	Course         model.Course `json:"course"`
	ReusedExisting bool         `json:"reusedExisting"`
	TotalItems     int          `json:"totalItems"`
}

type CourseCreationService struct {
	Generator   CourseGenerator
	Courses     CourseStore
	Enrollments Enroller
	Progress    *ProgressService
}

func NewCourseCreationService(generator CourseGenerator, courses CourseStore, enrollments Enroller, progress *ProgressService) *CourseCreationService {
	return &CourseCreationService{Generator: generator, Courses: courses, Enrollments: enrollments, Progress: progress}
}

// CreateOrEnroll builds a course for the topic, or enrolls the user in an
// existing course whose topic is nearly identical at the same complexity.
func (s *CourseCreationService) CreateOrEnroll(ctx context.Context, userID, topic string, complexity model.Complexity) (*CreateCourseResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: empty topic", util.ErrInvalidTopic)
	}

	existing, err := s.findSimilarCourse(ctx, topic, complexity)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := s.Enrollments.Enroll(ctx, existing.CourseID, userID); err != nil {
			return nil, err
		}
		logger.Log.Info("enrolled user in similar existing course",
			zap.String("topic", topic),
			zap.String("courseId", existing.CourseID))
		return s.result(ctx, *existing, true)
	}

	verdict, err := s.Generator.ValidateTopic(ctx, topic)
	if err != nil {
		return nil, err
	}
	if !verdict.CanBeCourse {
		return nil, fmt.Errorf("%w: %s", util.ErrInvalidTopic, verdict.Reason)
	}

	gen, err := s.Generator.Generate(ctx, topic, complexity)
	if err != nil {
		return nil, err
	}
	courseID, err := s.Courses.ImportCourse(ctx, topic, gen)
	if err != nil {
		return nil, err
	}
	if err := s.Courses.MarkCreatedAndEnrolled(ctx, userID, courseID); err != nil {
		return nil, err
	}
	monitoring.CoursesGenerated.Inc()
	logger.Log.Info("generated new course",
		zap.String("topic", topic),
		zap.String("complexity", string(complexity)),
		zap.String("courseId", courseID),
		zap.Int("chapters", len(gen.Chapters)))

	return s.result(ctx, model.Course{
		CourseID:   courseID,
		Title:      gen.Title,
		Topic:      topic,
		Complexity: complexity,
	}, false)
}

func (s *CourseCreationService) result(ctx context.Context, course model.Course, reused bool) (*CreateCourseResult, error) {
	total, err := s.Progress.TotalItems(ctx, course.CourseID)
	if err != nil {
		return nil, err
	}
	return &CreateCourseResult{Course: course, ReusedExisting: reused, TotalItems: total}, nil
}

// findSimilarCourse scans existing courses for one whose topic is within
// edit distance of the request at the same complexity.
func (s *CourseCreationService) findSimilarCourse(ctx context.Context, topic string, complexity model.Complexity) (*model.Course, error) {
	courses, err := s.Courses.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	want := strings.ToLower(topic)
	for i, c := range courses {
		if c.Complexity != complexity {
			continue
		}
		if levenshtein.Distance(want, strings.ToLower(c.Topic), nil) <= similarTopicDistance {
			return &courses[i], nil
		}
	}
	return nil, nil
}
