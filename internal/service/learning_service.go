package service

import (
	"context"
	"fmt"

	"curiolearn_backend/internal/model"
	"curiolearn_backend/internal/repository"
	"curiolearn_backend/internal/util"
	"curiolearn_backend/pkg/monitoring"
)

// ContentStore supplies the sequencer's two selection queries.
type ContentStore interface {
	FirstChapter(ctx context.Context, courseID string) (*model.ContentNode, error)
	NextUnfinished(ctx context.Context, courseID, userID string) (*model.ContentNode, error)
}

// QuestionFinder resolves an explicitly requested question and records
// that the user has seen its answer.
type QuestionFinder interface {
	FindWithAnswer(ctx context.Context, courseID, questionID string) (*repository.QuestionDetail, error)
	MarkAnswered(ctx context.Context, userID, questionID string) error
}

// LearningService decides what a learner sees next in a course. The
// decision order is fixed: enrollment gate, explicit question request,
// course complete, first visit, then the lowest-numbered unfinished node.
type LearningService struct {
	Enrollments EnrollmentChecker
	Content     ContentStore
	Questions   QuestionFinder
	Progress    *ProgressService
	Hierarchy   *HierarchyService
	Recommend   *RecommendationService
}

func NewLearningService(
	enrollments EnrollmentChecker,
	content ContentStore,
	questions QuestionFinder,
	progress *ProgressService,
	hierarchy *HierarchyService,
	recommend *RecommendationService,
) *LearningService {
	return &LearningService{
		Enrollments: enrollments,
		Content:     content,
		Questions:   questions,
		Progress:    progress,
		Hierarchy:   hierarchy,
		Recommend:   recommend,
	}
}

// GetLearningContent resolves the learn request. questionID may be empty.
func (s *LearningService) GetLearningContent(ctx context.Context, courseID, userID, questionID string) (*model.LearnResponse, error) {
	enrolled, err := s.Enrollments.IsEnrolled(ctx, courseID, userID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, fmt.Errorf("%w: course %q", util.ErrNotEnrolled, courseID)
	}

	if questionID != "" {
		return s.questionDetail(ctx, courseID, userID, questionID)
	}

	finished, err := s.Progress.FinishedCount(ctx, courseID, userID)
	if err != nil {
		return nil, err
	}
	total, err := s.Progress.TotalItems(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if total > 0 && finished >= total {
		return s.courseComplete(ctx, courseID, finished, total)
	}
	if finished == 0 {
		return s.firstVisit(ctx, courseID, userID, total)
	}
	return s.inProgress(ctx, courseID, userID, finished, total)
}

func (s *LearningService) questionDetail(ctx context.Context, courseID, userID, questionID string) (*model.LearnResponse, error) {
	detail, err := s.Questions.FindWithAnswer(ctx, courseID, questionID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, fmt.Errorf("%w: %q in course %q", util.ErrQuestionNotFound, questionID, courseID)
	}

	// Seeing the answer counts as answering, so the question drops out of
	// future recommendations.
	if err := s.Questions.MarkAnswered(ctx, userID, questionID); err != nil {
		return nil, err
	}

	resp, err := s.buildResponse(ctx, courseID, userID, detail.Parent)
	if err != nil {
		return nil, err
	}
	if resp.CurrentProgress, err = s.Progress.FinishedCount(ctx, courseID, userID); err != nil {
		return nil, err
	}
	if resp.TotalItems, err = s.Progress.TotalItems(ctx, courseID); err != nil {
		return nil, err
	}
	resp.RequestedQuestion = &model.RequestedQuestion{
		ID:     detail.Question.QuestionID,
		Text:   detail.Question.Text,
		Answer: detail.Answer.Text,
	}
	monitoring.SequencerState.WithLabelValues("question_detail").Inc()
	return resp, nil
}

func (s *LearningService) courseComplete(ctx context.Context, courseID string, finished, total int) (*model.LearnResponse, error) {
	hierarchy, err := s.Hierarchy.CourseHierarchy(ctx, courseID, "")
	if err != nil {
		return nil, err
	}
	monitoring.SequencerState.WithLabelValues("complete").Inc()
	return &model.LearnResponse{
		Type:                 model.ContentTypeChapter,
		RecommendedQuestions: []model.RecommendedQuestion{},
		CurrentProgress:      finished,
		TotalItems:           total,
		CourseHierarchy:      hierarchy,
	}, nil
}

func (s *LearningService) firstVisit(ctx context.Context, courseID, userID string, total int) (*model.LearnResponse, error) {
	first, err := s.Content.FirstChapter(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if first == nil {
		return nil, fmt.Errorf("%w: course %q has no chapters", util.ErrContentNotFound, courseID)
	}
	resp, err := s.buildResponse(ctx, courseID, userID, *first)
	if err != nil {
		return nil, err
	}
	resp.TotalItems = total
	monitoring.SequencerState.WithLabelValues("first_visit").Inc()
	return resp, nil
}

func (s *LearningService) inProgress(ctx context.Context, courseID, userID string, finished, total int) (*model.LearnResponse, error) {
	next, err := s.Content.NextUnfinished(ctx, courseID, userID)
	if err != nil {
		return nil, err
	}
	if next == nil {
		// Counts said unfinished nodes remain but the query found none.
		return nil, fmt.Errorf("%w: course %q reports %d/%d finished but no next node", util.ErrInvariantViolation, courseID, finished, total)
	}
	resp, err := s.buildResponse(ctx, courseID, userID, *next)
	if err != nil {
		return nil, err
	}
	resp.CurrentProgress = finished
	resp.TotalItems = total
	monitoring.SequencerState.WithLabelValues("in_progress").Inc()
	return resp, nil
}

// buildResponse assembles the common payload around one content node.
func (s *LearningService) buildResponse(ctx context.Context, courseID, userID string, node model.ContentNode) (*model.LearnResponse, error) {
	recommendations, err := s.Recommend.RecommendedQuestions(ctx, courseID, userID, node.ID)
	if err != nil {
		return nil, err
	}
	hierarchy, err := s.Hierarchy.CourseHierarchy(ctx, courseID, node.ID)
	if err != nil {
		return nil, err
	}
	return &model.LearnResponse{
		Type:                 node.Type,
		ID:                   node.ID,
		Title:                node.Title,
		Text:                 node.Text,
		RecommendedQuestions: recommendations,
		CourseHierarchy:      hierarchy,
	}, nil
}
