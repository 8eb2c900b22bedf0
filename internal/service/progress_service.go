package service

import (
	"context"
	"fmt"
	"time"

	"curiolearn_backend/internal/model"
	"curiolearn_backend/internal/util"
	"curiolearn_backend/pkg/monitoring"
)

// ProgressStore persists per-user completion state.
type ProgressStore interface {
	TotalItems(ctx context.Context, courseID string) (int, error)
	FinishedCount(ctx context.Context, courseID, userID string) (int, error)
	MarkFinished(ctx context.Context, courseID, userID, contentID string, typ model.ContentType) (time.Time, error)
	ResetProgress(ctx context.Context, courseID, userID string) error
}

// ContentChecker verifies a content node belongs to a course under the
// declared type before any write touches it.
type ContentChecker interface {
	Exists(ctx context.Context, courseID, contentID string, typ model.ContentType) (bool, error)
}

// EnrollmentChecker gates every progress operation on enrollment.
type EnrollmentChecker interface {
	IsEnrolled(ctx context.Context, courseID, userID string) (bool, error)
}

// ProgressService counts, records and resets completion. Marking is
// idempotent: re-finishing a node reports the same totals and keeps the
// original completion timestamp.
type ProgressService struct {
	Progress    ProgressStore
	Content     ContentChecker
	Enrollments EnrollmentChecker
}

func NewProgressService(progress ProgressStore, content ContentChecker, enrollments EnrollmentChecker) *ProgressService {
	return &ProgressService{Progress: progress, Content: content, Enrollments: enrollments}
}

func (s *ProgressService) TotalItems(ctx context.Context, courseID string) (int, error) {
	return s.Progress.TotalItems(ctx, courseID)
}

func (s *ProgressService) FinishedCount(ctx context.Context, courseID, userID string) (int, error) {
	return s.Progress.FinishedCount(ctx, courseID, userID)
}

// MarkContentFinished records completion of one content node and returns
// the recomputed course progress. Questions under the node are marked
// answered in the same transaction.
func (s *ProgressService) MarkContentFinished(ctx context.Context, courseID, userID, contentID string, typ model.ContentType) (*model.FinishResult, error) {
	exists, err := s.Content.Exists(ctx, courseID, contentID, typ)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s %q in course %q", util.ErrContentNotFound, typ, contentID, courseID)
	}

	lastInteracted, err := s.Progress.MarkFinished(ctx, courseID, userID, contentID, typ)
	if err != nil {
		return nil, err
	}

	// The write committed, so a failed recount leaves the caller without
	// consistent totals.
	finished, err := s.Progress.FinishedCount(ctx, courseID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: progress recount after finishing %q: %v", util.ErrInvariantViolation, contentID, err)
	}
	total, err := s.Progress.TotalItems(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("%w: total recount after finishing %q: %v", util.ErrInvariantViolation, contentID, err)
	}

	monitoring.ContentCompletions.Inc()
	return &model.FinishResult{
		Completed:          total > 0 && finished >= total,
		TotalContent:       total,
		Progress:           finished,
		ProgressPercentage: model.ProgressPercentage(finished, total),
		LastInteracted:     lastInteracted,
	}, nil
}

// ResetCourseProgress deletes the user's completion and answer marks for
// one course. Enrollment and course content survive.
func (s *ProgressService) ResetCourseProgress(ctx context.Context, courseID, userID string) error {
	enrolled, err := s.Enrollments.IsEnrolled(ctx, courseID, userID)
	if err != nil {
		return err
	}
	if !enrolled {
		return fmt.Errorf("%w: course %q", util.ErrNotEnrolled, courseID)
	}
	return s.Progress.ResetProgress(ctx, courseID, userID)
}
