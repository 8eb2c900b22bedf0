package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curiolearn_backend/internal/model"
	"curiolearn_backend/internal/util"
)

func enrollmentFixture() (*fakeStore, *EnrollmentService, *ProgressService) {
	store := sequencedCourse()
	progress := NewProgressService(store, store, store)
	return store, NewEnrollmentService(store, store, progress), progress
}

func TestEnrollInCourse(t *testing.T) {
	store, svc, _ := enrollmentFixture()

	require.NoError(t, svc.EnrollInCourse(context.Background(), "course-1", "alice"))
	assert.True(t, store.enrolled["alice"])
}

func TestEnrollInCourse_UnknownCourse(t *testing.T) {
	_, svc, _ := enrollmentFixture()

	err := svc.EnrollInCourse(context.Background(), "course-missing", "alice")
	require.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestEnrollInCourse_AlreadyEnrolled(t *testing.T) {
	store, svc, _ := enrollmentFixture()
	store.enrolled["alice"] = true

	err := svc.EnrollInCourse(context.Background(), "course-1", "alice")
	require.ErrorIs(t, err, util.ErrAlreadyEnrolled)
}

func TestAvailableCourses_ExcludesEnrolled(t *testing.T) {
	store, svc, _ := enrollmentFixture()

	available, err := svc.AvailableCourses(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "course-1", available[0].CourseID)

	store.enrolled["alice"] = true
	available, err = svc.AvailableCourses(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, available)
}

func TestEnrolledCourses_DecoratesProgress(t *testing.T) {
	store, svc, progress := enrollmentFixture()
	store.enrolled["alice"] = true

	_, err := progress.MarkContentFinished(context.Background(), "course-1", "alice", "ch-1", model.ContentTypeChapter)
	require.NoError(t, err)

	enrolled, err := svc.EnrolledCourses(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, enrolled, 1)

	summary := enrolled[0]
	require.NotNil(t, summary.Progress)
	assert.Equal(t, 1, summary.Progress.Completed)
	assert.Equal(t, 5, summary.Progress.Total)
	assert.Equal(t, 20, summary.Progress.Percentage)
	assert.False(t, summary.Progress.IsCompleted)

	require.NotNil(t, summary.LastInteracted)
	assert.Equal(t, store.now, *summary.LastInteracted)
}

func TestEnrolledCourses_LastInteractedFallsBackToCreation(t *testing.T) {
	store, svc, _ := enrollmentFixture()
	store.enrolled["alice"] = true

	enrolled, err := svc.EnrolledCourses(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, enrolled, 1)

	require.NotNil(t, enrolled[0].LastInteracted)
	assert.Equal(t, store.course.CreatedAt, *enrolled[0].LastInteracted)
}
