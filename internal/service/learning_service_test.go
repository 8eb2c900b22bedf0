package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curiolearn_backend/internal/model"
	"curiolearn_backend/internal/util"
)

func TestLearn_NotEnrolled(t *testing.T) {
	store := sequencedCourse()
	learning, _ := newTestServices(store)

	_, err := learning.GetLearningContent(context.Background(), "course-1", "alice", "")
	require.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestLearn_FirstVisitReturnsFirstChapter(t *testing.T) {
	store := sequencedCourse()
	learning, _ := newTestServices(store)
	store.enrolled["alice"] = true

	resp, err := learning.GetLearningContent(context.Background(), "course-1", "alice", "")
	require.NoError(t, err)

	assert.Equal(t, "ch-1", resp.ID)
	assert.Equal(t, model.ContentTypeChapter, resp.Type)
	assert.Equal(t, "Basics", resp.Title)
	assert.Equal(t, 0, resp.CurrentProgress)
	assert.Equal(t, 5, resp.TotalItems)
	require.Len(t, resp.CourseHierarchy, 5)
	assert.True(t, resp.CourseHierarchy[0].Current)
}

func TestLearn_NextUnfinishedIsLowestSerial(t *testing.T) {
	store := sequencedCourse()
	learning, progress := newTestServices(store)
	store.enrolled["alice"] = true

	_, err := progress.MarkContentFinished(context.Background(), "course-1", "alice", "ch-1", model.ContentTypeChapter)
	require.NoError(t, err)
	_, err = progress.MarkContentFinished(context.Background(), "course-1", "alice", "sub-1-1", model.ContentTypeSubContent)
	require.NoError(t, err)

	resp, err := learning.GetLearningContent(context.Background(), "course-1", "alice", "")
	require.NoError(t, err)

	assert.Equal(t, "sub-1-2", resp.ID)
	assert.Equal(t, model.ContentTypeSubContent, resp.Type)
	assert.Equal(t, 2, resp.CurrentProgress)
	assert.Equal(t, 5, resp.TotalItems)

	// Identical state yields the identical selection.
	again, err := learning.GetLearningContent(context.Background(), "course-1", "alice", "")
	require.NoError(t, err)
	assert.Equal(t, resp.ID, again.ID)
}

func TestLearn_SubContentBeforeNextChapter(t *testing.T) {
	store := sequencedCourse()
	learning, progress := newTestServices(store)
	store.enrolled["alice"] = true

	for _, n := range []struct {
		id  string
		typ model.ContentType
	}{
		{"ch-1", model.ContentTypeChapter},
		{"sub-1-1", model.ContentTypeSubContent},
		{"sub-1-2", model.ContentTypeSubContent},
	} {
		_, err := progress.MarkContentFinished(context.Background(), "course-1", "alice", n.id, n.typ)
		require.NoError(t, err)
	}

	resp, err := learning.GetLearningContent(context.Background(), "course-1", "alice", "")
	require.NoError(t, err)
	assert.Equal(t, "ch-2", resp.ID)
}

func TestLearn_CourseCompleteSentinel(t *testing.T) {
	store := sequencedCourse()
	learning, progress := newTestServices(store)
	store.enrolled["alice"] = true

	for _, n := range store.nodes {
		_, err := progress.MarkContentFinished(context.Background(), "course-1", "alice", n.id, n.typ)
		require.NoError(t, err)
	}

	resp, err := learning.GetLearningContent(context.Background(), "course-1", "alice", "")
	require.NoError(t, err)

	assert.Empty(t, resp.ID)
	assert.Empty(t, resp.Title)
	assert.Empty(t, resp.Text)
	assert.Empty(t, resp.RecommendedQuestions)
	assert.NotNil(t, resp.RecommendedQuestions)
	assert.Equal(t, 5, resp.CurrentProgress)
	assert.Equal(t, 5, resp.TotalItems)
	assert.Len(t, resp.CourseHierarchy, 5)
}

func TestLearn_QuestionDetail(t *testing.T) {
	store := sequencedCourse()
	learning, _ := newTestServices(store)
	store.enrolled["alice"] = true

	resp, err := learning.GetLearningContent(context.Background(), "course-1", "alice", "q-s11a")
	require.NoError(t, err)

	require.NotNil(t, resp.RequestedQuestion)
	assert.Equal(t, "q-s11a", resp.RequestedQuestion.ID)
	assert.Equal(t, "First question?", resp.RequestedQuestion.Text)
	assert.Equal(t, "A.", resp.RequestedQuestion.Answer)

	// The detail is framed by the question's parent node.
	assert.Equal(t, "sub-1-1", resp.ID)
	assert.Equal(t, model.ContentTypeSubContent, resp.Type)

	// Viewing the answer records it as answered.
	assert.True(t, store.hasAnswered("alice", "q-s11a"))

	// The requested question never appears among the recommendations.
	for _, q := range resp.RecommendedQuestions {
		assert.NotEqual(t, "q-s11a", q.ID)
	}
}

func TestLearn_QuestionDetailUnknownQuestion(t *testing.T) {
	store := sequencedCourse()
	learning, _ := newTestServices(store)
	store.enrolled["alice"] = true

	_, err := learning.GetLearningContent(context.Background(), "course-1", "alice", "q-missing")
	require.ErrorIs(t, err, util.ErrQuestionNotFound)
}

func TestLearn_EmptyCourse(t *testing.T) {
	store := newFakeStore("course-1", nil)
	learning, _ := newTestServices(store)
	store.enrolled["alice"] = true

	_, err := learning.GetLearningContent(context.Background(), "course-1", "alice", "")
	require.ErrorIs(t, err, util.ErrContentNotFound)
}
