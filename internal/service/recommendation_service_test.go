package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curiolearn_backend/internal/model"
)

func recommendationFixture() (*fakeStore, *RecommendationService) {
	store := sequencedCourse()
	return store, NewRecommendationService(store, store)
}

func TestRecommend_DescendantsFirst(t *testing.T) {
	_, svc := recommendationFixture()

	qs, err := svc.RecommendedQuestions(context.Background(), "course-1", "alice", "ch-1")
	require.NoError(t, err)

	// Descendants of ch-1 come first, then later tiers fill the quota.
	require.NotEmpty(t, qs)
	assert.Equal(t, "q-s11a", qs[0].ID)
	assert.Equal(t, "q-s11b", qs[1].ID)
	assert.Equal(t, "q-s12", qs[2].ID)
}

func TestRecommend_ExcludesDisplayedNodesOwnQuestions(t *testing.T) {
	_, svc := recommendationFixture()

	qs, err := svc.RecommendedQuestions(context.Background(), "course-1", "alice", "ch-1")
	require.NoError(t, err)
	for _, q := range qs {
		assert.NotEqual(t, "q-ch1", q.ID)
	}

	qs, err = svc.RecommendedQuestions(context.Background(), "course-1", "alice", "sub-1-1")
	require.NoError(t, err)
	for _, q := range qs {
		assert.NotEqual(t, "q-s11a", q.ID)
		assert.NotEqual(t, "q-s11b", q.ID)
	}
}

func TestRecommend_ExcludesAnsweredQuestions(t *testing.T) {
	store, svc := recommendationFixture()
	require.NoError(t, store.MarkAnswered(context.Background(), "alice", "q-s11a"))

	qs, err := svc.RecommendedQuestions(context.Background(), "course-1", "alice", "ch-1")
	require.NoError(t, err)
	for _, q := range qs {
		assert.NotEqual(t, "q-s11a", q.ID)
	}
}

func TestRecommend_NoDuplicates(t *testing.T) {
	_, svc := recommendationFixture()

	qs, err := svc.RecommendedQuestions(context.Background(), "course-1", "alice", "sub-1-2")
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, q := range qs {
		assert.False(t, seen[q.ID], "question %s recommended twice", q.ID)
		seen[q.ID] = true
	}
}

func TestRecommend_CapsAtFive(t *testing.T) {
	nodes := []fakeNode{
		{id: "ch-1", typ: model.ContentTypeChapter, title: "Big", serial: 1},
	}
	for i := 0; i < 4; i++ {
		sub := fakeNode{
			id:       "sub-" + string(rune('a'+i)),
			typ:      model.ContentTypeSubContent,
			serial:   1.1 + float64(i)/10,
			parentID: "ch-1",
		}
		for j := 0; j < 3; j++ {
			sub.questions = append(sub.questions, fakeQuestion{
				id:   sub.id + "-q" + string(rune('0'+j)),
				text: "question",
			})
		}
		nodes = append(nodes, sub)
	}
	store := newFakeStore("course-1", nodes)
	svc := NewRecommendationService(store, store)

	qs, err := svc.RecommendedQuestions(context.Background(), "course-1", "alice", "ch-1")
	require.NoError(t, err)
	assert.Len(t, qs, 5)
}

func TestRecommend_ForwardTierFromSubContent(t *testing.T) {
	store, svc := recommendationFixture()
	// Exhaust local questions on the last sub-content of chapter one.
	require.NoError(t, store.MarkAnswered(context.Background(), "alice", "q-s12"))

	qs, err := svc.RecommendedQuestions(context.Background(), "course-1", "alice", "sub-1-2")
	require.NoError(t, err)

	// Everything recommended sits later in the course.
	ids := map[string]bool{}
	for _, q := range qs {
		ids[q.ID] = true
	}
	assert.True(t, ids["q-ch2"])
	assert.True(t, ids["q-s21"])
	assert.False(t, ids["q-s11a"], "questions before the node must not appear")
}

func TestRecommend_UnknownNodeYieldsNothing(t *testing.T) {
	_, svc := recommendationFixture()

	qs, err := svc.RecommendedQuestions(context.Background(), "course-1", "alice", "missing")
	require.NoError(t, err)
	assert.Empty(t, qs)
}
