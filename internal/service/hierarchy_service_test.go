package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curiolearn_backend/internal/model"
)

func TestHierarchy_FlattensInSerialOrder(t *testing.T) {
	store := sequencedCourse()
	svc := NewHierarchyService(store)

	items, err := svc.CourseHierarchy(context.Background(), "course-1", "")
	require.NoError(t, err)

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	assert.Equal(t, []string{"ch-1", "sub-1-1", "sub-1-2", "ch-2", "sub-2-1"}, ids)
}

func TestHierarchy_ChaptersAppearOnce(t *testing.T) {
	store := sequencedCourse()
	svc := NewHierarchyService(store)

	items, err := svc.CourseHierarchy(context.Background(), "course-1", "")
	require.NoError(t, err)

	seen := map[string]int{}
	for _, item := range items {
		seen[item.ID]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "node %s emitted %d times", id, count)
	}
}

func TestHierarchy_FlagsCurrentNode(t *testing.T) {
	store := sequencedCourse()
	svc := NewHierarchyService(store)

	items, err := svc.CourseHierarchy(context.Background(), "course-1", "sub-1-2")
	require.NoError(t, err)

	for _, item := range items {
		assert.Equal(t, item.ID == "sub-1-2", item.Current, "node %s", item.ID)
	}
}

func TestHierarchy_ChapterWithoutSubContent(t *testing.T) {
	store := newFakeStore("course-1", []fakeNode{
		{id: "ch-1", typ: model.ContentTypeChapter, title: "Lone", serial: 1},
	})
	svc := NewHierarchyService(store)

	items, err := svc.CourseHierarchy(context.Background(), "course-1", "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ch-1", items[0].ID)
}

func TestHierarchy_UnknownCourseIsEmpty(t *testing.T) {
	store := sequencedCourse()
	svc := NewHierarchyService(store)

	items, err := svc.CourseHierarchy(context.Background(), "course-other", "")
	require.NoError(t, err)
	assert.Empty(t, items)
}
