package service

import (
	"context"

	"curiolearn_backend/internal/model"
	"curiolearn_backend/internal/repository"
)

// HierarchyStore supplies the ordered (chapter, sub-content) pairs the
// builder flattens.
type HierarchyStore interface {
	HierarchyRows(ctx context.Context, courseID string) ([]repository.HierarchyRow, error)
}

// HierarchyService flattens a course tree into one display list ordered by
// serial number.
type HierarchyService struct {
	Content HierarchyStore
}

func NewHierarchyService(content HierarchyStore) *HierarchyService {
	return &HierarchyService{Content: content}
}

// CourseHierarchy returns every chapter and sub-content in reading order.
// Chapters repeat across rows (one per sub-content) and are emitted once.
// An unknown course yields an empty list.
func (s *HierarchyService) CourseHierarchy(ctx context.Context, courseID, currentID string) ([]model.HierarchyItem, error) {
	rows, err := s.Content.HierarchyRows(ctx, courseID)
	if err != nil {
		return nil, err
	}

	hierarchy := make([]model.HierarchyItem, 0, len(rows)*2)
	seen := make(map[string]bool, len(rows)*2)

	for _, row := range rows {
		if !seen[row.Chapter.ID] {
			seen[row.Chapter.ID] = true
			item := row.Chapter
			item.Current = item.ID == currentID
			hierarchy = append(hierarchy, item)
		}
		if row.SubContent != nil && !seen[row.SubContent.ID] {
			seen[row.SubContent.ID] = true
			item := *row.SubContent
			item.Current = item.ID == currentID
			hierarchy = append(hierarchy, item)
		}
	}

	return hierarchy, nil
}
