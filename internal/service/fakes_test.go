package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"curiolearn_backend/internal/model"
	"curiolearn_backend/internal/repository"
	"curiolearn_backend/internal/util"
)

// fakeQuestion is one question with its answer on a fake node.
type fakeQuestion struct {
	id     string
	text   string
	answer string
}

// fakeNode is a chapter or sub-content in the in-memory course.
type fakeNode struct {
	id        string
	typ       model.ContentType
	title     string
	text      string
	serial    float64
	parentID  string
	questions []fakeQuestion
}

// fakeStore is an in-memory single-course graph implementing every store
// interface the services consume.
type fakeStore struct {
	courseID   string
	course     model.Course
	nodes      []fakeNode
	enrolled   map[string]bool
	finished   map[string]map[string]bool
	answered   map[string]map[string]bool
	interacted map[string]time.Time
	now        time.Time
}

func newFakeStore(courseID string, nodes []fakeNode) *fakeStore {
	sorted := make([]fakeNode, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].serial < sorted[j].serial })
	return &fakeStore{
		courseID: courseID,
		course: model.Course{
			CourseID:   courseID,
			Title:      "Test Course",
			Topic:      "testing",
			Complexity: model.SurfaceLevel,
			CreatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		nodes:      sorted,
		enrolled:   map[string]bool{},
		finished:   map[string]map[string]bool{},
		answered:   map[string]map[string]bool{},
		interacted: map[string]time.Time{},
		now:        time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) node(id string) *fakeNode {
	for i := range f.nodes {
		if f.nodes[i].id == id {
			return &f.nodes[i]
		}
	}
	return nil
}

func (f *fakeStore) hasAnswered(userID, questionID string) bool {
	return f.answered[userID][questionID]
}

func (f *fakeStore) hasFinished(userID, nodeID string) bool {
	return f.finished[userID][nodeID]
}

func asContentNode(n *fakeNode) *model.ContentNode {
	return &model.ContentNode{
		ID:           n.id,
		Type:         n.typ,
		Title:        n.title,
		Text:         n.text,
		SerialNumber: n.serial,
	}
}

// EnrollmentChecker / EnrollmentStore

func (f *fakeStore) IsEnrolled(_ context.Context, courseID, userID string) (bool, error) {
	return courseID == f.courseID && f.enrolled[userID], nil
}

func (f *fakeStore) Enroll(_ context.Context, courseID, userID string) error {
	if courseID != f.courseID {
		return fmt.Errorf("%w: %q", util.ErrCourseNotFound, courseID)
	}
	f.enrolled[userID] = true
	return nil
}

func (f *fakeStore) AvailableCourses(_ context.Context, userID string) ([]model.Course, error) {
	if f.enrolled[userID] {
		return nil, nil
	}
	return []model.Course{f.course}, nil
}

func (f *fakeStore) EnrolledCourses(_ context.Context, userID string) ([]repository.EnrolledRow, error) {
	if !f.enrolled[userID] {
		return nil, nil
	}
	row := repository.EnrolledRow{Course: f.course}
	if at, ok := f.interacted[userID]; ok {
		row.LastInteracted = &at
	}
	return []repository.EnrolledRow{row}, nil
}

// CourseFinder

func (f *fakeStore) FindByID(_ context.Context, courseID string) (*model.Course, error) {
	if courseID != f.courseID {
		return nil, nil
	}
	course := f.course
	return &course, nil
}

// ContentStore

func (f *fakeStore) FirstChapter(_ context.Context, courseID string) (*model.ContentNode, error) {
	if courseID != f.courseID {
		return nil, nil
	}
	for i := range f.nodes {
		if f.nodes[i].typ == model.ContentTypeChapter {
			return asContentNode(&f.nodes[i]), nil
		}
	}
	return nil, nil
}

func (f *fakeStore) NextUnfinished(_ context.Context, courseID, userID string) (*model.ContentNode, error) {
	if courseID != f.courseID {
		return nil, nil
	}
	for i := range f.nodes {
		if !f.hasFinished(userID, f.nodes[i].id) {
			return asContentNode(&f.nodes[i]), nil
		}
	}
	return nil, nil
}

// HierarchyStore

func (f *fakeStore) HierarchyRows(_ context.Context, courseID string) ([]repository.HierarchyRow, error) {
	if courseID != f.courseID {
		return nil, nil
	}
	var rows []repository.HierarchyRow
	for _, ch := range f.nodes {
		if ch.typ != model.ContentTypeChapter {
			continue
		}
		chItem := model.HierarchyItem{
			ID:           ch.id,
			Type:         model.ContentTypeChapter,
			Title:        ch.title,
			SerialNumber: ch.serial,
		}
		emitted := false
		for _, sub := range f.nodes {
			if sub.typ != model.ContentTypeSubContent || sub.parentID != ch.id {
				continue
			}
			subItem := model.HierarchyItem{
				ID:           sub.id,
				Type:         model.ContentTypeSubContent,
				Title:        sub.title,
				SerialNumber: sub.serial,
				ParentID:     ch.id,
			}
			rows = append(rows, repository.HierarchyRow{Chapter: chItem, SubContent: &subItem})
			emitted = true
		}
		if !emitted {
			rows = append(rows, repository.HierarchyRow{Chapter: chItem})
		}
	}
	return rows, nil
}

// ContentChecker / ContentPositioner

func (f *fakeStore) Exists(_ context.Context, courseID, contentID string, typ model.ContentType) (bool, error) {
	if courseID != f.courseID {
		return false, nil
	}
	n := f.node(contentID)
	return n != nil && n.typ == typ, nil
}

func (f *fakeStore) Position(_ context.Context, courseID, contentID string) (float64, bool, bool, error) {
	if courseID != f.courseID {
		return 0, false, false, nil
	}
	n := f.node(contentID)
	if n == nil {
		return 0, false, false, nil
	}
	return n.serial, n.typ == model.ContentTypeChapter, true, nil
}

// QuestionFinder / RecommendationStore

func (f *fakeStore) FindWithAnswer(_ context.Context, courseID, questionID string) (*repository.QuestionDetail, error) {
	if courseID != f.courseID {
		return nil, nil
	}
	for i := range f.nodes {
		for _, q := range f.nodes[i].questions {
			if q.id == questionID {
				return &repository.QuestionDetail{
					Question: model.Question{QuestionID: q.id, Text: q.text},
					Answer:   model.Answer{AnswerID: "a-" + q.id, Text: q.answer},
					Parent:   *asContentNode(&f.nodes[i]),
				}, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeStore) MarkAnswered(_ context.Context, userID, questionID string) error {
	if f.answered[userID] == nil {
		f.answered[userID] = map[string]bool{}
	}
	f.answered[userID][questionID] = true
	return nil
}

func (f *fakeStore) unansweredOn(userID string, n *fakeNode, limit int, out []model.RecommendedQuestion) []model.RecommendedQuestion {
	for _, q := range n.questions {
		if len(out) >= limit {
			return out
		}
		if f.hasAnswered(userID, q.id) {
			continue
		}
		out = append(out, model.RecommendedQuestion{ID: q.id, Text: q.text})
	}
	return out
}

func (f *fakeStore) DescendantQuestions(_ context.Context, userID, contentID string, limit int) ([]model.RecommendedQuestion, error) {
	var out []model.RecommendedQuestion
	for i := range f.nodes {
		if f.nodes[i].parentID == contentID {
			out = f.unansweredOn(userID, &f.nodes[i], limit, out)
		}
	}
	return out, nil
}

func (f *fakeStore) LocalQuestions(_ context.Context, userID, contentID string, limit int) ([]model.RecommendedQuestion, error) {
	n := f.node(contentID)
	if n == nil {
		return nil, nil
	}
	return f.unansweredOn(userID, n, limit, nil), nil
}

func (f *fakeStore) ForwardQuestions(_ context.Context, userID, courseID string, serial float64, isChapter bool, limit int) ([]model.RecommendedQuestion, error) {
	if courseID != f.courseID {
		return nil, nil
	}
	var out []model.RecommendedQuestion
	for i := range f.nodes {
		n := &f.nodes[i]
		after := n.serial > serial ||
			(n.serial == serial && n.typ == model.ContentTypeChapter && isChapter)
		if !after {
			continue
		}
		out = f.unansweredOn(userID, n, limit, out)
	}
	return out, nil
}

func (f *fakeStore) OwnQuestionIDs(_ context.Context, contentID string) ([]string, error) {
	n := f.node(contentID)
	if n == nil {
		return nil, nil
	}
	ids := make([]string, 0, len(n.questions))
	for _, q := range n.questions {
		ids = append(ids, q.id)
	}
	return ids, nil
}

// ProgressStore

func (f *fakeStore) TotalItems(_ context.Context, courseID string) (int, error) {
	if courseID != f.courseID {
		return 0, nil
	}
	return len(f.nodes), nil
}

func (f *fakeStore) FinishedCount(_ context.Context, courseID, userID string) (int, error) {
	if courseID != f.courseID {
		return 0, nil
	}
	count := 0
	for _, n := range f.nodes {
		if f.hasFinished(userID, n.id) {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) MarkFinished(_ context.Context, courseID, userID, contentID string, _ model.ContentType) (time.Time, error) {
	if courseID != f.courseID || !f.enrolled[userID] {
		return time.Time{}, fmt.Errorf("%w: course %q", util.ErrNotEnrolled, courseID)
	}
	if f.finished[userID] == nil {
		f.finished[userID] = map[string]bool{}
	}
	f.finished[userID][contentID] = true
	if n := f.node(contentID); n != nil {
		for _, q := range n.questions {
			_ = f.MarkAnswered(context.Background(), userID, q.id)
		}
	}
	f.interacted[userID] = f.now
	return f.now, nil
}

func (f *fakeStore) ResetProgress(_ context.Context, courseID, userID string) error {
	if courseID != f.courseID {
		return nil
	}
	delete(f.finished, userID)
	delete(f.answered, userID)
	return nil
}

// sequencedCourse is the shared fixture: two chapters, three sub-contents,
// questions spread across the tree.
func sequencedCourse() *fakeStore {
	return newFakeStore("course-1", []fakeNode{
		{
			id: "ch-1", typ: model.ContentTypeChapter, title: "Basics", text: "chapter one", serial: 1,
			questions: []fakeQuestion{{id: "q-ch1", text: "What are the basics?", answer: "These."}},
		},
		{
			id: "sub-1-1", typ: model.ContentTypeSubContent, title: "First steps", text: "sub one one", serial: 1.1, parentID: "ch-1",
			questions: []fakeQuestion{
				{id: "q-s11a", text: "First question?", answer: "A."},
				{id: "q-s11b", text: "Second question?", answer: "B."},
			},
		},
		{
			id: "sub-1-2", typ: model.ContentTypeSubContent, title: "Next steps", text: "sub one two", serial: 1.2, parentID: "ch-1",
			questions: []fakeQuestion{{id: "q-s12", text: "Third question?", answer: "C."}},
		},
		{
			id: "ch-2", typ: model.ContentTypeChapter, title: "Advanced", text: "chapter two", serial: 2,
			questions: []fakeQuestion{{id: "q-ch2", text: "What is advanced?", answer: "This."}},
		},
		{
			id: "sub-2-1", typ: model.ContentTypeSubContent, title: "Deep dive", text: "sub two one", serial: 2.1, parentID: "ch-2",
			questions: []fakeQuestion{{id: "q-s21", text: "Fourth question?", answer: "D."}},
		},
	})
}

func newTestServices(store *fakeStore) (*LearningService, *ProgressService) {
	hierarchy := NewHierarchyService(store)
	recommend := NewRecommendationService(store, store)
	progress := NewProgressService(store, store, store)
	learning := NewLearningService(store, store, store, progress, hierarchy, recommend)
	return learning, progress
}
