package repository

import (
	"context"

	"curiolearn_backend/internal/model"
	"curiolearn_backend/pkg/database"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type ContentRepository struct {
	Client *database.Neo4jClient
}

func NewContentRepository(client *database.Neo4jClient) *ContentRepository {
	return &ContentRepository{Client: client}
}

// FirstChapter returns the lowest-serial chapter, or nil when the course has
// none.
func (r *ContentRepository) FirstChapter(ctx context.Context, courseID string) (*model.ContentNode, error) {
	records, err := r.Client.Read(ctx,
		`MATCH (c:Course {courseId: $courseId})-[:HAS_CHAPTER]->(chapter:Chapter)
		 RETURN chapter
		 ORDER BY chapter.serialNumber
		 LIMIT 1`,
		map[string]any{"courseId": courseID})
	if err != nil {
		return nil, storeErr(err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	props, ok := nodeProps(records[0], "chapter")
	if !ok {
		return nil, nil
	}
	return &model.ContentNode{
		ID:           propString(props, "chapterId"),
		Type:         model.ContentTypeChapter,
		Title:        propString(props, "title"),
		Text:         propString(props, "content"),
		SerialNumber: propFloat(props, "serialNumber"),
	}, nil
}

// NextUnfinished selects the lowest-serial content node, chapter or
// sub-content in one numeric order, the user has not finished. Nil when
// everything is done.
func (r *ContentRepository) NextUnfinished(ctx context.Context, courseID, userID string) (*model.ContentNode, error) {
	records, err := r.Client.Read(ctx,
		`MATCH (u:User {userId: $userId})
		 MATCH (c:Course {courseId: $courseId})-[:HAS_CHAPTER]->(chapter:Chapter)
		 OPTIONAL MATCH (chapter)-[:HAS_SUBCONTENT]->(subcontent:SubContent)
		 WITH u, COLLECT(DISTINCT chapter) + COLLECT(DISTINCT subcontent) AS allContents
		 UNWIND allContents AS content
		 WITH u, content
		 WHERE content IS NOT NULL
		   AND NOT (u)-[:FINISHED]->(content)
		 WITH content
		 ORDER BY content.serialNumber
		 LIMIT 1
		 RETURN content, labels(content) AS contentLabels`,
		map[string]any{"courseId": courseID, "userId": userID})
	if err != nil {
		return nil, storeErr(err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return contentNodeFromRecord(records[0], "content", "contentLabels"), nil
}

// HierarchyRow is one (chapter, optional sub-content) pair in serial order.
type HierarchyRow struct {
	Chapter    model.HierarchyItem
	SubContent *model.HierarchyItem
}

func (r *ContentRepository) HierarchyRows(ctx context.Context, courseID string) ([]HierarchyRow, error) {
	records, err := r.Client.Read(ctx,
		`MATCH (c:Course {courseId: $courseId})-[:HAS_CHAPTER]->(chapter:Chapter)
		 OPTIONAL MATCH (chapter)-[:HAS_SUBCONTENT]->(subcontent:SubContent)
		 RETURN chapter, subcontent
		 ORDER BY chapter.serialNumber, subcontent.serialNumber`,
		map[string]any{"courseId": courseID})
	if err != nil {
		return nil, storeErr(err)
	}

	rows := make([]HierarchyRow, 0, len(records))
	for _, rec := range records {
		chProps, ok := nodeProps(rec, "chapter")
		if !ok {
			continue
		}
		row := HierarchyRow{
			Chapter: model.HierarchyItem{
				ID:           propString(chProps, "chapterId"),
				Type:         model.ContentTypeChapter,
				Title:        propString(chProps, "title"),
				SerialNumber: propFloat(chProps, "serialNumber"),
			},
		}
		if scProps, ok := nodeProps(rec, "subcontent"); ok {
			row.SubContent = &model.HierarchyItem{
				ID:           propString(scProps, "subContentId"),
				Type:         model.ContentTypeSubContent,
				Title:        propString(scProps, "title"),
				SerialNumber: propFloat(scProps, "serialNumber"),
				ParentID:     row.Chapter.ID,
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Exists verifies the node lives under the course with the declared type.
func (r *ContentRepository) Exists(ctx context.Context, courseID, contentID string, typ model.ContentType) (bool, error) {
	records, err := r.Client.Read(ctx,
		`MATCH (c:Course {courseId: $courseId})-[:HAS_CHAPTER]->()-[:HAS_SUBCONTENT*0..1]->(content:`+typ.Label()+` {`+typ.IDProperty()+`: $contentId})
		 RETURN COUNT(content) > 0 AS exists`,
		map[string]any{"courseId": courseID, "contentId": contentID})
	if err != nil {
		return false, storeErr(err)
	}
	if len(records) == 0 {
		return false, nil
	}
	v, _ := records[0].Get("exists")
	return asBool(v), nil
}

// Position reports a content node's serial number and whether it is a
// chapter; found is false when the node is not under the course.
func (r *ContentRepository) Position(ctx context.Context, courseID, contentID string) (serial float64, isChapter bool, found bool, err error) {
	records, err := r.Client.Read(ctx,
		`MATCH (content)
		 WHERE (content:Chapter AND content.chapterId = $contentId)
			OR (content:SubContent AND content.subContentId = $contentId)
		 MATCH (content)-[:BELONGS_TO*1..2]->(:Course {courseId: $courseId})
		 RETURN content.serialNumber AS serialNumber, labels(content) AS contentLabels`,
		map[string]any{"courseId": courseID, "contentId": contentID})
	if err != nil {
		return 0, false, false, storeErr(err)
	}
	if len(records) == 0 {
		return 0, false, false, nil
	}

	rec := records[0]
	if v, ok := rec.Get("serialNumber"); ok {
		switch n := v.(type) {
		case float64:
			serial = n
		case int64:
			serial = float64(n)
		}
	}
	labels, _ := rec.Get("contentLabels")
	return serial, containsLabel(labels, "Chapter"), true, nil
}

func contentNodeFromRecord(rec *neo4j.Record, nodeKey, labelsKey string) *model.ContentNode {
	props, ok := nodeProps(rec, nodeKey)
	if !ok {
		return nil
	}

	labels, _ := rec.Get(labelsKey)
	node := &model.ContentNode{
		Title:        propString(props, "title"),
		Text:         propString(props, "content"),
		SerialNumber: propFloat(props, "serialNumber"),
	}
	if containsLabel(labels, "Chapter") {
		node.Type = model.ContentTypeChapter
		node.ID = propString(props, "chapterId")
	} else {
		node.Type = model.ContentTypeSubContent
		node.ID = propString(props, "subContentId")
	}
	return node
}
