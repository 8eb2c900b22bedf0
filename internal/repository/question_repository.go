package repository

import (
	"context"

	"curiolearn_backend/internal/model"
	"curiolearn_backend/pkg/database"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type QuestionRepository struct {
	Client *database.Neo4jClient
}

func NewQuestionRepository(client *database.Neo4jClient) *QuestionRepository {
	return &QuestionRepository{Client: client}
}

// QuestionDetail is a question, its answer, and the content node that owns
// it.
type QuestionDetail struct {
	Question model.Question
	Answer   model.Answer
	Parent   model.ContentNode
}

// FindWithAnswer resolves a question under the course; nil when absent.
func (r *QuestionRepository) FindWithAnswer(ctx context.Context, courseID, questionID string) (*QuestionDetail, error) {
	records, err := r.Client.Read(ctx,
		`MATCH (q:Question {questionId: $questionId})-[:HAS_ANSWER]->(a:Answer)
		 MATCH (parent)-[:HAS_QUESTION]->(q)
		 MATCH (parent)-[:BELONGS_TO*1..2]->(:Course {courseId: $courseId})
		 RETURN q, a, parent, labels(parent) AS parentLabels`,
		map[string]any{"courseId": courseID, "questionId": questionID})
	if err != nil {
		return nil, storeErr(err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	rec := records[0]
	qProps, ok := nodeProps(rec, "q")
	if !ok {
		return nil, nil
	}
	aProps, _ := nodeProps(rec, "a")
	parent := contentNodeFromRecord(rec, "parent", "parentLabels")
	if parent == nil {
		return nil, nil
	}

	return &QuestionDetail{
		Question: model.Question{
			QuestionID: propString(qProps, "questionId"),
			Text:       propString(qProps, "text"),
		},
		Answer: model.Answer{
			AnswerID: propString(aProps, "answerId"),
			Text:     propString(aProps, "text"),
		},
		Parent: *parent,
	}, nil
}

// MarkAnswered creates the ANSWERED edge if absent.
func (r *QuestionRepository) MarkAnswered(ctx context.Context, userID, questionID string) error {
	_, err := r.Client.Write(ctx,
		`MATCH (u:User {userId: $userId})
		 MATCH (q:Question {questionId: $questionId})
		 MERGE (u)-[a:ANSWERED]->(q)
		 ON CREATE SET a.at = datetime()`,
		map[string]any{"userId": userID, "questionId": questionID})
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// DescendantQuestions is the first recommendation tier: unanswered questions
// on the sub-contents directly under a chapter, ordered by sub-content
// serial then question text. Zero rows when the node is a sub-content.
func (r *QuestionRepository) DescendantQuestions(ctx context.Context, userID, contentID string, limit int) ([]model.RecommendedQuestion, error) {
	records, err := r.Client.Read(ctx,
		`MATCH (u:User {userId: $userId})
		 MATCH (content:Chapter {chapterId: $contentId})-[:HAS_SUBCONTENT]->(subcontent:SubContent)-[:HAS_QUESTION]->(q:Question)
		 WHERE NOT (u)-[:ANSWERED]->(q)
		 RETURN q.questionId AS id, q.text AS text
		 ORDER BY subcontent.serialNumber, q.text
		 LIMIT $limit`,
		map[string]any{"userId": userID, "contentId": contentID, "limit": limit})
	if err != nil {
		return nil, storeErr(err)
	}
	return questionsFromRecords(records), nil
}

// LocalQuestions is the second tier: unanswered questions attached to the
// node itself, ordered by text.
func (r *QuestionRepository) LocalQuestions(ctx context.Context, userID, contentID string, limit int) ([]model.RecommendedQuestion, error) {
	records, err := r.Client.Read(ctx,
		`MATCH (u:User {userId: $userId})
		 MATCH (content)
		 WHERE (content:Chapter AND content.chapterId = $contentId)
			OR (content:SubContent AND content.subContentId = $contentId)
		 MATCH (content)-[:HAS_QUESTION]->(q:Question)
		 WHERE NOT (u)-[:ANSWERED]->(q)
		 RETURN q.questionId AS id, q.text AS text
		 ORDER BY q.text
		 LIMIT $limit`,
		map[string]any{"userId": userID, "contentId": contentID, "limit": limit})
	if err != nil {
		return nil, storeErr(err)
	}
	return questionsFromRecords(records), nil
}

// ForwardQuestions is the third tier: unanswered questions on nodes later in
// serial order. At equal serial only chapters qualify, and only when the
// starting node is itself a chapter, so the current sub-tree is not
// re-recommended.
func (r *QuestionRepository) ForwardQuestions(ctx context.Context, userID, courseID string, serial float64, isChapter bool, limit int) ([]model.RecommendedQuestion, error) {
	records, err := r.Client.Read(ctx,
		`MATCH (u:User {userId: $userId})
		 MATCH (c:Course {courseId: $courseId})-[:HAS_CHAPTER]->(chapter:Chapter)-[:HAS_SUBCONTENT*0..1]->(content)-[:HAS_QUESTION]->(q:Question)
		 WHERE NOT (u)-[:ANSWERED]->(q)
		   AND (content.serialNumber > $serialNumber
				OR (content.serialNumber = $serialNumber AND content:Chapter AND $isChapter))
		 RETURN q.questionId AS id, q.text AS text, content.serialNumber AS contentSerial
		 ORDER BY contentSerial, q.text
		 LIMIT $limit`,
		map[string]any{
			"userId":       userID,
			"courseId":     courseID,
			"serialNumber": serial,
			"isChapter":    isChapter,
			"limit":        limit,
		})
	if err != nil {
		return nil, storeErr(err)
	}
	return questionsFromRecords(records), nil
}

// OwnQuestionIDs lists every question directly attached to a node,
// answered or not.
func (r *QuestionRepository) OwnQuestionIDs(ctx context.Context, contentID string) ([]string, error) {
	records, err := r.Client.Read(ctx,
		`MATCH (content)
		 WHERE (content:Chapter AND content.chapterId = $contentId)
			OR (content:SubContent AND content.subContentId = $contentId)
		 MATCH (content)-[:HAS_QUESTION]->(q:Question)
		 RETURN q.questionId AS id`,
		map[string]any{"contentId": contentID})
	if err != nil {
		return nil, storeErr(err)
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if v, ok := rec.Get("id"); ok {
			if s, ok := v.(string); ok {
				ids = append(ids, s)
			}
		}
	}
	return ids, nil
}

func questionsFromRecords(records []*neo4j.Record) []model.RecommendedQuestion {
	out := make([]model.RecommendedQuestion, 0, len(records))
	for _, rec := range records {
		idV, _ := rec.Get("id")
		textV, _ := rec.Get("text")
		id, _ := idV.(string)
		text, _ := textV.(string)
		if id == "" {
			continue
		}
		out = append(out, model.RecommendedQuestion{ID: id, Text: text})
	}
	return out
}
