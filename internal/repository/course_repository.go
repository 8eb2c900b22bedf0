package repository

import (
	"context"

	"curiolearn_backend/internal/model"
	"curiolearn_backend/pkg/database"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type CourseRepository struct {
	Client *database.Neo4jClient
}

func NewCourseRepository(client *database.Neo4jClient) *CourseRepository {
	return &CourseRepository{Client: client}
}

func (r *CourseRepository) FindByID(ctx context.Context, courseID string) (*model.Course, error) {
	records, err := r.Client.Read(ctx,
		`MATCH (c:Course {courseId: $courseId}) RETURN c LIMIT 1`,
		map[string]any{"courseId": courseID})
	if err != nil {
		return nil, storeErr(err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return courseFromRecord(records[0], "c"), nil
}

func (r *CourseRepository) ListAll(ctx context.Context) ([]model.Course, error) {
	records, err := r.Client.Read(ctx,
		`MATCH (c:Course) RETURN c ORDER BY c.createdAt DESC`, nil)
	if err != nil {
		return nil, storeErr(err)
	}

	courses := make([]model.Course, 0, len(records))
	for _, rec := range records {
		if c := courseFromRecord(rec, "c"); c != nil {
			courses = append(courses, *c)
		}
	}
	return courses, nil
}

// ImportCourse writes the whole generated tree in a single transaction so a
// half-imported course never becomes visible. Returns the minted course id.
func (r *CourseRepository) ImportCourse(ctx context.Context, topic string, gen *model.GeneratedCourse) (string, error) {
	courseID := uuid.NewString()

	run := func(tx neo4j.ManagedTransaction, cypher string, params map[string]any) error {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return err
		}
		_, err = res.Consume(ctx)
		return err
	}

	_, err := r.Client.WriteTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := run(tx,
			`CREATE (course:Course {
				courseId: $courseId,
				title: $title,
				topic: $topic,
				complexity: $complexity,
				createdAt: datetime()
			})`,
			map[string]any{
				"courseId":   courseID,
				"title":      gen.Title,
				"topic":      topic,
				"complexity": string(gen.Complexity),
			}); err != nil {
			return nil, err
		}

		for _, chapter := range gen.Chapters {
			chapterID := uuid.NewString()
			if err := run(tx,
				`MATCH (course:Course {courseId: $courseId})
				 CREATE (chapter:Chapter {
					chapterId: $chapterId,
					title: $title,
					content: $content,
					serialNumber: $serialNumber
				 })
				 CREATE (course)-[:HAS_CHAPTER]->(chapter)
				 CREATE (chapter)-[:BELONGS_TO]->(course)`,
				map[string]any{
					"courseId":     courseID,
					"chapterId":    chapterID,
					"title":        chapter.Title,
					"content":      chapter.Content,
					"serialNumber": chapter.SerialNumber,
				}); err != nil {
				return nil, err
			}

			if err := r.importQuestions(ctx, tx, "Chapter", "chapterId", chapterID, chapter.Questions); err != nil {
				return nil, err
			}

			for _, sub := range chapter.SubContent {
				subContentID := uuid.NewString()
				if err := run(tx,
					`MATCH (chapter:Chapter {chapterId: $chapterId})
					 CREATE (subContent:SubContent {
						subContentId: $subContentId,
						title: $title,
						content: $content,
						serialNumber: $serialNumber
					 })
					 CREATE (chapter)-[:HAS_SUBCONTENT]->(subContent)
					 CREATE (subContent)-[:BELONGS_TO]->(chapter)`,
					map[string]any{
						"chapterId":    chapterID,
						"subContentId": subContentID,
						"title":        sub.Title,
						"content":      sub.Content,
						"serialNumber": sub.SerialNumber,
					}); err != nil {
					return nil, err
				}

				if err := r.importQuestions(ctx, tx, "SubContent", "subContentId", subContentID, sub.Questions); err != nil {
					return nil, err
				}
			}
		}

		return nil, nil
	})
	if err != nil {
		return "", storeErr(err)
	}
	return courseID, nil
}

func (r *CourseRepository) importQuestions(ctx context.Context, tx neo4j.ManagedTransaction, label, idProperty, ownerID string, questions []model.GeneratedQuestion) error {
	for _, q := range questions {
		res, err := tx.Run(ctx,
			`MATCH (owner:`+label+` {`+idProperty+`: $ownerId})
			 CREATE (question:Question {questionId: $questionId, text: $questionText})
			 CREATE (answer:Answer {answerId: $answerId, text: $answerText})
			 CREATE (owner)-[:HAS_QUESTION]->(question)
			 CREATE (question)-[:HAS_ANSWER]->(answer)`,
			map[string]any{
				"ownerId":      ownerID,
				"questionId":   uuid.NewString(),
				"questionText": q.Question,
				"answerId":     uuid.NewString(),
				"answerText":   q.Answer,
			})
		if err != nil {
			return err
		}
		if _, err := res.Consume(ctx); err != nil {
			return err
		}
	}
	return nil
}

// MarkCreatedAndEnrolled records the creator relationship and enrolls them
// in one write.
func (r *CourseRepository) MarkCreatedAndEnrolled(ctx context.Context, userID, courseID string) error {
	_, err := r.Client.Write(ctx,
		`MATCH (u:User {userId: $userId})
		 MATCH (c:Course {courseId: $courseId})
		 MERGE (u)-[:CREATED]->(c)
		 MERGE (u)-[e:ENROLLED_IN]->(c)
		 ON CREATE SET e.at = datetime()`,
		map[string]any{"userId": userID, "courseId": courseID})
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func courseFromRecord(rec *neo4j.Record, key string) *model.Course {
	props, ok := nodeProps(rec, key)
	if !ok {
		return nil
	}
	c := &model.Course{
		CourseID:   propString(props, "courseId"),
		Title:      propString(props, "title"),
		Topic:      propString(props, "topic"),
		Complexity: model.Complexity(propString(props, "complexity")),
	}
	if t, ok := propTime(props, "createdAt"); ok {
		c.CreatedAt = t
	}
	return c
}
