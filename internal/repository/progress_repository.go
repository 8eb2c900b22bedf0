package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"curiolearn_backend/internal/model"
	"curiolearn_backend/internal/util"
	"curiolearn_backend/pkg/database"

	"github.com/go-redis/redis/v8"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// totalItemsTTL is generous because the content tree is immutable once
// authored.
const totalItemsTTL = 12 * time.Hour

type ProgressRepository struct {
	Client *database.Neo4jClient
	Redis  *redis.Client
}

func NewProgressRepository(client *database.Neo4jClient, rdb *redis.Client) *ProgressRepository {
	return &ProgressRepository{Client: client, Redis: rdb}
}

// TotalItems counts chapters plus all their sub-contents, cache-aside in
// redis.
func (r *ProgressRepository) TotalItems(ctx context.Context, courseID string) (int, error) {
	cacheKey := "course:" + courseID + ":total_items"

	if r.Redis != nil {
		if cached, err := r.Redis.Get(ctx, cacheKey).Result(); err == nil {
			if n, err := strconv.Atoi(cached); err == nil {
				return n, nil
			}
		}
	}

	records, err := r.Client.Read(ctx,
		`MATCH (c:Course {courseId: $courseId})-[:HAS_CHAPTER]->(chapter:Chapter)
		 OPTIONAL MATCH (chapter)-[:HAS_SUBCONTENT]->(subcontent:SubContent)
		 RETURN COUNT(DISTINCT chapter) + COUNT(DISTINCT subcontent) AS total`,
		map[string]any{"courseId": courseID})
	if err != nil {
		return 0, storeErr(err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	v, _ := records[0].Get("total")
	total := asInt(v)

	if r.Redis != nil {
		r.Redis.Set(ctx, cacheKey, strconv.Itoa(total), totalItemsTTL)
	}
	return total, nil
}

// FinishedCount counts distinct content nodes the user has finished under
// the course. Chapters sit one BELONGS_TO hop from the course, sub-contents
// two.
func (r *ProgressRepository) FinishedCount(ctx context.Context, courseID, userID string) (int, error) {
	records, err := r.Client.Read(ctx,
		`MATCH (u:User {userId: $userId})-[:FINISHED]->(content)
		 WHERE (content)-[:BELONGS_TO*1..2]->(:Course {courseId: $courseId})
		 RETURN COUNT(DISTINCT content) AS finishedCount`,
		map[string]any{"userId": userID, "courseId": courseID})
	if err != nil {
		return 0, storeErr(err)
	}
	if len(records) == 0 {
		return 0, nil
	}
	v, _ := records[0].Get("finishedCount")
	return asInt(v), nil
}

// MarkFinished applies the whole completion as one transaction: merge the
// FINISHED edge, cascade ANSWERED onto the node's own questions, touch the
// enrollment. MERGE makes a repeat call a no-op rather than a duplicate
// edge, and the cascade runs in a subquery so question-less nodes still
// commit.
func (r *ProgressRepository) MarkFinished(ctx context.Context, courseID, userID, contentID string, typ model.ContentType) (time.Time, error) {
	records, err := r.Client.Write(ctx,
		`MATCH (u:User {userId: $userId})
		 MATCH (content:`+typ.Label()+` {`+typ.IDProperty()+`: $contentId})
		 MERGE (u)-[f:FINISHED]->(content)
		 ON CREATE SET f.at = datetime()
		 WITH u, content
		 CALL {
			WITH u, content
			MATCH (content)-[:HAS_QUESTION]->(q:Question)
			MERGE (u)-[a:ANSWERED]->(q)
			ON CREATE SET a.at = datetime()
		 }
		 WITH DISTINCT u
		 MATCH (u)-[e:ENROLLED_IN]->(c:Course {courseId: $courseId})
		 SET e.lastInteracted = datetime()
		 RETURN e.lastInteracted AS lastInteracted`,
		map[string]any{"userId": userID, "contentId": contentID, "courseId": courseID})
	if err != nil {
		return time.Time{}, storeErr(err)
	}
	if len(records) == 0 {
		// Existence was validated up front, so an empty result means the
		// enrollment edge is gone.
		return time.Time{}, util.ErrNotEnrolled
	}

	v, _ := records[0].Get("lastInteracted")
	t, ok := asTime(v)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: enrollment timestamp missing after update", util.ErrInvariantViolation)
	}
	return t, nil
}

// ResetProgress deletes every FINISHED edge to the course's content and
// every ANSWERED edge to the course's questions in one transaction, making
// it symmetric with MarkFinished.
func (r *ProgressRepository) ResetProgress(ctx context.Context, courseID, userID string) error {
	_, err := r.Client.WriteTx(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			`MATCH (u:User {userId: $userId})-[f:FINISHED]->(content)
			 WHERE (content)-[:BELONGS_TO*1..2]->(:Course {courseId: $courseId})
			 DELETE f`,
			map[string]any{"userId": userID, "courseId": courseID})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}

		res, err = tx.Run(ctx,
			`MATCH (u:User {userId: $userId})-[a:ANSWERED]->(q:Question)
			 WHERE (q)<-[:HAS_QUESTION]-()-[:BELONGS_TO*1..2]->(:Course {courseId: $courseId})
			 DELETE a`,
			map[string]any{"userId": userID, "courseId": courseID})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return storeErr(err)
	}
	return nil
}
