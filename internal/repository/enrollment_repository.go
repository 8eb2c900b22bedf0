package repository

import (
	"context"
	"time"

	"curiolearn_backend/internal/model"
	"curiolearn_backend/pkg/database"
)

type EnrollmentRepository struct {
	Client *database.Neo4jClient
}

func NewEnrollmentRepository(client *database.Neo4jClient) *EnrollmentRepository {
	return &EnrollmentRepository{Client: client}
}

func (r *EnrollmentRepository) IsEnrolled(ctx context.Context, courseID, userID string) (bool, error) {
	records, err := r.Client.Read(ctx,
		`MATCH (u:User {userId: $userId})-[:ENROLLED_IN]->(c:Course {courseId: $courseId})
		 RETURN COUNT(u) > 0 AS enrolled`,
		map[string]any{"userId": userID, "courseId": courseID})
	if err != nil {
		return false, storeErr(err)
	}
	if len(records) == 0 {
		return false, nil
	}
	v, _ := records[0].Get("enrolled")
	return asBool(v), nil
}

// Enroll creates the ENROLLED_IN edge idempotently.
func (r *EnrollmentRepository) Enroll(ctx context.Context, courseID, userID string) error {
	_, err := r.Client.Write(ctx,
		`MATCH (u:User {userId: $userId}), (c:Course {courseId: $courseId})
		 MERGE (u)-[e:ENROLLED_IN]->(c)
		 ON CREATE SET e.at = datetime()`,
		map[string]any{"userId": userID, "courseId": courseID})
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// AvailableCourses lists courses the user is not enrolled in, newest first.
func (r *EnrollmentRepository) AvailableCourses(ctx context.Context, userID string) ([]model.Course, error) {
	records, err := r.Client.Read(ctx,
		`MATCH (c:Course)
		 WHERE NOT EXISTS {
			MATCH (:User {userId: $userId})-[:ENROLLED_IN]->(c)
		 }
		 RETURN c
		 ORDER BY c.createdAt DESC`,
		map[string]any{"userId": userID})
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

// EnrolledRow pairs a course with the enrollment's last interaction time,
// which may be absent for never-touched enrollments.
type EnrolledRow struct {
	Course         model.Course
	LastInteracted *time.Time
}

func (r *EnrollmentRepository) EnrolledCourses(ctx context.Context, userID string) ([]EnrolledRow, error) {
	records, err := r.Client.Read(ctx,
		`MATCH (u:User {userId: $userId})-[e:ENROLLED_IN]->(c:Course)
		 RETURN c, e.lastInteracted AS lastInteracted
		 ORDER BY e.lastInteracted DESC`,
		map[string]any{"userId": userID})
	if err != nil {
		return nil, storeErr(err)
	}

	rows := make([]EnrolledRow, 0, len(records))
	for _, rec := range records {
		c := courseFromRecord(rec, "c")
		if c == nil {
			continue
		}
		row := EnrolledRow{Course: *c}
		if v, ok := rec.Get("lastInteracted"); ok {
			if t, ok := asTime(v); ok {
				row.LastInteracted = &t
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
