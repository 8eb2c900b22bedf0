package repository

import (
	"context"

	"curiolearn_backend/internal/model"
	"curiolearn_backend/pkg/database"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type UserRepository struct {
	Client *database.Neo4jClient
}

func NewUserRepository(client *database.Neo4jClient) *UserRepository {
	return &UserRepository{Client: client}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	_, err := r.Client.Write(ctx,
		`CREATE (u:User {
			userId: $userId,
			name: $name,
			email: $email,
			password: $password,
			createdAt: datetime()
		})`,
		map[string]any{
			"userId":   user.UserID,
			"name":     user.Name,
			"email":    user.Email,
			"password": user.Password,
		})
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// FindByEmail returns (nil, nil) when no user carries the email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	records, err := r.Client.Read(ctx,
		`MATCH (u:User {email: $email}) RETURN u LIMIT 1`,
		map[string]any{"email": email})
	if err != nil {
		return nil, storeErr(err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return userFromRecord(records[0]), nil
}

func (r *UserRepository) FindByID(ctx context.Context, userID string) (*model.User, error) {
	records, err := r.Client.Read(ctx,
		`MATCH (u:User {userId: $userId}) RETURN u LIMIT 1`,
		map[string]any{"userId": userID})
	if err != nil {
		return nil, storeErr(err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return userFromRecord(records[0]), nil
}

func userFromRecord(rec *neo4j.Record) *model.User {
	props, ok := nodeProps(rec, "u")
	if !ok {
		return nil
	}
	u := &model.User{
		UserID:   propString(props, "userId"),
		Name:     propString(props, "name"),
		Email:    propString(props, "email"),
		Password: propString(props, "password"),
	}
	if t, ok := propTime(props, "createdAt"); ok {
		u.CreatedAt = t
	}
	return u
}
