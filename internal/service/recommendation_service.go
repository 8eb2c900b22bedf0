package service

import (
	"context"

	"curiolearn_backend/internal/model"
)

const (
	collectTarget      = 6
	maxRecommendations = 5
)

// RecommendationStore is the question surface the three-tier engine draws
// from. Each tier only yields questions the user has not answered.
type RecommendationStore interface {
	DescendantQuestions(ctx context.Context, userID, contentID string, limit int) ([]model.RecommendedQuestion, error)
	LocalQuestions(ctx context.Context, userID, contentID string, limit int) ([]model.RecommendedQuestion, error)
	ForwardQuestions(ctx context.Context, userID, courseID string, serial float64, isChapter bool, limit int) ([]model.RecommendedQuestion, error)
	OwnQuestionIDs(ctx context.Context, contentID string) ([]string, error)
}

// ContentPositioner resolves a content node's serial number inside its
// course, which anchors the forward tier.
type ContentPositioner interface {
	Position(ctx context.Context, courseID, contentID string) (serial float64, isChapter bool, found bool, err error)
}

// RecommendationService picks up to five unanswered questions around a
// displayed content node, widening scope tier by tier until enough are
// collected.
type RecommendationService struct {
	Questions RecommendationStore
	Content   ContentPositioner
}

func NewRecommendationService(questions RecommendationStore, content ContentPositioner) *RecommendationService {
	return &RecommendationService{Questions: questions, Content: content}
}

// RecommendedQuestions runs the tiers in order: questions under the node's
// descendants, then questions on nearby nodes, then questions anywhere
// later in the course. Later tiers only fill the remaining quota, results
// are deduplicated across tiers, and the displayed node's own questions
// never appear.
func (s *RecommendationService) RecommendedQuestions(ctx context.Context, courseID, userID, contentID string) ([]model.RecommendedQuestion, error) {
	seen := make(map[string]bool, collectTarget)
	collected := make([]model.RecommendedQuestion, 0, collectTarget)
	add := func(questions []model.RecommendedQuestion) {
		for _, q := range questions {
			if seen[q.ID] {
				continue
			}
			seen[q.ID] = true
			collected = append(collected, q)
		}
	}

	descendant, err := s.Questions.DescendantQuestions(ctx, userID, contentID, collectTarget)
	if err != nil {
		return nil, err
	}
	add(descendant)

	if len(collected) < collectTarget {
		local, err := s.Questions.LocalQuestions(ctx, userID, contentID, collectTarget-len(collected))
		if err != nil {
			return nil, err
		}
		add(local)
	}

	if len(collected) < collectTarget {
		serial, isChapter, found, err := s.Content.Position(ctx, courseID, contentID)
		if err != nil {
			return nil, err
		}
		if found {
			forward, err := s.Questions.ForwardQuestions(ctx, userID, courseID, serial, isChapter, collectTarget-len(collected))
			if err != nil {
				return nil, err
			}
			add(forward)
		}
	}

	own, err := s.Questions.OwnQuestionIDs(ctx, contentID)
	if err != nil {
		return nil, err
	}
	exclude := make(map[string]bool, len(own))
	for _, id := range own {
		exclude[id] = true
	}

	recommendations := make([]model.RecommendedQuestion, 0, maxRecommendations)
	for _, q := range collected {
		if exclude[q.ID] {
			continue
		}
		recommendations = append(recommendations, q)
		if len(recommendations) == maxRecommendations {
			break
		}
	}
	return recommendations, nil
}
