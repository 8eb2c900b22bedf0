package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"google.golang.org/genai"

	"curiolearn_backend/internal/config"
	"curiolearn_backend/internal/model"
	"curiolearn_backend/pkg/logger"

	"go.uber.org/zap"
)

// CourseGenerator produces course trees and vets topics. Implemented by
// the Gemini-backed generator; tests substitute a canned one.
type CourseGenerator interface {
	ValidateTopic(ctx context.Context, topic string) (*model.TopicValidation, error)
	Generate(ctx context.Context, topic string, complexity model.Complexity) (*model.GeneratedCourse, error)
}

// GeminiCourseGenerator asks Gemini for a full course as JSON and retries
// when the reply does not parse into a usable tree.
type GeminiCourseGenerator struct {
	client *genai.Client

	mu          sync.RWMutex
	model       string
	maxAttempts int
}

func NewGeminiCourseGenerator(ctx context.Context, cfg config.AIConfig) (*GeminiCourseGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &GeminiCourseGenerator{
		client:      client,
		model:       cfg.Model,
		maxAttempts: cfg.MaxAttempts,
	}, nil
}

// UpdateConfig applies hot-reloaded model settings. The API key is fixed
// for the client's lifetime.
func (g *GeminiCourseGenerator) UpdateConfig(cfg config.AIConfig) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if cfg.Model != "" {
		g.model = cfg.Model
	}
	if cfg.MaxAttempts > 0 {
		g.maxAttempts = cfg.MaxAttempts
	}
}

func (g *GeminiCourseGenerator) settings() (string, int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.model, g.maxAttempts
}

func (g *GeminiCourseGenerator) ValidateTopic(ctx context.Context, topic string) (*model.TopicValidation, error) {
	prompt := fmt.Sprintf(`Evaluate whether %q is a topic that a structured self-study course can teach.
Reject topics that are gibberish, a single fact, or harmful.
Reply with JSON only: {"canBeCourse": boolean, "reason": string}`, topic)

	var verdict model.TopicValidation
	if err := g.generateJSON(ctx, prompt, &verdict, func() error { return nil }); err != nil {
		return nil, err
	}
	return &verdict, nil
}

func (g *GeminiCourseGenerator) Generate(ctx context.Context, topic string, complexity model.Complexity) (*model.GeneratedCourse, error) {
	prompt := coursePrompt(topic, complexity)

	var course model.GeneratedCourse
	err := g.generateJSON(ctx, prompt, &course, func() error {
		return validateGeneratedCourse(&course)
	})
	if err != nil {
		return nil, err
	}
	course.Complexity = complexity
	normalizeSerialNumbers(&course)
	return &course, nil
}

// generateJSON calls the model, extracts a JSON payload from the reply and
// unmarshals it into out. Parse and validation failures are retried up to
// the configured attempt count; transport errors are not.
func (g *GeminiCourseGenerator) generateJSON(ctx context.Context, prompt string, out any, validate func() error) error {
	modelID, maxAttempts := g.settings()
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := g.client.Models.GenerateContent(ctx, modelID, contents, cfg)
		if err != nil {
			return fmt.Errorf("gemini request: %w", err)
		}
		payload := extractJSON(result.Text())
		if payload == "" {
			lastErr = fmt.Errorf("no JSON object in model reply")
		} else if err := json.Unmarshal([]byte(payload), out); err != nil {
			lastErr = fmt.Errorf("decode model reply: %w", err)
		} else if err := validate(); err != nil {
			lastErr = err
		} else {
			return nil
		}
		logger.Log.Warn("model reply rejected, retrying",
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", maxAttempts),
			zap.Error(lastErr))
	}
	return fmt.Errorf("generation failed after %d attempts: %w", maxAttempts, lastErr)
}

func coursePrompt(topic string, complexity model.Complexity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a complete self-study course about %q at the %q level.\n", topic, complexity)
	b.WriteString(`Return JSON only, matching exactly this structure:
{
  "Course": "course title",
  "chapters": [
    {
      "title": "chapter title",
      "content": "chapter teaching text, at least two paragraphs",
      "serialNumber": 1,
      "questions": [{"question": "...", "answer": "..."}],
      "sub_content": [
        {
          "title": "sub-topic title",
          "content": "sub-topic teaching text",
          "serialNumber": 1.1,
          "questions": [{"question": "...", "answer": "..."}]
        }
      ]
    }
  ]
}
Rules:
- 4 to 8 chapters, each with 2 to 4 sub-topics.
- Chapter serialNumber is its 1-based position N; a sub-topic under chapter N uses N.1, N.2 and so on.
- Every chapter and sub-topic carries 1 to 3 questions with concise answers.
- No markdown, no commentary, JSON only.`)
	return b.String()
}

func validateGeneratedCourse(course *model.GeneratedCourse) error {
	if strings.TrimSpace(course.Title) == "" {
		return fmt.Errorf("generated course has no title")
	}
	if len(course.Chapters) == 0 {
		return fmt.Errorf("generated course has no chapters")
	}
	for i, ch := range course.Chapters {
		if strings.TrimSpace(ch.Title) == "" || strings.TrimSpace(ch.Content) == "" {
			return fmt.Errorf("chapter %d is missing title or content", i+1)
		}
		for j, sub := range ch.SubContent {
			if strings.TrimSpace(sub.Title) == "" || strings.TrimSpace(sub.Content) == "" {
				return fmt.Errorf("sub-topic %d of chapter %d is missing title or content", j+1, i+1)
			}
		}
	}
	return nil
}

// normalizeSerialNumbers overwrites whatever the model produced with the
// canonical numbering: chapter N, sub-topic N + k/denominator. The
// denominator grows with the sub-topic count so ordering stays strict.
func normalizeSerialNumbers(course *model.GeneratedCourse) {
	for i := range course.Chapters {
		ch := &course.Chapters[i]
		ch.SerialNumber = float64(i + 1)

		denom := 10.0
		for denom <= float64(len(ch.SubContent)) {
			denom *= 10
		}
		for j := range ch.SubContent {
			ch.SubContent[j].SerialNumber = ch.SerialNumber + float64(j+1)/denom
		}
	}
}

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// extractJSON pulls a JSON object out of a model reply that may wrap it in
// a fenced code block or surrounding prose.
func extractJSON(reply string) string {
	text := strings.TrimSpace(reply)
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
