package model

import "time"

// HierarchyItem is one row of the flattened course tree, ordered by serial
// number. Chapters have an empty ParentID.
type HierarchyItem struct {
	ID           string      `json:"id"`
	Type         ContentType `json:"type"`
	Title        string      `json:"title"`
	SerialNumber float64     `json:"serialNumber"`
	ParentID     string      `json:"parentId,omitempty"`
	Current      bool        `json:"current"`
}

type RecommendedQuestion struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// RequestedQuestion is returned on the question-detail path, answer included.
type RequestedQuestion struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Answer string `json:"answer"`
}

// LearnResponse is the sequencer's answer to "what should this user see
// now". The COMPLETE state returns it with empty id/title/text and no
// recommended questions.
type LearnResponse struct {
	Type                 ContentType           `json:"type"`
	ID                   string                `json:"id"`
	Title                string                `json:"title"`
	Text                 string                `json:"text"`
	RecommendedQuestions []RecommendedQuestion `json:"recommendedQuestions"`
	RequestedQuestion    *RequestedQuestion    `json:"requestedQuestion,omitempty"`
	CurrentProgress      int                   `json:"currentProgress"`
	TotalItems           int                   `json:"totalItems"`
	CourseHierarchy      []HierarchyItem       `json:"courseHierarchy"`
}

// FinishResult reports progress after a content node is marked finished.
type FinishResult struct {
	Completed          bool      `json:"completed"`
	TotalContent       int       `json:"totalContent"`
	Progress           int       `json:"progress"`
	ProgressPercentage int       `json:"progressPercentage"`
	LastInteracted     time.Time `json:"lastInteracted"`
}

// CourseProgressSummary decorates enrolled-course listings.
type CourseProgressSummary struct {
	Completed   int  `json:"completed"`
	Total       int  `json:"total"`
	Percentage  int  `json:"percentage"`
	IsCompleted bool `json:"isCompleted"`
}

type CourseSummary struct {
	CourseID       string                 `json:"courseId"`
	Title          string                 `json:"title"`
	Topic          string                 `json:"topic"`
	Complexity     Complexity             `json:"complexity"`
	CreatedAt      time.Time              `json:"createdAt"`
	LastInteracted *time.Time             `json:"lastInteracted,omitempty"`
	Progress       *CourseProgressSummary `json:"progress,omitempty"`
}

// ProgressPercentage implements the canonical rounding rule: 0 when the
// course has no content.
func ProgressPercentage(finished, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(finished)/float64(total)*100 + 0.5)
}
