package model

import "time"

// Complexity is one of the four ordinal course tiers.
type Complexity string

const (
	SurfaceLevel      Complexity = "Surface Level"
	ExploringLevel    Complexity = "Exploring Level"
	ExperimenterLevel Complexity = "Experimenter Level"
	ExpertLevel       Complexity = "Expert Level"
)

func (c Complexity) Valid() bool {
	switch c {
	case SurfaceLevel, ExploringLevel, ExperimenterLevel, ExpertLevel:
		return true
	}
	return false
}

// ContentType distinguishes the two node kinds a learner can finish.
type ContentType string

const (
	ContentTypeChapter    ContentType = "content"
	ContentTypeSubContent ContentType = "subcontent"
)

func (t ContentType) Valid() bool {
	return t == ContentTypeChapter || t == ContentTypeSubContent
}

// Label returns the graph label backing the content type.
func (t ContentType) Label() string {
	if t == ContentTypeChapter {
		return "Chapter"
	}
	return "SubContent"
}

// IDProperty returns the id property name on the backing node.
func (t ContentType) IDProperty() string {
	if t == ContentTypeChapter {
		return "chapterId"
	}
	return "subContentId"
}

type Course struct {
	CourseID   string     `json:"courseId"`
	Title      string     `json:"title"`
	Topic      string     `json:"topic"`
	Complexity Complexity `json:"complexity"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type Chapter struct {
	ChapterID    string  `json:"chapterId"`
	Title        string  `json:"title"`
	Content      string  `json:"content"`
	SerialNumber float64 `json:"serialNumber"`
}

type SubContent struct {
	SubContentID string  `json:"subContentId"`
	Title        string  `json:"title"`
	Content      string  `json:"content"`
	SerialNumber float64 `json:"serialNumber"`
}

type Question struct {
	QuestionID string `json:"questionId"`
	Text       string `json:"text"`
}

type Answer struct {
	AnswerID string `json:"answerId"`
	Text     string `json:"text"`
}

// ContentNode is the unified view of a Chapter or SubContent used by the
// sequencer. Serial numbers compare as plain numbers: chapter N is N,
// its sub-content is N.k, so one numeric sort yields reading order.
type ContentNode struct {
	ID           string      `json:"id"`
	Type         ContentType `json:"type"`
	Title        string      `json:"title"`
	Text         string      `json:"text"`
	SerialNumber float64     `json:"serialNumber"`
}
