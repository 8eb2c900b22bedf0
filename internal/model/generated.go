package model

// GeneratedCourse is the validated tree the course generator produces. The
// sequencing core never sees it; only the import path does.
type GeneratedCourse struct {
	Title      string             `json:"Course"`
	Complexity Complexity         `json:"complexity"`
	Chapters   []GeneratedChapter `json:"chapters"`
}

type GeneratedChapter struct {
	Title        string              `json:"title"`
	Content      string              `json:"content"`
	SerialNumber float64             `json:"serialNumber"`
	Questions    []GeneratedQuestion `json:"questions"`
	SubContent   []GeneratedSubTopic `json:"sub_content"`
}

type GeneratedSubTopic struct {
	Title        string              `json:"title"`
	Content      string              `json:"content"`
	SerialNumber float64             `json:"serialNumber"`
	Questions    []GeneratedQuestion `json:"questions"`
}

type GeneratedQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// TopicValidation is the generator's verdict on whether a topic can carry a
// course at all.
type TopicValidation struct {
	CanBeCourse bool   `json:"canBeCourse"`
	Reason      string `json:"reason"`
}
