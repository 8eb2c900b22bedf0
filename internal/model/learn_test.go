package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressPercentage(t *testing.T) {
	tests := []struct {
		name     string
		finished int
		total    int
		want     int
	}{
		{"empty course", 0, 0, 0},
		{"negative total", 1, -1, 0},
		{"nothing finished", 0, 8, 0},
		{"half", 4, 8, 50},
		{"rounds up", 1, 3, 33},
		{"rounds nearest", 2, 3, 67},
		{"complete", 8, 8, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProgressPercentage(tt.finished, tt.total))
		})
	}
}

func TestContentType(t *testing.T) {
	assert.True(t, ContentTypeChapter.Valid())
	assert.True(t, ContentTypeSubContent.Valid())
	assert.False(t, ContentType("course").Valid())

	assert.Equal(t, "Chapter", ContentTypeChapter.Label())
	assert.Equal(t, "SubContent", ContentTypeSubContent.Label())
	assert.Equal(t, "chapterId", ContentTypeChapter.IDProperty())
	assert.Equal(t, "subContentId", ContentTypeSubContent.IDProperty())
}

func TestComplexityValid(t *testing.T) {
	for _, c := range []Complexity{SurfaceLevel, ExploringLevel, ExperimenterLevel, ExpertLevel} {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, Complexity("Beginner").Valid())
}
