package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	t.Run("without params", func(t *testing.T) {
		key := GenerateCacheKey("embedding", "openai", "abc123")
		assert.Equal(t, "academyai:embedding:openai:abc123", key)
	})

	t.Run("with params", func(t *testing.T) {
		key := GenerateCacheKey("summary", "lesson", "lesson-1", "v2", "ru")
		assert.Equal(t, "academyai:summary:lesson:lesson-1:v2_ru", key)
	})
}

func TestHashText(t *testing.T) {
	a := HashText("hello")
	b := HashText("hello")
	c := HashText("world")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
