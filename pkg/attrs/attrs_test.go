package attrs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractString(t *testing.T) {
	list := []any{"subject", "0xabc", "count", 3, "reason", "manual"}

	assert.Equal(t, "0xabc", ExtractString(list, "subject"))
	assert.Equal(t, "manual", ExtractString(list, "reason"))
	assert.Empty(t, ExtractString(list, "count"), "non-string values are ignored")
	assert.Equal(t, "1s", ExtractString([]any{"elapsed", time.Second}, "elapsed"), "stringers are rendered")
	assert.Empty(t, ExtractString(list, "missing"))
	assert.Empty(t, ExtractString([]any{"dangling"}, "dangling"))
}

func TestToMetadata(t *testing.T) {
	list := []any{"subject", "0xabc", "score", 0.5, 42, "skipped", "members", 3, "tail"}

	got := ToMetadata(list, "subject")

	assert.Equal(t, map[string]string{"score": "0.5", "members": "3"}, got)
}
