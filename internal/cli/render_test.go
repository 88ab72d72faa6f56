package cli

import (
	"testing"
	"time"

	"keyscope-core/internal/core/types"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestFormatTTL(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
		want string
	}{
		{"no expiration", -1, "none"},
		{"missing key", -2, "key does not exist"},
		{"seconds", 30 * time.Second, "30s"},
		{"minutes", 90 * time.Second, "1m30s"},
		{"zero", 0, "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatTTL(tt.ttl))
		})
	}
}

func TestTypeTag(t *testing.T) {
	// 关掉颜色，断言裸文本
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	assert.Equal(t, "str", typeTag(types.KeyTypeString))
	assert.Equal(t, "list", typeTag(types.KeyTypeList))
	assert.Equal(t, "hash", typeTag(types.KeyTypeHash))
	assert.Equal(t, "set", typeTag(types.KeyTypeSet))
	assert.Equal(t, "zset", typeTag(types.KeyTypeZSet))
	assert.Equal(t, "?", typeTag(types.KeyTypeUnknown))
	assert.Equal(t, "?", typeTag(types.KeyTypeNone))
}

func TestWriteCommands(t *testing.T) {
	assert.True(t, writeCommands["set"])
	assert.True(t, writeCommands["hset"])
	assert.True(t, writeCommands["del"])
	assert.False(t, writeCommands["get"])
	assert.False(t, writeCommands["scan"])
}
