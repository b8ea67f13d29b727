package formatting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrettyJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"simple object", map[string]any{"name": "test", "value": 42}, "{\n  \"name\": \"test\",\n  \"value\": 42\n}"},
		{"array", []string{"a", "b"}, "[\n  \"a\",\n  \"b\"\n]"},
		{"string", "hello world", "\"hello world\""},
		{"nil", nil, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PrettyJSON(tt.input))
		})
	}
}

func TestPrettyJSONWithInvalidData(t *testing.T) {
	result := PrettyJSON(make(chan int))
	assert.Contains(t, result, "0x", "falls back to %v for unmarshalable values")
}
