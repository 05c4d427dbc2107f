package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInferType(t *testing.T) {
	tests := []struct {
		name     string
		raw      []string
		expected Type
	}{
		{"integers", []string{"1", "2", "-3"}, TypeInteger},
		{"integers with missing", []string{"1", "", "3", "NA"}, TypeInteger},
		{"floats", []string{"1.5", "2", "3.25"}, TypeFloat},
		{"booleans", []string{"true", "false", "yes"}, TypeBoolean},
		{"timestamps", []string{"2024-01-02", "2024-06-30"}, TypeTimestamp},
		{"strings", []string{"alpha", "2", "true"}, TypeString},
		{"all missing", []string{"", "null", "n/a"}, TypeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InferType(tt.raw))
		})
	}
}

func TestIsMissingToken(t *testing.T) {
	assert.True(t, IsMissingToken(""))
	assert.True(t, IsMissingToken("NaN"))
	assert.True(t, IsMissingToken(" null "))
	assert.False(t, IsMissingToken("0"))
	assert.False(t, IsMissingToken("nanometer"))
}

func TestColumnFromStrings(t *testing.T) {
	col := ColumnFromStrings("age", TypeInteger, []string{"25", "", "30"})
	assert.Equal(t, int64(25), col.Value(0))
	assert.True(t, col.IsMissing(1))
	assert.Equal(t, int64(30), col.Value(2))

	ts := ColumnFromStrings("when", TypeTimestamp, []string{"2024-01-02", "bogus"})
	want, _ := time.Parse("2006-01-02", "2024-01-02")
	assert.Equal(t, want, ts.Value(0))
	// Unparsable values become missing in the lenient loader path.
	assert.True(t, ts.IsMissing(1))
}

func TestParseBool(t *testing.T) {
	b, ok := ParseBool("Yes")
	assert.True(t, ok)
	assert.True(t, b)
	_, ok = ParseBool("maybe")
	assert.False(t, ok)
}
