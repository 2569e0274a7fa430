package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToIDs(t *testing.T) {
	ids := toIDs([]any{1.0, "2", " 3 ", "x", 4.5, nil, true})
	assert.Equal(t, []int64{1, 2, 3}, ids)
	assert.Empty(t, toIDs(nil))
}

func TestParseID(t *testing.T) {
	id, ok := parseID("1751277600000")
	assert.True(t, ok)
	assert.Equal(t, int64(1751277600000), id)

	_, ok = parseID("12abc")
	assert.False(t, ok)
}
