package trace

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFromHeader(t *testing.T) {
	assert.Equal(t, "abc", FromHeader("abc"))

	generated := FromHeader("")
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithContext(context.Background(), "t-1")
	assert.Equal(t, "t-1", FromContext(ctx))
	assert.Equal(t, "", FromContext(context.Background()))
}
