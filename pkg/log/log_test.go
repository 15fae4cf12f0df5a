package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextIDs(t *testing.T) {
	ctx, correlationID := WithCorrelationID(context.Background())
	ctx = WithJobID(ctx, "V1StGXR8_Z5j")

	assert.Equal(t, correlationID, GetCorrelationID(ctx))
	assert.Equal(t, "V1StGXR8_Z5j", GetJobID(ctx))
	assert.Empty(t, GetJobID(context.Background()))
}

func TestIsDevelopmentField(t *testing.T) {
	tests := []struct {
		key      string
		expected bool
	}{
		{key: "job_id", expected: true},
		{key: "entity_type", expected: true},
		{key: "sync_mode", expected: true},
		{key: "correlation_id", expected: true},
		{key: "user_agent", expected: false},
		{key: "query", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, isDevelopmentField(tt.key))
		})
	}
}
