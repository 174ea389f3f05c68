package tracing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/vacation/fault"
)

func TestInit(t *testing.T) {
	location := filepath.Join(t.TempDir(), "spans.json")
	shutdown, err := Init("vacation", "0.0.1", location)
	require.NoError(t, err)
	again, err := Init("other", "0.0.2", "")
	require.NoError(t, err)
	require.NotNil(t, again)

	_, span := StartTransition(context.Background(), "approve", "r1")
	span.Annotate(AttrActorID, "hr1")
	span.End(fault.New(fault.Conflict, "approve", "lost race"))

	_, span = StartTransition(context.Background(), "cancel", "r2")
	span.End(nil)

	require.NoError(t, shutdown(context.Background()))
	data, err := os.ReadFile(location)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "vacation.approve")
	assert.Contains(t, content, "r1")
	assert.Contains(t, content, "hr1")
	assert.Contains(t, content, "Conflict")
	assert.Contains(t, content, "vacation.cancel")
}

func TestNilSpan(t *testing.T) {
	var span *Span
	assert.NotPanics(t, func() {
		span.Annotate(AttrActorID, "x")
		span.End(nil)
	})
}
