package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingInvalidator struct{ owners []string }

func (r *recordingInvalidator) InvalidateOwner(_ context.Context, ownerID string) {
	r.owners = append(r.owners, ownerID)
}

func TestHandleMessage(t *testing.T) {
	inv := &recordingInvalidator{}
	err := handleMessage(context.Background(), []byte(`{"type":"todo.created","todo_id":"t-1","owner_id":"owner-a"}`), inv)
	require.NoError(t, err)
	assert.Equal(t, []string{"owner-a"}, inv.owners)
}

func TestHandleMessage_BadPayload(t *testing.T) {
	inv := &recordingInvalidator{}
	assert.Error(t, handleMessage(context.Background(), []byte("not json"), inv))
	assert.Error(t, handleMessage(context.Background(), []byte(`{"type":"todo.created"}`), inv))
	assert.Empty(t, inv.owners)
}

func TestRun_NoBrokersReturns(t *testing.T) {
	Run(context.Background(), nil, "todo-events", &recordingInvalidator{})
}
