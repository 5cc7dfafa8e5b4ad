package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/aretw0/folio/pkg/adapters/lifecycle"
	"github.com/aretw0/folio/pkg/core"
)

func TestSource_Forwards(t *testing.T) {
	in := make(chan core.Event, 2)
	src := adapter.NewSource(in)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventModify, ID: "posts/hello", Timestamp: time.Now().Unix()}
	close(in)

	select {
	case e, ok := <-src.Events():
		require.True(t, ok)
		ev, isContent := e.(core.Event)
		require.True(t, isContent)
		assert.Equal(t, "posts/hello", ev.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok, "expected output to close after input closed")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for close")
	}
}
