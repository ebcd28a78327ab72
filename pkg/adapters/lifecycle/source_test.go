package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notekeeper/pkg/adapters/lifecycle"
	"github.com/aretw0/notekeeper/pkg/session"
)

func TestSource_ForwardsChanges(t *testing.T) {
	changes := make(chan session.Change, 2)
	changes <- session.Change{Seq: 1, Event: "start", Snapshot: session.Snapshot{Mode: session.Viewing("")}}
	changes <- session.Change{Seq: 2, Event: "selectNote", Snapshot: session.Snapshot{Mode: session.Viewing("3")}}
	close(changes)

	src := lifecycle.NewSource(changes)
	require.NoError(t, src.Start(context.Background()))

	var got []string
	timeout := time.After(2 * time.Second)
	for {
		select {
		case e, ok := <-src.Events():
			if !ok {
				assert.Equal(t, []string{"#1 start Viewing(none)", "#2 selectNote Viewing(3)"}, got)
				return
			}
			got = append(got, e.String())
		case <-timeout:
			t.Fatal("timed out waiting for events")
		}
	}
}

func TestSource_StopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := lifecycle.NewSource(make(chan session.Change))
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("source did not close")
	}
}
