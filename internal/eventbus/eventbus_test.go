package eventbus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesMatchingCollection(t *testing.T) {
	b := New("")
	sub := b.Subscribe("cpu")
	defer sub.Close()

	b.Publish(Event{Collection: "cpu", Sequence: 1})
	b.Publish(Event{Collection: "memory", Sequence: 2})

	ev := <-sub.C
	require.Equal(t, "cpu", ev.Collection)

	select {
	case <-sub.C:
		t.Fatal("should not have received memory event on a cpu-only subscription")
	default:
	}
}

func TestSubscribeAllCollectionsWhenEmptyFilter(t *testing.T) {
	b := New("")
	sub := b.Subscribe("")
	defer sub.Close()

	b.Publish(Event{Collection: "cpu"})
	b.Publish(Event{Collection: "memory"})

	require.Equal(t, "cpu", (<-sub.C).Collection)
	require.Equal(t, "memory", (<-sub.C).Collection)
}

func TestPublishDropsNewestWhenQueueFull(t *testing.T) {
	b := New("")
	sub := b.Subscribe("cpu")
	defer sub.Close()

	for i := 0; i < DefaultQueueDepth+5; i++ {
		b.Publish(Event{Collection: "cpu", Sequence: int64(i)})
	}

	first := <-sub.C
	require.Equal(t, int64(0), first.Sequence, "oldest queued event must survive; overflow drops the newest")
}

func TestCloseStopsDelivery(t *testing.T) {
	b := New("")
	sub := b.Subscribe("cpu")
	sub.Close()

	b.Publish(Event{Collection: "cpu"})

	_, ok := <-sub.C
	require.False(t, ok, "channel should be closed")
}

func TestPublishWithoutNATSConfiguredIsSilentNoOp(t *testing.T) {
	b := New("wirlwind")
	require.NotPanics(t, func() {
		b.Publish(Event{Collection: "cpu"})
	})
}

func TestCloseWithoutNATSConfiguredIsSilentNoOp(t *testing.T) {
	b := New("wirlwind")
	require.NotPanics(t, func() { b.Close() })

	b2 := New("")
	require.NotPanics(t, func() { b2.Close() })
}
