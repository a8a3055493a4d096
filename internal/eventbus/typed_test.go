package eventbus

import (
	"testing"

	"github.com/solgrid/fieldmatch/core/events"
)

func TestTypedBusPublishSubscribe(t *testing.T) {
	bus := NewTyped[events.EscrowEvent]()
	ch := bus.Subscribe()
	bus.Publish(events.EscrowEvent{PaymentID: "p1", Action: "captured", Amount: 96000})
	v := <-ch
	if v.PaymentID != "p1" || v.Action != "captured" {
		t.Fatalf("unexpected event %+v", v)
	}
	bus.Unsubscribe(ch)
}

func TestTypedBusClose(t *testing.T) {
	bus := NewTyped[events.BidEvent]()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
}

func TestTypedBusUnsubscribeAfterClose(t *testing.T) {
	bus := NewTyped[events.AllocationEvent]()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}
