package events

import (
	"testing"
	"time"
)

func TestNewBus(t *testing.T) {
	bus := NewBus()
	if bus == nil {
		t.Fatal("NewBus() returned nil")
	}
	if bus.Shots == nil || bus.Hits == nil {
		t.Fatal("bus channels should not be nil")
	}
}

func TestBus_SendReceive(t *testing.T) {
	bus := NewBus()

	go func() {
		bus.PublishHit(HitEvent{TargetID: 2, Score: 1})
	}()

	select {
	case received := <-bus.Hits:
		if received.TargetID != 2 || received.Score != 1 {
			t.Errorf("received %+v, want target 2 score 1", received)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBus_DropsWhenFull(t *testing.T) {
	bus := NewBus()

	for i := 0; i < busCapacity; i++ {
		if !bus.PublishShot(ShotEvent{}) {
			t.Fatalf("PublishShot #%d dropped before the buffer was full", i)
		}
	}

	done := make(chan bool)
	go func() {
		done <- bus.PublishShot(ShotEvent{})
	}()

	select {
	case ok := <-done:
		if ok {
			t.Error("PublishShot on a full bus should report a drop")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("PublishShot blocked on a full bus")
	}
}

func TestBus_Close(t *testing.T) {
	bus := NewBus()
	bus.Close()

	if _, ok := <-bus.Shots; ok {
		t.Error("Shots should be closed")
	}
	if _, ok := <-bus.Hits; ok {
		t.Error("Hits should be closed")
	}
}
