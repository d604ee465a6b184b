package live

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func ev(doc string, v uint64) Event {
	return Event{Doc: doc, Version: v, Type: TypeLike}
}

func versions(events []Event) []uint64 {
	out := make([]uint64, len(events))
	for i, e := range events {
		out[i] = e.Version
	}
	return out
}

func equalVersions(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSequencerOrdersOutOfOrderArrivals(t *testing.T) {
	now := time.Now()
	seq := NewSequencer(5, time.Second, 10)

	var got []uint64
	for _, v := range []uint64{7, 4, 6, 5, 9, 8} {
		ready, overflow := seq.Offer(ev("slip:1", v), now)
		if overflow {
			t.Fatal("unexpected overflow")
		}
		got = append(got, versions(ready)...)
	}

	if want := []uint64{6, 7, 8, 9}; !equalVersions(got, want) {
		t.Errorf("delivered %v, want %v", got, want)
	}
	if seq.Stalled(now.Add(time.Hour)) {
		t.Error("no gap should remain")
	}
}

func TestSequencerGapAndOverflow(t *testing.T) {
	now := time.Now()
	seq := NewSequencer(0, time.Second, 2)

	if ready, _ := seq.Offer(ev("slip:1", 3), now); len(ready) != 0 {
		t.Fatalf("delivered across a gap: %v", versions(ready))
	}
	if seq.Stalled(now.Add(500 * time.Millisecond)) {
		t.Error("stalled before timeout")
	}
	if !seq.Stalled(now.Add(time.Second)) {
		t.Error("gap not reported after timeout")
	}

	seq.Offer(ev("slip:1", 4), now)
	if _, overflow := seq.Offer(ev("slip:1", 5), now); !overflow {
		t.Error("expected overflow above max pending")
	}

	ready := seq.Reset(3, now)
	if want := []uint64{4, 5}; !equalVersions(versions(ready), want) {
		t.Errorf("after reset delivered %v, want %v", versions(ready), want)
	}
	if seq.Delivered() != 5 {
		t.Errorf("Delivered() = %d", seq.Delivered())
	}
}

type fakeSnapshots struct {
	mu       sync.Mutex
	versions map[string]uint64
}

func (f *fakeSnapshots) Snapshot(_ context.Context, doc string) (Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Event{Doc: doc, Version: f.versions[doc], Type: TypeSnapshot}, nil
}

func TestSessionSnapshotThenOrderedEvents(t *testing.T) {
	snaps := &fakeSnapshots{versions: map[string]uint64{"slip:1": 2, "user:9": 0}}
	events := make(chan Event, 8)

	var sent []Event
	session := NewSession([]string{"slip:1", "user:9"}, snaps, func(e Event) error {
		sent = append(sent, e)
		return nil
	}, Options{GapTimeout: time.Second, MaxPending: 8})

	// 订阅在快照之前，快照版本之前的事件会被丢弃
	events <- ev("slip:1", 2)
	events <- ev("slip:1", 4)
	events <- ev("user:9", 1)
	events <- ev("slip:1", 3)
	events <- ev("slip:404", 1)
	close(events)

	if err := session.Run(context.Background(), events); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var got []string
	for _, e := range sent {
		got = append(got, fmt.Sprintf("%s@%s#%d", e.Doc, e.Type, e.Version))
	}
	want := []string{"slip:1@snapshot#2", "user:9@snapshot#0", "user:9@like#1", "slip:1@like#3", "slip:1@like#4"}
	if len(got) != len(want) {
		t.Fatalf("sent %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sent %v, want %v", got, want)
		}
	}
}

func TestSessionResyncsOnGap(t *testing.T) {
	snaps := &fakeSnapshots{versions: map[string]uint64{"slip:1": 1}}
	events := make(chan Event)
	resyncs := make(chan string, 1)

	var mu sync.Mutex
	var sent []Event
	session := NewSession([]string{"slip:1"}, snaps, func(e Event) error {
		mu.Lock()
		sent = append(sent, e)
		mu.Unlock()
		return nil
	}, Options{GapTimeout: 150 * time.Millisecond, MaxPending: 8, OnResync: func(reason string) {
		select {
		case resyncs <- reason:
		default:
		}
	}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- session.Run(ctx, events) }()

	// 版本 2 丢失，快照已经前进到 3
	events <- ev("slip:1", 3)
	snaps.mu.Lock()
	snaps.versions["slip:1"] = 3
	snaps.mu.Unlock()

	select {
	case reason := <-resyncs:
		if reason != "gap" {
			t.Errorf("resync reason = %s", reason)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no resync after gap timeout")
	}

	events <- ev("slip:1", 4)
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	last := sent[len(sent)-1]
	if last.Version != 4 || last.Type != TypeLike {
		t.Errorf("last sent = %+v, want like#4", last)
	}
}

func TestParseDoc(t *testing.T) {
	kind, id, err := ParseDoc(SlipDoc(12))
	if err != nil || kind != "slip" || id != 12 {
		t.Errorf("ParseDoc(slip:12) = %s, %d, %v", kind, id, err)
	}
	for _, bad := range []string{"post:1", "slip:", "slip:0", "user:x"} {
		if _, _, err := ParseDoc(bad); err == nil {
			t.Errorf("ParseDoc(%q) accepted", bad)
		}
	}
	if Channel(UserDoc(3)) != "live:user:3" {
		t.Errorf("Channel() = %s", Channel(UserDoc(3)))
	}
}
