package kafka

import (
	"Slipboard/internal/pkg/consts"
	"Slipboard/internal/pkg/mongo"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

type memTimeline struct {
	sets map[string]map[string]float64
}

func newMemTimeline() *memTimeline {
	return &memTimeline{sets: map[string]map[string]float64{}}
}

func (m *memTimeline) Add(_ context.Context, key string, score float64, member string, _ int64) error {
	if m.sets[key] == nil {
		m.sets[key] = map[string]float64{}
	}
	m.sets[key][member] = score
	return nil
}

func (m *memTimeline) Remove(_ context.Context, key string, member string) error {
	delete(m.sets[key], member)
	return nil
}

func message(t *testing.T, v any) *sarama.ConsumerMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return &sarama.ConsumerMessage{Value: data}
}

func TestFeedHandlerAddsAndRemoves(t *testing.T) {
	timeline := newMemTimeline()
	h := NewFeedHandler(timeline)
	ctx := context.Background()
	created := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	if err := h.logic(ctx, message(t, &SlipEvent{Type: SlipCreated, SlipID: 11, UserID: 3, CreatedAt: created})); err != nil {
		t.Fatalf("logic() error = %v", err)
	}
	if score := timeline.sets[consts.FeedGlobalKey]["11"]; score != float64(created.UnixMilli()) {
		t.Errorf("global score = %v", score)
	}
	if _, ok := timeline.sets[consts.FeedUserKey+"3"]["11"]; !ok {
		t.Error("slip missing from author timeline")
	}

	if err := h.logic(ctx, message(t, &SlipEvent{Type: SlipDeleted, SlipID: 11, UserID: 3})); err != nil {
		t.Fatalf("logic() error = %v", err)
	}
	if len(timeline.sets[consts.FeedGlobalKey]) != 0 {
		t.Error("deleted slip still in global timeline")
	}

	if err := h.logic(ctx, &sarama.ConsumerMessage{Value: []byte("garbage")}); err != nil {
		t.Errorf("invalid message should be skipped, got %v", err)
	}
}

func TestBuildNotification(t *testing.T) {
	tests := []struct {
		name     string
		ev       ActionEvent
		wantType int8
		wantNil  bool
	}{
		{"like", ActionEvent{Type: ActionLike, Active: true, ActorID: 1, OwnerID: 2, TargetID: 9}, mongo.SysBoxSlipLiked, false},
		{"unlike", ActionEvent{Type: ActionLike, Active: false, ActorID: 1, OwnerID: 2, TargetID: 9}, 0, true},
		{"own slip", ActionEvent{Type: ActionSave, Active: true, ActorID: 2, OwnerID: 2, TargetID: 9}, 0, true},
		{"comment", ActionEvent{Type: ActionComment, Active: true, ActorID: 1, OwnerID: 2, TargetID: 9, CommentID: 5, Content: "nice"}, mongo.SysBoxSlipCommented, false},
		{"follow", ActionEvent{Type: ActionFollow, Active: true, ActorID: 1, OwnerID: 2, TargetID: 2}, mongo.SysBoxFollowed, false},
		{"unknown", ActionEvent{Type: "report", Active: true, ActorID: 1, OwnerID: 2}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := buildNotification(&tt.ev)
			if tt.wantNil {
				if n != nil {
					t.Fatalf("got notification %+v, want none", n)
				}
				return
			}
			if n == nil || n.Type != tt.wantType || n.ReceiverID != tt.ev.OwnerID || n.DedupeKey == "" {
				t.Fatalf("notification = %+v", n)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	long := strings.Repeat("好", commentPreviewLen+5)
	if got := preview(long); !strings.HasSuffix(got, "...") || len([]rune(got)) != commentPreviewLen+3 {
		t.Errorf("preview() = %q", got)
	}
	if preview("short") != "short" {
		t.Error("short content changed")
	}
}
