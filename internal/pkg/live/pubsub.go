package live

import (
	"Slipboard/internal/pkg/redis"
	"context"
	"fmt"
	log "log/slog"

	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"
)

// Publisher 提交后发布变更
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type redisPublisher struct{}

func NewRedisPublisher() Publisher {
	return &redisPublisher{}
}

func (p *redisPublisher) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal live event: %w", err)
	}
	return redis.Publish(ctx, Channel(ev.Doc), data)
}

// Listener Redis 频道订阅
type Listener struct {
	ps   *goredis.PubSub
	out  chan Event
	done chan struct{}
}

// Listen 订阅文档频道，返回前确认订阅已生效
func Listen(ctx context.Context, docs []string) (*Listener, error) {
	channels := make([]string, len(docs))
	for i, doc := range docs {
		channels[i] = Channel(doc)
	}

	ps := redis.Subscribe(ctx, channels...)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe live channels: %w", err)
	}

	l := &Listener{
		ps:   ps,
		out:  make(chan Event, 64),
		done: make(chan struct{}),
	}
	go l.loop()
	return l, nil
}

func (l *Listener) loop() {
	defer close(l.out)
	for msg := range l.ps.Channel() {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Warn("decode live event error", "channel", msg.Channel, "err", err)
			continue
		}
		select {
		case l.out <- ev:
		case <-l.done:
			return
		}
	}
}

// Events 解码后的事件
func (l *Listener) Events() <-chan Event {
	return l.out
}

func (l *Listener) Close() error {
	close(l.done)
	return l.ps.Close()
}

type nopPublisher struct{}

// NewNopPublisher 不发布任何事件
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, Event) error {
	return nil
}
