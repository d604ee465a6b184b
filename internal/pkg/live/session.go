package live

import (
	"context"
	"fmt"
	"time"
)

// Snapshotter 读取文档当前状态，返回的事件类型为 snapshot
type Snapshotter interface {
	Snapshot(ctx context.Context, doc string) (Event, error)
}

// SendFunc 向客户端写出事件
type SendFunc func(Event) error

// Options 会话参数
type Options struct {
	GapTimeout time.Duration
	MaxPending int
	// OnResync 每次重新同步快照时回调，reason 为 gap 或 overflow
	OnResync func(reason string)
}

const minTick = 100 * time.Millisecond

// Session 一个订阅连接上的全部文档
type Session struct {
	docs []string
	snap Snapshotter
	send SendFunc
	opts Options
	seqs map[string]*Sequencer
}

func NewSession(docs []string, snap Snapshotter, send SendFunc, opts Options) *Session {
	return &Session{
		docs: docs,
		snap: snap,
		send: send,
		opts: opts,
		seqs: make(map[string]*Sequencer, len(docs)),
	}
}

// Run 先发送各文档快照，再按版本顺序转发事件
// 调用方需在 Run 之前完成频道订阅，避免快照与订阅之间的变更丢失
func (s *Session) Run(ctx context.Context, events <-chan Event) error {
	for _, doc := range s.docs {
		if err := s.resync(ctx, doc, ""); err != nil {
			return err
		}
	}

	tick := s.opts.GapTimeout / 2
	if tick < minTick {
		tick = minTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			seq, found := s.seqs[ev.Doc]
			if !found {
				continue
			}
			ready, overflow := seq.Offer(ev, time.Now())
			if err := s.sendAll(ready); err != nil {
				return err
			}
			if overflow {
				if err := s.resync(ctx, ev.Doc, "overflow"); err != nil {
					return err
				}
			}
		case now := <-ticker.C:
			for doc, seq := range s.seqs {
				if !seq.Stalled(now) {
					continue
				}
				if err := s.resync(ctx, doc, "gap"); err != nil {
					return err
				}
			}
		}
	}
}

func (s *Session) resync(ctx context.Context, doc, reason string) error {
	snapshot, err := s.snap.Snapshot(ctx, doc)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", doc, err)
	}
	if err = s.send(snapshot); err != nil {
		return err
	}
	if reason != "" && s.opts.OnResync != nil {
		s.opts.OnResync(reason)
	}

	seq, ok := s.seqs[doc]
	if !ok {
		s.seqs[doc] = NewSequencer(snapshot.Version, s.opts.GapTimeout, s.opts.MaxPending)
		return nil
	}
	return s.sendAll(seq.Reset(snapshot.Version, time.Now()))
}

func (s *Session) sendAll(events []Event) error {
	for _, ev := range events {
		if err := s.send(ev); err != nil {
			return err
		}
	}
	return nil
}
