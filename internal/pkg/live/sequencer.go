package live

import (
	"sort"
	"time"
)

// Sequencer 单个文档的事件排序
// 丢弃已投递过的版本，乱序到达的先缓存，按版本连续放行
type Sequencer struct {
	delivered  uint64
	pending    map[uint64]Event
	gapSince   time.Time
	gapTimeout time.Duration
	maxPending int
}

func NewSequencer(baseVersion uint64, gapTimeout time.Duration, maxPending int) *Sequencer {
	return &Sequencer{
		delivered:  baseVersion,
		pending:    make(map[uint64]Event),
		gapTimeout: gapTimeout,
		maxPending: maxPending,
	}
}

// Delivered 已投递的最大版本
func (s *Sequencer) Delivered() uint64 {
	return s.delivered
}

// Offer 接收一个事件，返回可按序投递的事件
// overflow 为 true 表示缓存超限，需要重新拉取快照
func (s *Sequencer) Offer(ev Event, now time.Time) (ready []Event, overflow bool) {
	if ev.Version <= s.delivered {
		return nil, false
	}
	if ev.Version != s.delivered+1 {
		s.pending[ev.Version] = ev
		if s.gapSince.IsZero() {
			s.gapSince = now
		}
		return nil, s.maxPending > 0 && len(s.pending) > s.maxPending
	}

	ready = append(ready, ev)
	s.delivered = ev.Version
	for {
		next, ok := s.pending[s.delivered+1]
		if !ok {
			break
		}
		delete(s.pending, next.Version)
		ready = append(ready, next)
		s.delivered = next.Version
	}

	if len(s.pending) == 0 {
		s.gapSince = time.Time{}
	} else {
		s.gapSince = now
	}
	return ready, false
}

// Stalled 缺口持续超过 gapTimeout
func (s *Sequencer) Stalled(now time.Time) bool {
	return !s.gapSince.IsZero() && s.gapTimeout > 0 && now.Sub(s.gapSince) >= s.gapTimeout
}

// Reset 以快照版本为新的起点，丢弃不超过该版本的缓存，返回之后可连续投递的事件
func (s *Sequencer) Reset(version uint64, now time.Time) []Event {
	s.delivered = version
	s.gapSince = time.Time{}

	versions := make([]uint64, 0, len(s.pending))
	for v := range s.pending {
		if v <= version {
			delete(s.pending, v)
			continue
		}
		versions = append(versions, v)
	}
	if len(versions) == 0 {
		return nil
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })

	// 从最小的缓存版本重新尝试衔接
	first := s.pending[versions[0]]
	delete(s.pending, versions[0])
	ready, _ := s.Offer(first, now)
	return ready
}
